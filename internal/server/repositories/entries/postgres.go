// Package entries provides the PostgreSQL-backed store of conversation
// entries.
package entries

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/dbx"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func attachmentsArg(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// Append inserts the entry and fills its id and created_at.
func (r *PostgresRepository) Append(ctx context.Context, entry *models.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	query := `
		INSERT INTO chat_messages (id, thread_id, role, content, intent, attachments)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.ConversationID, string(entry.Role), entry.Content,
		sql.NullString{String: entry.Intent, Valid: entry.Intent != ""},
		attachmentsArg(entry.Attachments),
	).Scan(&entry.CreatedAt)
	if err != nil {
		return dbx.WrapErr("append entry", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, conversationID, ownerID string) ([]*models.Entry, error) {
	query := `
		SELECT m.id, m.thread_id, m.role, m.content, m.intent, m.attachments, m.created_at
		FROM chat_messages m
		JOIN chat_threads t ON m.thread_id = t.id
		WHERE m.thread_id = $1 AND t.user_id = $2
		ORDER BY m.created_at ASC, m.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, conversationID, ownerID)
	if err != nil {
		return nil, common.NewStoreError("list entries", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		var (
			e           models.Entry
			role        string
			intent      sql.NullString
			attachments []byte
		)
		if err := rows.Scan(&e.ID, &e.ConversationID, &role, &e.Content, &intent, &attachments, &e.CreatedAt); err != nil {
			return nil, common.NewStoreError("list entries", err)
		}
		e.Role = models.Role(role)
		e.Intent = intent.String
		if len(attachments) > 0 {
			e.Attachments = attachments
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStoreError("list entries", err)
	}
	return result, nil
}
