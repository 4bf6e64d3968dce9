package conversations

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/dbx"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Conversation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Title == "" {
		c.Title = models.DefaultConversationTitle
	}
	query := `
		INSERT INTO chat_threads (id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRowContext(ctx, query, c.ID, c.OwnerID, c.Title).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return dbx.WrapErr("insert conversation", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (*models.Conversation, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_threads
		WHERE id = $1 AND user_id = $2
	`
	c := &models.Conversation{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(&c.ID, &c.OwnerID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, dbx.WrapErr("get conversation", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, limit int) ([]*models.Conversation, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_threads
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, common.NewStoreError("list conversations", err)
	}
	defer rows.Close()

	var result []*models.Conversation
	for rows.Next() {
		c := &models.Conversation{}
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, common.NewStoreError("list conversations", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStoreError("list conversations", err)
	}
	return result, nil
}

func (r *PostgresRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return common.NewStoreError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.NewStoreError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Rename(ctx context.Context, id, ownerID, title string) error {
	return r.execOne(ctx, "rename conversation",
		`UPDATE chat_threads SET title = $3, updated_at = now() WHERE id = $1 AND user_id = $2`,
		id, ownerID, title)
}

func (r *PostgresRepository) Touch(ctx context.Context, id, ownerID string) error {
	return r.execOne(ctx, "touch conversation",
		`UPDATE chat_threads SET updated_at = now() WHERE id = $1 AND user_id = $2`,
		id, ownerID)
}

// Delete relies on chat_messages.thread_id ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	return r.execOne(ctx, "delete conversation",
		`DELETE FROM chat_threads WHERE id = $1 AND user_id = $2`,
		id, ownerID)
}

func (r *PostgresRepository) Oldest(ctx context.Context, ownerID string) (*models.Conversation, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_threads
		WHERE user_id = $1
		ORDER BY updated_at ASC, id ASC
		LIMIT 1
	`
	c := &models.Conversation{}
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&c.ID, &c.OwnerID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, dbx.WrapErr("oldest conversation", err)
	}
	return c, nil
}

func (r *PostgresRepository) Usage(ctx context.Context, ownerID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(
			octet_length(m.content) + COALESCE(octet_length(m.attachments::text), 0)
		), 0)
		FROM chat_messages m
		JOIN chat_threads t ON m.thread_id = t.id
		WHERE t.user_id = $1
	`
	var used int64
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&used); err != nil {
		return 0, common.NewStoreError("storage usage", err)
	}
	return used, nil
}
