// Package refreshtokens provides a PostgreSQL-backed repository for refresh
// credentials used by the session lifecycle.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/dbx"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository works over dbx.DBTX (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, token.ID, token.AccountID, token.TokenHash, token.ExpiresAt).Scan(&token.CreatedAt)
	if err != nil {
		return dbx.WrapErr("insert refresh token", err)
	}
	return nil
}

// Consume finds and revokes in one conditional statement, so two concurrent
// callers with the same secret cannot both see the row.
func (r *PostgresRepository) Consume(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE token_hash = $1 AND revoked = FALSE
		RETURNING id, user_id, token_hash, expires_at, created_at
	`
	t := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&t.ID, &t.AccountID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, dbx.WrapErr("consume refresh token", err)
	}
	return t, nil
}

func (r *PostgresRepository) RevokeAll(ctx context.Context, accountID string) (int64, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE user_id = $1 AND revoked = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, accountID)
	if err != nil {
		return 0, common.NewStoreError("revoke refresh tokens", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.NewStoreError("revoke refresh tokens", err)
	}
	return n, nil
}
