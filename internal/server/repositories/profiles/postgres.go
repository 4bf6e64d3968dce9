package profiles

import (
	"context"

	"github.com/dmitrijs2005/jobassistant/internal/dbx"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, accountID string) (*models.Profile, error) {
	query := `SELECT data, updated_at FROM profiles WHERE user_id = $1`

	p := &models.Profile{AccountID: accountID}
	var data []byte
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&data, &p.UpdatedAt); err != nil {
		return nil, dbx.WrapErr("get profile", err)
	}
	p.Data = data
	return p, nil
}

func (r *PostgresRepository) Put(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, data)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = now()
		RETURNING updated_at
	`
	if err := r.db.QueryRowContext(ctx, query, p.AccountID, string(p.Data)).Scan(&p.UpdatedAt); err != nil {
		return dbx.WrapErr("put profile", err)
	}
	return nil
}
