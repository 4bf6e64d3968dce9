package users

import (
	"context"
	"database/sql"
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

const selectAccount = `SELECT id, username, email, hashed_password, auth_provider, external_subject, is_active, created_at, updated_at
		 FROM users`

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanAccount(row *sql.Row, op string) (*models.Account, error) {
	var (
		a        models.Account
		password sql.NullString
		subject  sql.NullString
		provider string
	)
	err := row.Scan(&a.ID, &a.Username, &a.Email, &password, &provider, &subject, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, dbx.WrapErr(op, err)
	}
	a.PasswordDigest = password.String
	a.ExternalSubject = subject.String
	if a.Providers, err = models.ParseProviderSet(provider); err != nil {
		return nil, common.NewStoreError(op, err)
	}
	return &a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, username, email, hashed_password, auth_provider, external_subject, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		 RETURNING is_active, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Username, account.Email, nullable(account.PasswordDigest),
		account.Providers.String(), nullable(account.ExternalSubject),
	).Scan(&account.Active, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, dbx.WrapErr("insert account", err)
	}
	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+` WHERE id = $1`, id), "get account by id")
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+` WHERE username = $1`, username), "get account by username")
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+` WHERE lower(email) = lower($1)`, email), "get account by email")
}

func (r *PostgresRepository) GetByExternalSubject(ctx context.Context, subject string) (*models.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+` WHERE external_subject = $1`, subject), "get account by subject")
}

func (r *PostgresRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR lower(email) = lower($2))`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, common.NewStoreError("check account exists", err)
	}
	return exists, nil
}

func (r *PostgresRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&taken); err != nil {
		return false, common.NewStoreError("check username", err)
	}
	return taken, nil
}

func (r *PostgresRepository) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbx.WrapErr(op, err)
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

func (r *PostgresRepository) LinkExternal(ctx context.Context, id, subject string, providers models.ProviderSet) error {
	return r.exec(ctx, "link external identity",
		`UPDATE users SET external_subject = $2, auth_provider = $3, updated_at = now() WHERE id = $1`,
		id, subject, providers.String())
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, digest string, providers models.ProviderSet) error {
	return r.exec(ctx, "update password",
		`UPDATE users SET hashed_password = $2, auth_provider = $3, updated_at = now() WHERE id = $1`,
		id, digest, providers.String())
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	return r.exec(ctx, "deactivate account",
		`UPDATE users SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
}
