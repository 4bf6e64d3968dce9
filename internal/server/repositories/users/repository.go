// Package users declares the account repository contract.
package users

import (
	"context"

	"github.com/dmitrijs2005/jobassistant/internal/server/models"
)

// Repository persists accounts. Lookups return common.ErrNotFound when no row
// matches; writes that hit a unique constraint return common.ErrConflict.
type Repository interface {
	// Create assigns an id when empty and fills the timestamps.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	// GetByEmail compares case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByExternalSubject(ctx context.Context, subject string) (*models.Account, error)

	// Exists reports whether username or email (case-insensitive) is taken.
	Exists(ctx context.Context, username, email string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)

	LinkExternal(ctx context.Context, id, subject string, providers models.ProviderSet) error
	UpdatePassword(ctx context.Context, id, digest string, providers models.ProviderSet) error
	Deactivate(ctx context.Context, id string) error
}
