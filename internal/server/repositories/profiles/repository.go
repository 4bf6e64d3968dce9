// Package profiles stores one profile document per account.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/jobassistant/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrNotFound when the account never saved a profile.
	Get(ctx context.Context, accountID string) (*models.Profile, error)
	// Put creates or replaces the profile and fills UpdatedAt.
	Put(ctx context.Context, p *models.Profile) error
}
