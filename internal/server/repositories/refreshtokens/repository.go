// Package refreshtokens declares the repository contract for stored refresh
// credentials.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/jobassistant/internal/server/models"
)

// Repository stores refresh credentials by digest only.
type Repository interface {
	// Create assigns an id when empty.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Consume revokes the non-revoked credential with tokenHash and returns it
	// as it was before the update, expired or not. Only one caller can consume
	// a given credential; everyone else gets common.ErrNotFound.
	Consume(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// RevokeAll revokes every live credential of the account and returns how
	// many rows changed.
	RevokeAll(ctx context.Context, accountID string) (int64, error)
}
