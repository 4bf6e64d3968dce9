// Package conversations declares the repository contract for chat threads
// and the per-owner storage accounting over them.
package conversations

import (
	"context"

	"github.com/dmitrijs2005/jobassistant/internal/server/models"
)

// Repository scopes every read and write by the (id, owner) pair, so a
// conversation of another owner behaves exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, c *models.Conversation) error
	Get(ctx context.Context, id, ownerID string) (*models.Conversation, error)
	// List returns the most recently updated first.
	List(ctx context.Context, ownerID string, limit int) ([]*models.Conversation, error)
	Rename(ctx context.Context, id, ownerID, title string) error
	Touch(ctx context.Context, id, ownerID string) error
	// Delete removes the conversation; its entries go with it.
	Delete(ctx context.Context, id, ownerID string) error

	// Oldest is the least recently updated conversation, ties broken by id.
	Oldest(ctx context.Context, ownerID string) (*models.Conversation, error)
	// Usage is the stored size of every entry the owner has, in bytes.
	Usage(ctx context.Context, ownerID string) (int64, error)
}
