package entries

import (
	"context"

	"github.com/dmitrijs2005/jobassistant/internal/server/models"
)

// Repository stores conversation entries. Entries are append-only; they are
// removed only together with their conversation.
type Repository interface {
	Append(ctx context.Context, entry *models.Entry) error
	// List returns the entries of a conversation oldest first, or nothing when
	// the conversation does not belong to ownerID.
	List(ctx context.Context, conversationID, ownerID string) ([]*models.Entry, error)
}
