package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/dbx"
	"github.com/dmitrijs2005/jobassistant/internal/logging"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/repomanager"
)

// Archiver keeps a copy of a conversation that is about to be evicted.
type Archiver interface {
	Archive(ctx context.Context, c *models.Conversation, entries []*models.Entry) error
}

// Eviction describes the conversation Enforce removed.
type Eviction struct {
	ConversationID string
	Title          string
	UsageBefore    int64
	Limit          int64
}

// QuotaService keeps an account's stored conversation bytes near a limit by
// evicting whole conversations, oldest first.
type QuotaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archiver    Archiver
	log         logging.Logger
}

// NewQuotaService accepts a nil archiver.
func NewQuotaService(db *sql.DB, m repomanager.RepositoryManager, archiver Archiver, log logging.Logger) *QuotaService {
	return &QuotaService{db: db, repomanager: m, archiver: archiver, log: log.With("module", "quota")}
}

// Usage is the byte size of every entry the account owns.
func (q *QuotaService) Usage(ctx context.Context, accountID string) (int64, error) {
	return q.repomanager.Conversations(q.db).Usage(ctx, accountID)
}

// Enforce deletes the least recently updated conversation when usage is over
// limit. It removes at most one conversation per call, so usage can stay
// above limit afterwards. Nil Eviction means nothing was removed.
//
// With an archiver, the conversation that is about to go is read and
// uploaded first, outside the transaction that deletes it.
func (q *QuotaService) Enforce(ctx context.Context, accountID string, limit int64) (*Eviction, error) {
	archived := q.archive(ctx, accountID, limit)

	var eviction *Eviction
	err := dbx.WithTx(ctx, q.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		convs := q.repomanager.Conversations(tx)

		used, err := convs.Usage(ctx, accountID)
		if err != nil {
			return err
		}
		if used <= limit {
			return nil
		}

		oldest, err := convs.Oldest(ctx, accountID)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := convs.Delete(ctx, oldest.ID, accountID); err != nil {
			return err
		}
		eviction = &Eviction{ConversationID: oldest.ID, Title: oldest.Title, UsageBefore: used, Limit: limit}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if eviction != nil {
		q.log.Info(ctx, "evicted conversation over storage limit",
			"account_id", accountID, "conversation_id", eviction.ConversationID,
			"usage", eviction.UsageBefore, "limit", limit)
		if q.archiver != nil && archived != eviction.ConversationID {
			q.log.Warn(ctx, "evicted conversation was not archived", "conversation_id", eviction.ConversationID)
		}
	}
	return eviction, nil
}

// archive uploads the conversation Enforce is going to evict and returns its
// id, or "" when there is nothing to archive or the upload failed. Failures
// are logged, never returned.
func (q *QuotaService) archive(ctx context.Context, accountID string, limit int64) string {
	if q.archiver == nil {
		return ""
	}
	convs := q.repomanager.Conversations(q.db)

	used, err := convs.Usage(ctx, accountID)
	if err != nil || used <= limit {
		return ""
	}
	oldest, err := convs.Oldest(ctx, accountID)
	if err != nil {
		return ""
	}

	entries, err := q.repomanager.Entries(q.db).List(ctx, oldest.ID, accountID)
	if err == nil {
		err = q.archiver.Archive(ctx, oldest, entries)
	}
	if err != nil {
		q.log.Warn(ctx, "archive of evicted conversation failed", "conversation_id", oldest.ID, "error", err)
		return ""
	}
	return oldest.ID
}
