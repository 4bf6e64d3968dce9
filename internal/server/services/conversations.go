package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/dbx"
	"github.com/dmitrijs2005/jobassistant/internal/logging"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ConversationList is a page of conversations with the owner's storage use.
type ConversationList struct {
	Conversations []*models.Conversation `json:"threads"`
	StorageUsed   int64                  `json:"storage_used"`
	StorageLimit  int64                  `json:"storage_limit"`
}

// ConversationDetail is a conversation with its entries, oldest first.
type ConversationDetail struct {
	Conversation *models.Conversation `json:"thread"`
	Entries      []*models.Entry      `json:"messages"`
}

// TurnResult is the outcome of AppendTurn.
type TurnResult struct {
	ConversationID string       `json:"thread_id"`
	Intent         string       `json:"intent"`
	Response       string       `json:"response"`
	Attachments    []Attachment `json:"attachments"`
	Evicted        *Eviction    `json:"-"`
}

type ConversationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	quota       *QuotaService
	profiles    *ProfileService
	responder   Responder
	limit       int64
	log         logging.Logger
}

// NewConversationService accepts nil profiles and responder; turns then carry
// no profile and get GuideResponder replies.
func NewConversationService(db *sql.DB, m repomanager.RepositoryManager, quota *QuotaService, profiles *ProfileService, responder Responder, limit int64, log logging.Logger) *ConversationService {
	if responder == nil {
		responder = GuideResponder{}
	}
	return &ConversationService{
		db:          db,
		repomanager: m,
		quota:       quota,
		profiles:    profiles,
		responder:   responder,
		limit:       limit,
		log:         log.With("module", "conversations"),
	}
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.DefaultConversationTitle, nil
	}
	if utf8.RuneCountInString(title) > titleMaxRunes {
		return "", invalid("title must be at most %d characters", titleMaxRunes)
	}
	return title, nil
}

func (s *ConversationService) Create(ctx context.Context, accountID, title string) (*models.Conversation, error) {
	title, err := validTitle(title)
	if err != nil {
		return nil, err
	}
	c := &models.Conversation{OwnerID: accountID, Title: title}
	if err := s.repomanager.Conversations(s.db).Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "conversation created", "account_id", accountID, "conversation_id", c.ID)
	return c, nil
}

// List returns up to limit conversations, most recently updated first. limit
// outside 1..100 falls back to 50 or 100.
func (s *ConversationService) List(ctx context.Context, accountID string, limit int) (*ConversationList, error) {
	convs, err := s.repomanager.Conversations(s.db).List(ctx, accountID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	used, err := s.quota.Usage(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if convs == nil {
		convs = []*models.Conversation{}
	}
	return &ConversationList{Conversations: convs, StorageUsed: used, StorageLimit: s.limit}, nil
}

func (s *ConversationService) Get(ctx context.Context, accountID, conversationID string) (*ConversationDetail, error) {
	c, err := s.repomanager.Conversations(s.db).Get(ctx, conversationID, accountID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repomanager.Entries(s.db).List(ctx, conversationID, accountID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.Entry{}
	}
	return &ConversationDetail{Conversation: c, Entries: entries}, nil
}

func (s *ConversationService) Rename(ctx context.Context, accountID, conversationID, title string) error {
	title, err := validTitle(title)
	if err != nil {
		return err
	}
	return s.repomanager.Conversations(s.db).Rename(ctx, conversationID, accountID, title)
}

// Delete removes the conversation with all of its entries.
func (s *ConversationService) Delete(ctx context.Context, accountID, conversationID string) error {
	if err := s.repomanager.Conversations(s.db).Delete(ctx, conversationID, accountID); err != nil {
		return err
	}
	s.log.Info(ctx, "conversation deleted", "account_id", accountID, "conversation_id", conversationID)
	return nil
}

// AppendTurn stores a user message and the assistant reply to it.
//
// An empty conversationID starts a conversation titled after the message; a
// conversation still titled "New chat" is renamed the same way. The storage
// quota is enforced before anything is written. If that evicts the target
// conversation, the turn goes to a freshly started one, whose id is returned.
// Nothing of the turn is stored unless the Responder produced a reply.
func (s *ConversationService) AppendTurn(ctx context.Context, accountID, conversationID, message string, turnContext json.RawMessage) (*TurnResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, invalid("message is required")
	}
	if utf8.RuneCountInString(message) > messageMaxRunes {
		return nil, invalid("message must be at most %d characters", messageMaxRunes)
	}

	var target *models.Conversation
	if conversationID != "" {
		c, err := s.repomanager.Conversations(s.db).Get(ctx, conversationID, accountID)
		if err != nil {
			return nil, err
		}
		target = c
	}

	eviction, err := s.quota.Enforce(ctx, accountID, s.limit)
	if err != nil {
		return nil, err
	}
	if eviction != nil && target != nil && eviction.ConversationID == target.ID {
		s.log.Info(ctx, "target conversation evicted, continuing in a new one",
			"account_id", accountID, "evicted", target.ID)
		target = nil
	}

	title := titleFromMessage(message)
	create := target == nil
	if create {
		target = &models.Conversation{ID: uuid.NewString(), OwnerID: accountID, Title: title}
	}

	var profile json.RawMessage
	if s.profiles != nil {
		if profile, err = s.profiles.forPrompt(ctx, accountID); err != nil {
			return nil, err
		}
	}

	reply, err := s.responder.Respond(ctx, Prompt{
		AccountID:      accountID,
		ConversationID: target.ID,
		Message:        message,
		Context:        turnContext,
		Profile:        profile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: responder: %v", common.ErrorInternal, err)
	}
	if reply.Intent == "" {
		reply.Intent = IntentGeneral
	}
	if reply.Attachments == nil {
		reply.Attachments = []Attachment{}
	}

	var attachments json.RawMessage
	if len(reply.Attachments) > 0 {
		if attachments, err = json.Marshal(reply.Attachments); err != nil {
			return nil, fmt.Errorf("%w: encode attachments: %v", common.ErrorInternal, err)
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		convs := s.repomanager.Conversations(tx)
		switch {
		case create:
			if err := convs.Create(ctx, target); err != nil {
				return err
			}
		case target.Title == models.DefaultConversationTitle:
			if err := convs.Rename(ctx, target.ID, accountID, title); err != nil {
				return err
			}
		}

		entries := s.repomanager.Entries(tx)
		if err := entries.Append(ctx, &models.Entry{
			ConversationID: target.ID,
			Role:           models.RoleUser,
			Content:        message,
		}); err != nil {
			return err
		}
		if err := entries.Append(ctx, &models.Entry{
			ConversationID: target.ID,
			Role:           models.RoleAssistant,
			Content:        reply.Text,
			Intent:         reply.Intent,
			Attachments:    attachments,
		}); err != nil {
			return err
		}
		return convs.Touch(ctx, target.ID, accountID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "turn stored", "account_id", accountID, "conversation_id", target.ID, "intent", reply.Intent)
	return &TurnResult{
		ConversationID: target.ID,
		Intent:         reply.Intent,
		Response:       reply.Text,
		Attachments:    reply.Attachments,
		Evicted:        eviction,
	}, nil
}
