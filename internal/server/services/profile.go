package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/logging"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/repomanager"
)

var emptyProfile = json.RawMessage(`{}`)

// ProfileService keeps the career profile the assistant tailors answers to.
// The document is opaque here apart from being a JSON object under a size
// limit.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	maxBytes    int
	log         logging.Logger
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, maxBytes int, log logging.Logger) *ProfileService {
	return &ProfileService{db: db, repomanager: m, maxBytes: maxBytes, log: log.With("module", "profiles")}
}

// Get returns an empty object for an account that never saved a profile.
func (s *ProfileService) Get(ctx context.Context, accountID string) (*models.Profile, error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, accountID)
	if errors.Is(err, common.ErrNotFound) {
		return &models.Profile{AccountID: accountID, Data: emptyProfile}, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Put replaces the profile. The compacted document must be a JSON object of
// at most maxBytes bytes.
func (s *ProfileService) Put(ctx context.Context, accountID string, data json.RawMessage) (*models.Profile, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, invalid("profile must be valid JSON")
	}
	if buf.Len() == 0 || buf.Bytes()[0] != '{' {
		return nil, invalid("profile must be a JSON object")
	}
	if buf.Len() > s.maxBytes {
		return nil, invalid("profile size exceeds limit of %d bytes", s.maxBytes)
	}

	p := &models.Profile{AccountID: accountID, Data: buf.Bytes()}
	if err := s.repomanager.Profiles(s.db).Put(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "profile saved", "account_id", accountID, "bytes", buf.Len())
	return p, nil
}

// forPrompt is the profile handed to the Responder, nil when there is none.
func (s *ProfileService) forPrompt(ctx context.Context, accountID string) (json.RawMessage, error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, accountID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.Data, nil
}
