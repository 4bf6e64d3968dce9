package client

import (
	"context"

	"github.com/dmitrijs2005/jobassistant/internal/api"
	"github.com/dmitrijs2005/jobassistant/internal/client/repositories/metadata"
)

// SessionStore keeps the refresh token and the account summary between CLI
// runs. Access tokens are short-lived and never written.
type SessionStore struct {
	repo metadata.Repository
}

func NewSessionStore(repo metadata.Repository) *SessionStore {
	return &SessionStore{repo: repo}
}

func (s *SessionStore) Save(ctx context.Context, sess Session) error {
	if err := metadata.SetRefreshToken(ctx, s.repo, sess.RefreshToken); err != nil {
		return err
	}
	if sess.Account == nil {
		return s.repo.Delete(ctx, metadata.KeyAccount)
	}
	return metadata.SetJSON(ctx, s.repo, metadata.KeyAccount, sess.Account)
}

// Load returns the saved refresh token and account. An empty token means no
// session was saved.
func (s *SessionStore) Load(ctx context.Context) (string, *api.Account, error) {
	token, err := metadata.RefreshToken(ctx, s.repo)
	if err != nil || token == "" {
		return "", nil, err
	}

	var acc api.Account
	ok, err := metadata.GetJSON(ctx, s.repo, metadata.KeyAccount, &acc)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return token, nil, nil
	}
	return token, &acc, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, metadata.SessionKeys...)
}
