package services

import (
	"context"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/logging"
	"github.com/dmitrijs2005/jobassistant/internal/server/oauth"
)

// IdentityProvider is the external authorization-code flow.
// *oauth.GoogleProvider implements it.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code, redirectURI string) (*oauth.UserInfo, error)
}

// FederatedService logs users in through the external identity provider and
// hands out the same session as a password login.
type FederatedService struct {
	provider IdentityProvider
	linker   *IdentityLinker
	sessions *SessionService
	log      logging.Logger
}

// NewFederatedService accepts a nil provider; every call then fails with
// common.ErrNotConfigured.
func NewFederatedService(provider IdentityProvider, linker *IdentityLinker, sessions *SessionService, log logging.Logger) *FederatedService {
	return &FederatedService{
		provider: provider,
		linker:   linker,
		sessions: sessions,
		log:      log.With("module", "federated"),
	}
}

func (f *FederatedService) LoginURL(state string) (string, error) {
	if f.provider == nil {
		return "", common.ErrNotConfigured
	}
	return f.provider.AuthCodeURL(state), nil
}

// Login exchanges an authorization code and opens a session for the
// resolved account.
func (f *FederatedService) Login(ctx context.Context, code, redirectURI string) (*Session, error) {
	if f.provider == nil {
		return nil, common.ErrNotConfigured
	}

	info, err := f.provider.Exchange(ctx, code, redirectURI)
	if err != nil {
		f.log.Warn(ctx, "provider exchange failed", "error", err)
		return nil, err
	}

	account, err := f.linker.Resolve(ctx, info.Subject, info.Email)
	if err != nil {
		return nil, err
	}

	session, err := f.sessions.StartSession(ctx, account)
	if err != nil {
		return nil, err
	}
	f.log.Info(ctx, "federated login", "account_id", account.ID)
	return session, nil
}
