// Package services contains server-side business logic: the session and
// credential lifecycle, federated identity linking, the storage quota and
// conversations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/cryptox"
	"github.com/dmitrijs2005/jobassistant/internal/dbx"
	"github.com/dmitrijs2005/jobassistant/internal/logging"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/repomanager"
)

// AccessCodec issues and verifies access tokens. *auth.Codec implements it.
type AccessCodec interface {
	IssueAccess(subject string) (string, error)
	DecodeAccess(token string) (string, error)
}

// Session is what a successful signup, login or refresh hands back. The raw
// refresh secret appears here and nowhere else.
type Session struct {
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	TokenType    string                `json:"token_type"`
	Account      *models.PublicAccount `json:"user"`
}

// SessionService owns account credentials and the refresh token lifecycle.
// Every operation runs in one transaction.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       AccessCodec
	refreshTTL  time.Duration
	log         logging.Logger
	now         func() time.Time
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, codec AccessCodec, refreshTTL time.Duration, log logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		codec:       codec,
		refreshTTL:  refreshTTL,
		log:         log.With("module", "sessions"),
		now:         time.Now,
	}
}

// Signup creates a password account and opens a session for it.
func (s *SessionService) Signup(ctx context.Context, username, email, password string) (*Session, error) {
	username = normalizeUsername(username)
	email = normalizeEmail(email)
	if err := errors.Join(validateUsername(username), validateEmail(email), validatePassword(password)); err != nil {
		return nil, err
	}

	digest, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	var session *Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		exists, err := repo.Exists(ctx, username, email)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrConflict
		}

		account, err := repo.Create(ctx, &models.Account{
			Username:       username,
			Email:          email,
			PasswordDigest: digest,
			Providers:      models.ProviderPassword,
		})
		if err != nil {
			return err
		}

		session, err = s.issueTokenPair(ctx, tx, account)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "account signed up", "account_id", session.Account.ID, "username", username)
	return session, nil
}

// Login checks, in order: the account exists, it has a password, the
// password matches, the account is active.
func (s *SessionService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return nil, invalid("username and password are required")
	}

	var session *Session
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		account, err := s.repomanager.Users(tx).GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if !account.HasPassword() {
			return fmt.Errorf("%w: sign in with %s", common.ErrWrongCredentialType, account.Providers)
		}
		if !cryptox.VerifyPassword(password, account.PasswordDigest) {
			return common.ErrInvalidCredentials
		}
		if !account.Active {
			return common.ErrDeactivated
		}

		session, err = s.issueTokenPair(ctx, tx, account)
		return err
	})
	if err != nil {
		s.log.Debug(ctx, "login rejected", "username", username, "error", err)
		return nil, err
	}

	s.log.Info(ctx, "account logged in", "account_id", session.Account.ID)
	return session, nil
}

// StartSession opens a session for an account that was authenticated some
// other way, e.g. by the external identity provider.
func (s *SessionService) StartSession(ctx context.Context, account *models.Account) (*Session, error) {
	if !account.Active {
		return nil, common.ErrDeactivated
	}
	var session *Session
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		session, err = s.issueTokenPair(ctx, tx, account)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// issueTokenPair stores the digest of a fresh refresh secret through tx and
// returns the raw secret with a new access token.
func (s *SessionService) issueTokenPair(ctx context.Context, tx dbx.DBTX, account *models.Account) (*Session, error) {
	access, err := s.codec.IssueAccess(account.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: issue access token: %v", common.ErrorInternal, err)
	}
	secret, err := cryptox.NewOpaqueSecret()
	if err != nil {
		return nil, fmt.Errorf("%w: generate refresh token: %v", common.ErrorInternal, err)
	}

	err = s.repomanager.RefreshTokens(tx).Create(ctx, &models.RefreshToken{
		AccountID: account.ID,
		TokenHash: cryptox.DigestSecret(secret),
		ExpiresAt: s.now().Add(s.refreshTTL),
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  access,
		RefreshToken: secret,
		TokenType:    "bearer",
		Account:      account.Public(),
	}, nil
}

// Refresh rotates a refresh token. The presented one is revoked by the same
// statement that finds it, so it can be used at most once. An expired token is
// revoked too and then rejected.
func (s *SessionService) Refresh(ctx context.Context, raw string) (*Session, error) {
	if raw == "" {
		return nil, common.ErrInvalidOrExpired
	}

	var (
		session *Session
		outcome error
	)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		stored, err := s.repomanager.RefreshTokens(tx).Consume(ctx, cryptox.DigestSecret(raw))
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidOrExpired
		}
		if err != nil {
			return err
		}

		// From here on the revocation has to be committed, so rejections
		// leave through outcome.
		if !stored.ExpiresAt.After(s.now()) {
			outcome = common.ErrInvalidOrExpired
			return nil
		}

		account, err := s.repomanager.Users(tx).GetByID(ctx, stored.AccountID)
		if errors.Is(err, common.ErrNotFound) {
			outcome = common.ErrInvalidOrExpired
			return nil
		}
		if err != nil {
			return err
		}
		if !account.Active {
			outcome = common.ErrDeactivated
			return nil
		}

		session, err = s.issueTokenPair(ctx, tx, account)
		return err
	})
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		return nil, outcome
	}

	s.log.Info(ctx, "token refreshed", "account_id", session.Account.ID)
	return session, nil
}

// RevokeAll revokes every live refresh token of the account.
func (s *SessionService) RevokeAll(ctx context.Context, accountID string) (int64, error) {
	var n int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		n, err = s.repomanager.RefreshTokens(tx).RevokeAll(ctx, accountID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Logout ends every session of the account.
func (s *SessionService) Logout(ctx context.Context, accountID string) (int64, error) {
	n, err := s.RevokeAll(ctx, accountID)
	if err != nil {
		return 0, err
	}
	s.log.Info(ctx, "account logged out", "account_id", accountID, "tokens_revoked", n)
	return n, nil
}

// Authenticate resolves an access token, with or without the "Bearer "
// prefix, to an account id.
func (s *SessionService) Authenticate(ctx context.Context, bearer string) (string, error) {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(bearer), common.BearerPrefix))
	if token == "" {
		return "", common.ErrUnauthenticated
	}
	return s.codec.DecodeAccess(token)
}

// Me returns the public view of the account. A token for an account that no
// longer resolves is treated as unauthenticated.
func (s *SessionService) Me(ctx context.Context, accountID string) (*models.PublicAccount, error) {
	account, err := s.repomanager.Users(s.db).GetByID(ctx, accountID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return account.Public(), nil
}

// ChangePassword sets a new password and ends every session. Accounts that
// already have a password must present it; the password kind is added to the
// provider set.
func (s *SessionService) ChangePassword(ctx context.Context, accountID, current, next string) (int64, error) {
	if err := validatePassword(next); err != nil {
		return 0, err
	}
	digest, err := cryptox.HashPassword(next)
	if err != nil {
		return 0, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	var revoked int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		account, err := users.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !account.Active {
			return common.ErrDeactivated
		}
		if account.HasPassword() && !cryptox.VerifyPassword(current, account.PasswordDigest) {
			return common.ErrInvalidCredentials
		}
		if err := users.UpdatePassword(ctx, accountID, digest, account.Providers.Union(models.ProviderPassword)); err != nil {
			return err
		}
		revoked, err = s.repomanager.RefreshTokens(tx).RevokeAll(ctx, accountID)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "password changed", "account_id", accountID, "tokens_revoked", revoked)
	return revoked, nil
}

// Deactivate marks the account inactive and ends every session. The account
// row is kept.
func (s *SessionService) Deactivate(ctx context.Context, accountID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).Deactivate(ctx, accountID); err != nil {
			return err
		}
		_, err := s.repomanager.RefreshTokens(tx).RevokeAll(ctx, accountID)
		return err
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "account deactivated", "account_id", accountID)
	return nil
}
