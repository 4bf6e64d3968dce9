package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/dbx"
	"github.com/dmitrijs2005/jobassistant/internal/logging"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/users"
)

// linkAttempts bounds Resolve when concurrent creates race on the username.
const linkAttempts = 2

var nonUsernameChars = regexp.MustCompile(`[^a-z0-9_]`)

// IdentityLinker maps an external (subject, email) identity to an account.
type IdentityLinker struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewIdentityLinker(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *IdentityLinker {
	return &IdentityLinker{db: db, repomanager: m, log: log.With("module", "identity")}
}

// Resolve returns, in order of preference: the account already holding
// subject; the account with the same email, after attaching subject to it;
// a new external-only account with a username derived from email.
func (l *IdentityLinker) Resolve(ctx context.Context, subject, email string) (*models.Account, error) {
	email = normalizeEmail(email)
	if subject == "" || email == "" {
		return nil, invalid("external identity needs subject and email")
	}

	var lastErr error
	for attempt := 0; attempt < linkAttempts; attempt++ {
		var account *models.Account
		err := dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			account, err = l.resolve(ctx, l.repomanager.Users(tx), subject, email)
			return err
		})
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		lastErr = err
		l.log.Warn(ctx, "identity link raced, retrying", "attempt", attempt+1)
	}
	return nil, lastErr
}

func (l *IdentityLinker) resolve(ctx context.Context, repo users.Repository, subject, email string) (*models.Account, error) {
	account, err := repo.GetByExternalSubject(ctx, subject)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	account, err = repo.GetByEmail(ctx, email)
	if err == nil {
		providers := account.Providers.Union(models.ProviderExternal)
		if err := repo.LinkExternal(ctx, account.ID, subject, providers); err != nil {
			return nil, err
		}
		account.ExternalSubject = subject
		account.Providers = providers
		l.log.Info(ctx, "linked external identity", "account_id", account.ID)
		return account, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	username, err := l.availableUsername(ctx, repo, email)
	if err != nil {
		return nil, err
	}
	account, err = repo.Create(ctx, &models.Account{
		Username:        username,
		Email:           email,
		Providers:       models.ProviderExternal,
		ExternalSubject: subject,
	})
	if err != nil {
		return nil, err
	}
	l.log.Info(ctx, "created external account", "account_id", account.ID, "username", username)
	return account, nil
}

// usernameBase is the lowercased local part of email with every character
// outside [a-z0-9_] replaced by "_", padded with "_user" when shorter than 3.
func usernameBase(email string) string {
	local, _, _ := strings.Cut(email, "@")
	base := nonUsernameChars.ReplaceAllString(strings.ToLower(local), "_")
	if len(base) < usernameMinLen {
		base += "_user"
	}
	return base
}

func (l *IdentityLinker) availableUsername(ctx context.Context, repo users.Repository, email string) (string, error) {
	base := usernameBase(email)
	candidate := base
	for n := 1; ; n++ {
		taken, err := repo.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
}
