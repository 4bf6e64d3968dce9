package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobassistant/internal/client/client"
	"github.com/dmitrijs2005/jobassistant/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials(prompt string) (string, []byte, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out, prompt)
	if err != nil {
		return "", nil, err
	}
	return username, password, nil
}

// Signup creates a local account and signs in with it.
func (a *App) Signup(ctx context.Context) error {
	username, password, err := a.readCredentials("Choose password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	sess, err := a.api.Signup(rctx, username, email, string(password))
	if err != nil {
		a.report(err)
		return err
	}
	a.remember(ctx, sess)
	a.printf("Account created, logged in as %s\n", sess.Account.Username)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, password, err := a.readCredentials("Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	sess, err := a.api.Login(rctx, username, string(password))
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.printf("Login unsuccessful: invalid username or password\n")
		} else {
			a.report(err)
		}
		return err
	}
	a.remember(ctx, sess)
	a.printf("Logged in as %s\n", sess.Account.Username)
	return nil
}

// GoogleLogin prints the provider's consent URL and exchanges the pasted
// authorization code for a session.
func (a *App) GoogleLogin(ctx context.Context) error {
	state, err := common.RandHex(16)
	if err != nil {
		return err
	}

	uctx, cancel := a.requestCtx(ctx)
	url, err := a.api.FederatedLoginURL(uctx, state)
	cancel()
	if err != nil {
		a.report(err)
		return err
	}
	a.printf("Open this URL in a browser and sign in:\n%s\n", url)

	code, err := getSimpleText(a.reader, "Paste the authorization code", a.out)
	if err != nil {
		return err
	}
	if code == "" {
		return errors.New("empty authorization code")
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	sess, err := a.api.FederatedLogin(rctx, code)
	if err != nil {
		a.report(err)
		return err
	}
	a.remember(ctx, sess)
	a.printf("Logged in as %s\n", sess.Account.Username)
	return nil
}

// Logout revokes every session of the account. The local session is dropped
// even if the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	n, err := a.api.Logout(rctx)
	a.forget(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	a.printf("Logged out, %d session(s) revoked\n", n)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	acc, err := a.api.Me(rctx)
	if err != nil {
		a.report(err)
		return err
	}
	a.account = acc
	a.printf("id:       %s\nusername: %s\nemail:    %s\nsign-in:  %s\n", acc.ID, acc.Username, acc.Email, acc.AuthProvider)
	return nil
}

// ChangePassword sets a new password. The server revokes all sessions, so the
// user has to log in again.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword(a.out, "Current password (empty if none): ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(a.out, "New password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	n, err := a.api.ChangePassword(rctx, string(current), string(next))
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.printf("Current password is wrong\n")
		} else {
			a.report(err)
		}
		return err
	}
	a.forget(ctx)
	a.printf("Password changed, %d session(s) revoked. Please log in again\n", n)
	return nil
}

func (a *App) Deactivate(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type 'yes' to deactivate this account", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		a.printf("Cancelled\n")
		return nil
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	if err := a.api.Deactivate(rctx); err != nil {
		a.report(err)
		return err
	}
	a.forget(ctx)
	a.printf("Account deactivated\n")
	return nil
}

func (a *App) getStatus() string {
	s := ""
	if a.account != nil {
		s = a.account.Username + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
