package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobassistant/internal/client/client"
)

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// report prints a user-facing explanation of err.
func (a *App) report(err error) {
	var msg string
	switch {
	case errors.Is(err, client.ErrUnavailable):
		msg = "server unavailable, try again later"
	case errors.Is(err, client.ErrNotLoggedIn):
		msg = "please log in first"
	case errors.Is(err, client.ErrDeactivated):
		msg = "this account is deactivated"
	case errors.Is(err, client.ErrWrongMethod):
		msg = "this account signs in with Google"
	case errors.Is(err, client.ErrAlreadyExists):
		msg = "username or email already taken"
	case errors.Is(err, client.ErrNotSupported):
		msg = "the server does not support this"
	case errors.Is(err, client.ErrNotFound):
		msg = "not found"
	default:
		msg = err.Error()
	}
	a.printf("Error: %s\n", msg)
}
