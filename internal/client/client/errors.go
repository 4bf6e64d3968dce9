package client

import "errors"

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrDeactivated   = errors.New("account is deactivated")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotSupported  = errors.New("not supported by server")
	ErrWrongMethod   = errors.New("account uses a different sign-in method")
	ErrNotLoggedIn   = errors.New("not logged in")
)
