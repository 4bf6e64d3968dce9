// Package common defines shared constants and sentinel errors used across
// client and server layers of the job assistant. Callers should use errors.Is
// to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrStore is matched by every StoreError. The transport maps it to a
	// retryable code.
	ErrStore = errors.New("store error")

	// Authentication errors.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrWrongCredentialType = errors.New("account uses a different credential type")
	ErrDeactivated         = errors.New("account is deactivated")
	ErrUnauthenticated     = errors.New("unauthenticated")

	// ErrInvalidOrExpired covers never-valid, already-used and expired refresh
	// tokens alike.
	ErrInvalidOrExpired = errors.New("invalid or expired refresh token")

	// Service-level errors.
	ErrorInternal    = errors.New("internal error")
	ErrNotConfigured = errors.New("not configured")
	ErrInvalidInput  = errors.New("invalid input")
)

// StoreError wraps a failure of the underlying data store together with the
// operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is reports StoreError as ErrStore.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

// NewStoreError returns nil for a nil err.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
