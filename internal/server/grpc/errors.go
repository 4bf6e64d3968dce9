package grpc

import (
	"errors"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus converts a service error to a gRPC status. Messages are fixed per
// class so nothing internal leaks; validation messages are passed through.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrConflict):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "invalid username or password")
	case errors.Is(err, common.ErrInvalidOrExpired):
		return status.Error(codes.Unauthenticated, "invalid or expired refresh token")
	case errors.Is(err, common.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, "unauthenticated")
	case errors.Is(err, common.ErrWrongCredentialType):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrDeactivated):
		return status.Error(codes.PermissionDenied, "account is deactivated")
	case errors.Is(err, common.ErrNotConfigured):
		return status.Error(codes.Unimplemented, "external login is not configured")
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrStore):
		return status.Error(codes.Unavailable, "storage unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// loginStatus is toStatus except that an unknown username is reported like a
// wrong password.
func loginStatus(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return status.Error(codes.Unauthenticated, "invalid username or password")
	}
	return toStatus(err)
}

// signupStatus names what collided when registering.
func signupStatus(err error) error {
	if errors.Is(err, common.ErrConflict) {
		return status.Error(codes.AlreadyExists, "username or email already registered")
	}
	return toStatus(err)
}
