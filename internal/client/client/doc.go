// Package client contains the client-side building blocks of the job
// assistant CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     sign-up, password and federated login, session resume, logout, the
//     account profile and the conversation calls.
//  2. A gRPC implementation (see GRPCClient) that attaches the access token
//     as "authorization: Bearer ...", rotates the refresh token once when the
//     server answers Unauthenticated, replays the call, and maps gRPC status
//     codes to sentinel errors.
//  3. Local persistence (InitDatabase, RunMigrations, SessionStore): an
//     SQLite file migrated by goose that keeps the refresh token between runs.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrDeactivated, ErrAlreadyExists,
// ErrNotFound, ErrInvalidInput, ErrWrongMethod, ErrNotSupported and
// ErrNotLoggedIn.
//
// GRPCClient is safe for concurrent use. Concurrent calls that hit an
// expired access token trigger a single refresh.
package client
