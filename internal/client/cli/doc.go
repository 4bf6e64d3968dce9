// Package cli provides the interactive job assistant command-line client.
//
// It wires configuration, the local session database, the gRPC client and a
// REPL. On start it resumes the session saved by the previous run; while
// running it watches server health and switches between online and offline
// mode.
//
// Commands cover sign-up, password and Google login, logout, the account
// profile, password change and deactivation, and the conversation calls:
// send, threads, open, new and rm.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
