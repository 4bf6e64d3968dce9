package models

import "time"

// RefreshToken is the stored side of a refresh credential. Only the digest of
// the secret is kept. Revoked is terminal.
type RefreshToken struct {
	ID        string
	AccountID string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
