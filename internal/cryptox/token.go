package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// SecretBytes is the amount of entropy in a refresh token.
const SecretBytes = 48

// NewOpaqueSecret returns SecretBytes random bytes encoded as unpadded
// base64url. The value carries no claims; it is only a lookup key.
func NewOpaqueSecret() (string, error) {
	b := make([]byte, SecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DigestSecret is the unsalted sha256 hex digest stored in place of a raw
// secret. It has to be deterministic so a presented token can be matched by
// equality.
func DigestSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
