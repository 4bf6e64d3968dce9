// Package cryptox holds the credential primitives of the server: salted
// password hashing and the opaque secrets used as refresh tokens.
package cryptox

import (
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt looks at. Longer passwords are
// truncated, so bytes past this bound do not contribute to the digest.
const MaxPasswordBytes = 72

// passwordCost is a test seam; tests lower it to bcrypt.MinCost.
var passwordCost = bcrypt.DefaultCost

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}

// HashPassword returns a bcrypt digest of password with a random salt
// embedded in it.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(truncatePassword(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches digest. A malformed digest
// is treated as a mismatch.
func VerifyPassword(password, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), truncatePassword(password)) == nil
}
