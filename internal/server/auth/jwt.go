// Package auth issues and verifies the short-lived access tokens handed to
// clients after login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const accessTokenType = "access"

// Claims are the registered sub/iat/exp claims plus a token type marker.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// Codec signs and verifies access tokens with one HMAC key and algorithm.
type Codec struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
	now      func() time.Time
}

// NewCodec accepts HS256, HS384 or HS512. now may be nil.
func NewCodec(secret []byte, algorithm string, lifetime time.Duration, now func() time.Time) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty signing key")
	}
	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if now == nil {
		now = time.Now
	}
	return &Codec{secret: secret, method: method, lifetime: lifetime, now: now}, nil
}

// IssueAccess signs a token for subject valid for the configured lifetime.
func (c *Codec) IssueAccess(subject string) (string, error) {
	issued := c.now()
	token := jwt.NewWithClaims(c.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(c.lifetime)),
		},
		Type: accessTokenType,
	})
	return token.SignedString(c.secret)
}

// DecodeAccess returns the subject of a valid access token. A bad signature,
// another algorithm, expiry, a missing subject or a non-access type all give
// common.ErrUnauthenticated.
func (c *Codec) DecodeAccess(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return "", common.ErrUnauthenticated
	}
	if claims.Type != accessTokenType || claims.Subject == "" {
		return "", common.ErrUnauthenticated
	}
	return claims.Subject, nil
}
