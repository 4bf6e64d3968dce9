package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func mustCodec(t *testing.T, secret, alg string, ttl time.Duration, now func() time.Time) *Codec {
	t.Helper()
	c, err := NewCodec([]byte(secret), alg, ttl, now)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestIssueAndDecode_Success(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		c := mustCodec(t, "super-secret", alg, time.Hour, nil)

		tok, err := c.IssueAccess("user-123")
		if err != nil {
			t.Fatalf("%s IssueAccess error: %v", alg, err)
		}
		sub, err := c.DecodeAccess(tok)
		if err != nil {
			t.Fatalf("%s DecodeAccess error: %v", alg, err)
		}
		if sub != "user-123" {
			t.Fatalf("%s subject mismatch: got %q", alg, sub)
		}
	}
}

func TestIssueAccess_Claims(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := mustCodec(t, "k", "HS256", 7*24*time.Hour, fixedClock(now))

	tok, err := c.IssueAccess("acc")
	if err != nil {
		t.Fatal(err)
	}

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Type != "access" || claims.Subject != "acc" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.IssuedAt.Time.Equal(now) {
		t.Fatalf("iat = %v, want %v", claims.IssuedAt.Time, now)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(7 * 24 * time.Hour)) {
		t.Fatalf("exp = %v", claims.ExpiresAt.Time)
	}
}

func TestDecodeAccess_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Now()
	good := mustCodec(t, "right-secret", "HS256", time.Hour, nil)

	expired, _ := mustCodec(t, "right-secret", "HS256", time.Minute, fixedClock(now.Add(-2*time.Hour))).IssueAccess("u")
	wrongKey, _ := mustCodec(t, "other-secret", "HS256", time.Hour, nil).IssueAccess("u")
	wrongAlg, _ := mustCodec(t, "right-secret", "HS512", time.Hour, nil).IssueAccess("u")
	noSubject, _ := good.IssueAccess("")

	refreshType, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Type: "refresh",
	}).SignedString([]byte("right-secret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u"},
		Type:             "access",
	}).SignedString([]byte("right-secret"))

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		Type:             "access",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.jwt",
		"expired":      expired,
		"wrong key":    wrongKey,
		"wrong alg":    wrongAlg,
		"no subject":   noSubject,
		"refresh type": refreshType,
		"no expiry":    noExpiry,
		"alg none":     unsigned,
	}

	for name, tok := range cases {
		_, err := good.DecodeAccess(tok)
		if !errors.Is(err, common.ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestNewCodec_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewCodec(nil, "HS256", time.Hour, nil); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := NewCodec([]byte("k"), "RS256", time.Hour, nil); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}
