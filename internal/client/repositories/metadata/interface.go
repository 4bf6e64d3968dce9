// Package metadata stores small key/value records in the CLI's local
// database. The session of the signed-in account lives here between runs.
package metadata

import (
	"context"
)

// Key names one metadata record.
type Key string

const (
	KeyRefreshToken Key = "session.refresh_token"
	KeyAccount      Key = "session.account"
)

// SessionKeys are the records removed on logout.
var SessionKeys = []Key{KeyRefreshToken, KeyAccount}

// Repository is a byte-valued key/value store. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	Delete(ctx context.Context, keys ...Key) error
	List(ctx context.Context) (map[Key][]byte, error)
}
