package metadata

import (
	"context"
	"encoding/json"
	"fmt"
)

// RefreshToken returns the saved refresh token, or "" when none is saved.
func RefreshToken(ctx context.Context, r Repository) (string, error) {
	b, err := r.Get(ctx, KeyRefreshToken)
	return string(b), err
}

func SetRefreshToken(ctx context.Context, r Repository, token string) error {
	if token == "" {
		return r.Delete(ctx, KeyRefreshToken)
	}
	return r.Set(ctx, KeyRefreshToken, []byte(token))
}

// GetJSON decodes the record under key into v. It reports false, leaving v
// untouched, when the record is missing or empty.
func GetJSON(ctx context.Context, r Repository, key Key, v any) (bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("metadata decode %q: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v encoded as JSON. A nil v deletes the record.
func SetJSON(ctx context.Context, r Repository, key Key, v any) error {
	if v == nil {
		return r.Delete(ctx, key)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("metadata encode %q: %w", key, err)
	}
	return r.Set(ctx, key, raw)
}
