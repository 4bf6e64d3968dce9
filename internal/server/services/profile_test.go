package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(t *testing.T, maxBytes int) (*ProfileService, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewProfileService(newTxDB(t), &fakeRepoManager{store: store}, maxBytes, logging.Nop()), store
}

func TestProfile_GetWithoutSaveIsEmptyObject(t *testing.T) {
	svc, _ := newProfileService(t, 1000)

	p, err := svc.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(p.Data))
	assert.True(t, p.UpdatedAt.IsZero())
}

func TestProfile_PutThenGet(t *testing.T) {
	svc, _ := newProfileService(t, 1000)
	ctx := context.Background()

	saved, err := svc.Put(ctx, "alice", json.RawMessage(`{ "personal": { "name": "Alice" } }`))
	require.NoError(t, err)
	assert.Equal(t, `{"personal":{"name":"Alice"}}`, string(saved.Data), "stored compacted")
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{"personal":{"name":"Alice"}}`, string(got.Data))

	other, err := svc.Get(ctx, "bob")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(other.Data))
}

func TestProfile_PutRejects(t *testing.T) {
	svc, store := newProfileService(t, 32)

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"personal":`},
		{"array", `[1,2]`},
		{"string", `"me"`},
		{"empty", ``},
		{"too large", `{"summary":"` + strings.Repeat("x", 32) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Put(context.Background(), "alice", json.RawMessage(tt.data))
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
	assert.Empty(t, store.profiles)
}

// Whitespace does not count against the limit.
func TestProfile_LimitAppliesToCompactedSize(t *testing.T) {
	svc, _ := newProfileService(t, 12)

	_, err := svc.Put(context.Background(), "alice", json.RawMessage("{\n    \"a\": \"b\"\n}"))
	assert.NoError(t, err)
}
