package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderSet_String(t *testing.T) {
	assert.Equal(t, "local", ProviderPassword.String())
	assert.Equal(t, "external", ProviderExternal.String())
	assert.Equal(t, "local+external", ProviderPassword.Union(ProviderExternal).String())
	assert.Equal(t, "", ProviderSet(0).String())
}

func TestParseProviderSet(t *testing.T) {
	tests := []struct {
		label   string
		want    ProviderSet
		wantErr bool
	}{
		{label: "local", want: ProviderPassword},
		{label: "external", want: ProviderExternal},
		{label: "google", want: ProviderExternal},
		{label: "local+google", want: ProviderPassword | ProviderExternal},
		{label: "local+external", want: ProviderPassword | ProviderExternal},
		{label: "", wantErr: true},
		{label: "saml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseProviderSet(tt.label)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, label string) ProviderSet {
	t.Helper()
	p, err := ParseProviderSet(label)
	require.NoError(t, err)
	return p
}

func TestProviderSet_UnionIsIdempotent(t *testing.T) {
	both := ProviderPassword.Union(ProviderExternal)
	assert.Equal(t, both, both.Union(ProviderExternal))
	assert.True(t, both.Has(ProviderPassword))
	assert.True(t, both.Has(ProviderExternal))
	assert.False(t, ProviderExternal.Has(ProviderPassword))
	assert.False(t, both.Has(0))
}

func TestAccount_Public(t *testing.T) {
	a := &Account{ID: "1", Username: "alice", Email: "a@x.io", PasswordDigest: "$2a$", Providers: ProviderPassword}
	p := a.Public()
	assert.Equal(t, &PublicAccount{ID: "1", Username: "alice", Email: "a@x.io", Provider: "local"}, p)
	assert.True(t, a.HasPassword())
}
