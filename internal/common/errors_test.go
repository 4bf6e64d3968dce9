package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("insert account", cause)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, "store error: insert account: connection refused", err.Error())

	var se *StoreError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &se))
	assert.Equal(t, "insert account", se.Op)
}

func TestNewStoreError_NilPassesThrough(t *testing.T) {
	assert.NoError(t, NewStoreError("noop", nil))
}
