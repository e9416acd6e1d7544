package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "key", "value"))

	val, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", val)

	require.NoError(t, store.Set(ctx, "key", "updated"))
	val, err = store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "updated", val)

	require.NoError(t, store.Delete(ctx, "key"))
	_, err = store.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteMissingIsNoOp(t *testing.T) {
	store := NewMemoryStore()
	assert.NoError(t, store.Delete(context.Background(), "missing"))
}
