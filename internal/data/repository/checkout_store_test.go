package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCheckoutStore(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryCheckoutStore(func() time.Time { return now })
	ctx := context.Background()
	id := uuid.New()

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got, "unknown id")

	payload := []byte(`{"step":"theaters"}`)
	require.NoError(t, store.Save(ctx, id, payload, time.Minute))
	payload[0] = 'X'

	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, `{"step":"theaters"}`, string(got), "store keeps its own copy")

	now = now.Add(time.Minute)
	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got, "expired entry")

	require.NoError(t, store.Save(ctx, id, []byte("x"), time.Hour))
	require.NoError(t, store.Delete(ctx, id))
	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}
