package redis

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/vinstock/internal/repository"
)

// Runs against a live server when REDIS_TEST_ADDR (host:port) is set.
func TestStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	host, port, _ := strings.Cut(addr, ":")

	ctx := context.Background()
	store, err := NewStore(ctx, Config{Host: host, Port: port})
	require.NoError(t, err)
	defer store.Close()

	slot := "vinstock_test_" + uuid.NewString()
	_, err = store.Get(ctx, slot)
	assert.ErrorIs(t, err, repository.ErrSlotNotFound)

	require.NoError(t, store.Put(ctx, slot, []byte(`[]`)))
	got, err := store.Get(ctx, slot)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	require.NoError(t, store.client.Del(ctx, slot).Err())
}
