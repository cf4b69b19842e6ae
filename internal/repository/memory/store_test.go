package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/vinstock/internal/repository"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.Get(ctx, "vinstock_wines")
	assert.ErrorIs(t, err, repository.ErrSlotNotFound)

	payload := []byte(`[{"id":"1"}]`)
	require.NoError(t, store.Put(ctx, "vinstock_wines", payload))
	payload[0] = 'x'

	got, err := store.Get(ctx, "vinstock_wines")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))
}
