package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttravel/smarttravel/core"
)

var _ core.MemoryStore = (*InMemoryStore)(nil)

func TestInMemoryStore_PutAndGet(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Put("traveler-1", map[string]any{"seat_preference": "aisle"}))
	require.NoError(t, store.Put("traveler-1", map[string]any{"diet": "vegetarian"}))

	mem, err := store.Get("traveler-1")
	require.NoError(t, err)
	assert.Equal(t, "aisle", mem["seat_preference"])
	assert.Equal(t, "vegetarian", mem["diet"])
}

func TestInMemoryStore_GetUnknownSession(t *testing.T) {
	store := NewInMemoryStore()

	mem, err := store.Get("unknown")
	require.NoError(t, err)
	assert.Empty(t, mem)
}

func TestInMemoryStore_StoreAndSearch(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Store("traveler-1", "Loved the ryokan in Kyoto", map[string]any{"trip": "japan-2025"}))
	require.NoError(t, store.Store("traveler-1", "Avoid overnight layovers", nil))

	results, err := store.Search("traveler-1", "kyoto", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Content, "ryokan")
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, "japan-2025", results[0].Metadata["trip"])
}

func TestInMemoryStore_SearchLimit(t *testing.T) {
	store := NewInMemoryStore()

	for range 5 {
		require.NoError(t, store.Store("traveler-1", "hotel note", nil))
	}

	results, err := store.Search("traveler-1", "hotel", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestInMemoryStore_Delete(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Store("traveler-1", "note", nil))
	require.NoError(t, store.Delete("traveler-1", "mem_0"))

	assert.ErrorIs(t, store.Delete("traveler-1", "mem_0"), ErrNotFound)
	assert.ErrorIs(t, store.Delete("other", "mem_0"), ErrNotFound)
}
