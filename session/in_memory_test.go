package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttravel/smarttravel/core"
)

var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_CreateAndGet(t *testing.T) {
	store := NewInMemoryStore()

	created, err := store.Create("trip-1")
	require.NoError(t, err)
	assert.Equal(t, "trip-1", created.ID)

	got, err := store.Get("trip-1")
	require.NoError(t, err)
	assert.Equal(t, "trip-1", got.ID)
}

func TestInMemoryStore_GetCreatesLazily(t *testing.T) {
	store := NewInMemoryStore()

	got, err := store.Get("unknown")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "unknown", got.ID)
}

func TestInMemoryStore_AppendEvent(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.AppendEvent("trip-1", core.NewUserMessageEvent("run-1", "plan a trip to Lisbon")))
	require.NoError(t, store.AppendEvent("trip-1", core.NewMessageEvent("PlannerAgent", "Working on it.")))

	sess, err := store.Get("trip-1")
	require.NoError(t, err)
	assert.Len(t, sess.GetEvents(), 2)
}

func TestInMemoryStore_ApplyDelta(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.ApplyDelta("trip-1", map[string]any{"destination": "Lisbon", "travelers": 2}))

	sess, err := store.Get("trip-1")
	require.NoError(t, err)

	dest, ok := sess.GetState("destination")
	require.True(t, ok)
	assert.Equal(t, "Lisbon", dest)
}

func TestInMemoryStore_GetReturnsClone(t *testing.T) {
	store := NewInMemoryStore()

	first, err := store.Get("trip-1")
	require.NoError(t, err)

	// Mutating the clone must not leak into the stored session.
	first.SetState("destination", "Osaka")

	second, err := store.Get("trip-1")
	require.NoError(t, err)

	_, ok := second.GetState("destination")
	assert.False(t, ok)
}
