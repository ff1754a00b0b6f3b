package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreEmpty(t *testing.T) {
	store := NewSessionStore()
	_, ok := store.Current()
	assert.False(t, ok)
	_, ok = store.TakeHandOff()
	assert.False(t, ok)
}

func TestSetFromLoginArmsHandOffOnce(t *testing.T) {
	store := NewSessionStore()
	store.SetFromLogin(&Identity{ID: "usr_1"})

	id, ok := store.TakeHandOff()
	require.True(t, ok)
	assert.Equal(t, "usr_1", id.ID)

	_, ok = store.TakeHandOff()
	assert.False(t, ok, "the hand-off cache is consumed by a single read")

	current, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "usr_1", current.ID)
}

func TestCurrentReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	store.SetFromLogin(&Identity{ID: "usr_1", DisplayName: "Mira"})

	first, _ := store.Current()
	first.DisplayName = "mutated"

	second, _ := store.Current()
	assert.Equal(t, "Mira", second.DisplayName)
}

func TestClearDropsEverything(t *testing.T) {
	store := NewSessionStore()
	store.SetFromLogin(&Identity{ID: "usr_1"})
	store.Clear()

	_, ok := store.Current()
	assert.False(t, ok)
	_, ok = store.TakeHandOff()
	assert.False(t, ok)
}
