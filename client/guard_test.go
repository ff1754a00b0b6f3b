package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardStartsUnknown(t *testing.T) {
	backend := newFakeBackend(t)
	g := NewGuard(backend.api(), NewSessionStore())

	assert.Equal(t, GuardUnknown, g.State())
	assert.Equal(t, "unknown", g.State().String())
}

func TestCheckHandOffSkipsNetwork(t *testing.T) {
	backend := newFakeBackend(t)
	store := NewSessionStore()
	auth := NewAuthenticator(backend.api(), store, "https://provider.example")

	_, err := auth.LoginAnonymous(context.Background(), "")
	require.NoError(t, err)

	g := NewGuard(backend.api(), store)
	decision := g.Check(context.Background())

	assert.Equal(t, GuardAuthenticated, decision.State)
	require.NotNil(t, decision.Identity)
	assert.True(t, decision.Identity.IsAnonymous)

	_, _, _, _, me, _, _ := backend.counts()
	assert.Equal(t, 0, me, "identity handed forward from login must not be revalidated")
}

func TestCheckValidatesWithBackendOnce(t *testing.T) {
	backend := newFakeBackend(t)
	backend.sessionActive = true
	g := NewGuard(backend.api(), NewSessionStore())

	decision := g.Check(context.Background())
	assert.Equal(t, GuardAuthenticated, decision.State)
	require.NotNil(t, decision.Identity)
	assert.Equal(t, "usr_8f2a91c0d4e1", decision.Identity.ID)

	// a re-render of the same mount settles from memory
	again := g.Check(context.Background())
	assert.Equal(t, GuardAuthenticated, again.State)

	_, _, _, _, me, _, _ := backend.counts()
	assert.Equal(t, 1, me, "one mount gets at most one validation call")
}

func TestCheckFailsClosed(t *testing.T) {
	backend := newFakeBackend(t)
	store := NewSessionStore()
	g := NewGuard(backend.api(), store)

	decision := g.Check(context.Background())
	assert.Equal(t, GuardUnauthenticated, decision.State)
	assert.True(t, decision.RedirectToLogin)
	assert.Nil(t, decision.Identity)
}

func TestCheckNeverWritesStore(t *testing.T) {
	backend := newFakeBackend(t)
	backend.sessionActive = true
	store := NewSessionStore()
	g := NewGuard(backend.api(), store)

	decision := g.Check(context.Background())
	require.Equal(t, GuardAuthenticated, decision.State)
	require.NotNil(t, decision.Identity)

	_, ok := store.Current()
	assert.False(t, ok, "only login flows write the store; the guard holds its identity locally")
}

func TestCheckFailureNeverClearsStore(t *testing.T) {
	backend := newFakeBackend(t)
	store := NewSessionStore()
	auth := NewAuthenticator(backend.api(), store, "https://provider.example")

	_, err := auth.LoginAnonymous(context.Background(), "")
	require.NoError(t, err)
	backend.sessionActive = false

	// a mount that missed the hand-off window and gets a backend
	// rejection fails closed without destroying the store: only
	// logout clears it
	_, handoffConsumed := store.TakeHandOff()
	require.True(t, handoffConsumed)

	g := NewGuard(backend.api(), store)
	decision := g.Check(context.Background())
	assert.Equal(t, GuardUnauthenticated, decision.State)

	_, ok := store.Current()
	assert.True(t, ok, "the guard must not clear a login-written store")
}

func TestCheckUnreachableBackendFailsClosed(t *testing.T) {
	backend := newFakeBackend(t)
	api := backend.api()
	backend.srv.Close()

	g := NewGuard(api, NewSessionStore())
	decision := g.Check(context.Background())
	assert.Equal(t, GuardUnauthenticated, decision.State)
	assert.True(t, decision.RedirectToLogin)
}

func TestHandOffConsumedBySingleMount(t *testing.T) {
	backend := newFakeBackend(t)
	store := NewSessionStore()
	auth := NewAuthenticator(backend.api(), store, "https://provider.example")

	_, err := auth.LoginAnonymous(context.Background(), "")
	require.NoError(t, err)

	first := NewGuard(backend.api(), store)
	first.Check(context.Background())

	second := NewGuard(backend.api(), store)
	second.Check(context.Background())

	_, _, _, _, me, _, _ := backend.counts()
	assert.Equal(t, 1, me, "only the mount immediately after login skips validation")
}
