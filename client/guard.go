package client

import "context"

// GuardState is the Route Guard's per-mount state. It starts unknown
// and settles exactly once; guarded content must not render while the
// state is unknown.
type GuardState int

const (
	GuardUnknown GuardState = iota
	GuardAuthenticated
	GuardUnauthenticated
)

func (s GuardState) String() string {
	switch s {
	case GuardAuthenticated:
		return "authenticated"
	case GuardUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Guard gates access to views that require an established session. One
// Guard instance corresponds to one mount of a guarded view: it
// performs at most one validation call and never revalidates on a
// timer. Session expiry is discovered only when a later guarded
// navigation or in-view call fails.
//
// The guard only reads the SessionStore; the identity it settles on is
// held locally. Writing the store belongs to the login flows, and
// clearing it to logout.
type Guard struct {
	api      *API
	store    *SessionStore
	state    GuardState
	identity *Identity
}

// NewGuard creates a guard for a single mount.
func NewGuard(api *API, store *SessionStore) *Guard {
	return &Guard{api: api, store: store, state: GuardUnknown}
}

// State reports the current guard state. Callers render a neutral
// loading indicator while it is GuardUnknown.
func (g *Guard) State() GuardState {
	return g.state
}

// Decision is the settled outcome of a guard check.
type Decision struct {
	State           GuardState
	Identity        *Identity
	RedirectToLogin bool
}

// Check settles the guard. An identity handed forward from the
// immediately preceding navigation is trusted without a network call;
// otherwise the backend identity check runs, and any failure
// (including transport failure) fails closed to unauthenticated.
func (g *Guard) Check(ctx context.Context) Decision {
	if g.state != GuardUnknown {
		return g.decision()
	}

	if identity, ok := g.store.TakeHandOff(); ok {
		g.state = GuardAuthenticated
		g.identity = identity
		return g.decision()
	}

	identity, err := g.api.Me(ctx)
	if err != nil {
		g.state = GuardUnauthenticated
		return g.decision()
	}

	g.state = GuardAuthenticated
	g.identity = identity
	return g.decision()
}

func (g *Guard) decision() Decision {
	switch g.state {
	case GuardAuthenticated:
		return Decision{State: GuardAuthenticated, Identity: g.identity}
	case GuardUnauthenticated:
		return Decision{State: GuardUnauthenticated, RedirectToLogin: true}
	default:
		return Decision{State: GuardUnknown}
	}
}
