package client

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync/atomic"
)

// ErrCallInFlight is returned when an operation is re-entered while
// its previous network call has not resolved. Duplicate submission is
// prevented here because none of these operations are idempotent
// server-side.
var ErrCallInFlight = errors.New("client: operation already in flight")

// ErrEmailRequired is returned before any network call when the email
// is missing. Presence is the only local validation; format is left to
// the backend.
var ErrEmailRequired = errors.New("client: email is required")

// Authenticator reconciles the three login methods into one outcome: a
// populated SessionStore and a LoginResult carrying the identity.
type Authenticator struct {
	api   *API
	store *SessionStore

	providerURL string

	// One outstanding call per logical step: a step re-entered while
	// its previous call has not resolved (a double submit, or a
	// concurrent caller) is rejected rather than duplicated, because
	// none of these backend calls are idempotent.
	requestInFlight atomic.Bool
	verifyInFlight  atomic.Bool
	anonInFlight    atomic.Bool
}

// NewAuthenticator creates the authenticator. providerURL is the
// third-party identity provider's login page, used by the redirect
// method.
func NewAuthenticator(api *API, store *SessionStore, providerURL string) *Authenticator {
	return &Authenticator{api: api, store: store, providerURL: providerURL}
}

// RequestCode asks the backend to deliver a one-time code and returns
// the challenge tracking it. Failures are generic and retryable; the
// backend does not reveal whether the address exists.
func (a *Authenticator) RequestCode(ctx context.Context, email string) (*PendingLoginChallenge, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}
	if !a.requestInFlight.CompareAndSwap(false, true) {
		return nil, ErrCallInFlight
	}
	defer a.requestInFlight.Store(false)

	if err := a.api.SendOTP(ctx, email); err != nil {
		return nil, err
	}
	return &PendingLoginChallenge{Email: email, CodeRequested: true}, nil
}

// VerifyCode exchanges the challenge plus the user-entered code for a
// session. On failure the challenge stays valid: the user may retry
// the same code entry or fall back to requesting a fresh code. No
// automatic retry is issued.
func (a *Authenticator) VerifyCode(ctx context.Context, challenge *PendingLoginChallenge, code string) (*LoginResult, error) {
	if challenge == nil || !challenge.CodeRequested {
		return nil, ErrInvalidCode
	}
	if !a.verifyInFlight.CompareAndSwap(false, true) {
		return nil, ErrCallInFlight
	}
	defer a.verifyInFlight.Store(false)

	identity, err := a.api.VerifyOTP(ctx, challenge.Email, code)
	if err != nil {
		return nil, err
	}

	a.store.SetFromLogin(identity)
	return &LoginResult{Method: MethodOTP, Identity: identity}, nil
}

// LoginAnonymous mints a pseudo-identity with no external challenge.
// An empty display name is substituted with a default by the backend.
func (a *Authenticator) LoginAnonymous(ctx context.Context, displayName string) (*LoginResult, error) {
	if !a.anonInFlight.CompareAndSwap(false, true) {
		return nil, ErrCallInFlight
	}
	defer a.anonInFlight.Store(false)

	identity, err := a.api.LoginAnonymous(ctx, displayName)
	if err != nil {
		return nil, err
	}

	a.store.SetFromLogin(identity)
	return &LoginResult{Method: MethodAnonymous, Identity: identity}, nil
}

// Logout tears down the session on the backend and drops the stored
// identity. The store is cleared even when the backend call fails:
// the user asked to be signed out locally regardless.
func (a *Authenticator) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.store.Clear()
	return err
}

// BeginRedirectLogin returns the provider URL the browser must
// navigate to, with the callback embedded. This is a full navigation
// out of the process: nothing in memory survives it, and the return
// leg is handled entirely by the CallbackHandler from the single-use
// token in the callback URL.
func (a *Authenticator) BeginRedirectLogin(callbackURL string) string {
	return a.providerURL + "?redirect=" + url.QueryEscape(callbackURL)
}
