package client

import (
	"context"
	"net/url"
	"strings"
)

// CallbackOutcome is the result of processing the post-redirect URL.
type CallbackOutcome struct {
	// Result is non-nil on a successful exchange.
	Result *LoginResult
	// CleanURL is the page URL with the token fragment stripped. It
	// must replace, not push, the visible URL so back-navigation
	// cannot re-expose the token.
	CleanURL string
	// RedirectToLogin is set when the redirect failed or was
	// abandoned; the caller routes to the login entry point.
	RedirectToLogin bool
}

// CallbackHandler completes the third-party redirect login. The
// single-use token arrives in the URL fragment under the key
// "session_id" (never the query string, so normal navigation does not
// send it to any server). The handler processes a page load exactly
// once: the triggering condition persists across re-renders, but token
// redemption is single-use at the backend, so a second invocation in
// the same load is a no-op.
type CallbackHandler struct {
	api     *API
	store   *SessionStore
	handled bool
	outcome *CallbackOutcome
}

// NewCallbackHandler creates the handler for one page load.
func NewCallbackHandler(api *API, store *SessionStore) *CallbackHandler {
	return &CallbackHandler{api: api, store: store}
}

// Handle processes the callback URL. Repeated calls within the same
// load return the first outcome without any further network call.
func (h *CallbackHandler) Handle(ctx context.Context, pageURL string) (*CallbackOutcome, error) {
	if h.handled {
		return h.outcome, nil
	}
	h.handled = true

	token, cleanURL := extractRedirectToken(pageURL)
	if token == "" {
		// failed or abandoned redirect
		h.outcome = &CallbackOutcome{RedirectToLogin: true, CleanURL: cleanURL}
		return h.outcome, nil
	}

	identity, err := h.api.ExchangeRedirectToken(ctx, token)
	if err != nil {
		h.outcome = &CallbackOutcome{RedirectToLogin: true, CleanURL: cleanURL}
		return h.outcome, err
	}

	h.store.SetFromLogin(identity)
	h.outcome = &CallbackOutcome{
		Result:   &LoginResult{Method: MethodRedirect, Identity: identity},
		CleanURL: cleanURL,
	}
	return h.outcome, nil
}

// extractRedirectToken pulls the session_id out of the URL fragment
// and returns the URL with the fragment removed.
func extractRedirectToken(pageURL string) (token, cleanURL string) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", pageURL
	}

	fragment := u.Fragment
	u.Fragment = ""
	u.RawFragment = ""
	cleanURL = u.String()

	if fragment == "" {
		return "", cleanURL
	}
	// the fragment is query-shaped: session_id=...&other=...
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return "", cleanURL
	}
	return strings.TrimSpace(values.Get("session_id")), cleanURL
}
