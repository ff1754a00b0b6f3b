package client

import "sync"

// SessionStore holds the current identity for the lifetime of the page
// session. It is dependency-injected into every reader rather than
// imported as ambient state; only the Authenticator and the
// CallbackHandler write it, and Clear is driven by logout.
//
// The store also carries a one-shot hand-off cache: a login flow may
// deposit the freshly returned identity for the immediately following
// view transition, saving the redundant identity check right after
// login. The cache is consumed by exactly one read.
type SessionStore struct {
	mu       sync.Mutex
	identity *Identity
	handoff  *Identity
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Current returns the cached identity, if any. Readers other than the
// immediate post-login transition must still treat the backend as the
// source of truth and re-validate.
func (s *SessionStore) Current() (*Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil, false
	}
	cp := *s.identity
	return &cp, true
}

// SetFromLogin records a freshly established identity and arms the
// one-shot hand-off cache for the view transition that follows login.
func (s *SessionStore) SetFromLogin(id *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *id
	s.identity = &cp
	hc := *id
	s.handoff = &hc
}

// TakeHandOff consumes the one-shot cache. A second call returns
// false until the next login.
func (s *SessionStore) TakeHandOff() (*Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handoff == nil {
		return nil, false
	}
	id := s.handoff
	s.handoff = nil
	return id, true
}

// Clear drops the identity and any armed hand-off, after logout or a
// failed identity check.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.handoff = nil
}
