package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/saathihq/saathi-platform/internal/sessionctx"
	"github.com/saathihq/saathi-platform/pkg/logging"
)

// ResolveSession attaches the session user to the request context when
// a valid token is present, and passes the request through untouched
// otherwise. Use it ahead of checks that accept other credentials.
func ResolveSession(svc *Service, cookieName string, logger *logging.Logger) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = "session_token"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r, cookieName)
			user, err := svc.CurrentUser(r.Context(), token)
			if err != nil {
				if !errors.Is(err, ErrSessionNotFound) {
					logger.Warn("session resolution failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(sessionctx.WithUser(r.Context(), user)))
		})
	}
}

// RequireSession resolves the session token on each request and rejects
// unauthenticated callers with 401. The resolved user is placed on the
// request context for downstream handlers.
func RequireSession(svc *Service, cookieName string, logger *logging.Logger) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = "session_token"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r, cookieName)
			user, err := svc.CurrentUser(r.Context(), token)
			if err != nil {
				if !errors.Is(err, ErrSessionNotFound) {
					logger.Error("session resolution failed", "error", err)
					http.Error(w, "identity check failed", http.StatusInternalServerError)
					return
				}
				http.Error(w, "not authenticated", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(sessionctx.WithUser(r.Context(), user)))
		})
	}
}

func sessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if ah := r.Header.Get("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimPrefix(ah, "Bearer ")
	}
	return ""
}
