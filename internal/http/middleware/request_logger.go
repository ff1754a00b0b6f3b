package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/saathihq/saathi-platform/pkg/logging"
)

// RequestLogger emits one structured log line per completed request.
// It rides on chi's RequestID middleware for correlation and records
// whether the session cookie was presented, so auth failures can be
// told apart from unauthenticated traffic without logging the token
// itself.
func RequestLogger(logger *logging.Logger, sessionCookie string) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			hasSession := false
			if _, err := r.Cookie(sessionCookie); err == nil {
				hasSession = true
			}

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			logger.Info("request",
				"method", r.Method,
				"route", route,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimw.GetReqID(r.Context()),
				"remote_ip", r.RemoteAddr,
				"session_cookie", hasSession,
			)
		})
	}
}
