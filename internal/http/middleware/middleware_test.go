package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saathihq/saathi-platform/internal/sessionctx"
	"github.com/saathihq/saathi-platform/internal/users"
	"github.com/saathihq/saathi-platform/pkg/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	mw := CORS([]string{"https://app.saathi.example"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/stories", nil)
	req.Header.Set("Origin", "https://app.saathi.example")
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.saathi.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSIgnoresUnlistedOrigin(t *testing.T) {
	mw := CORS([]string{"https://app.saathi.example"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/stories", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardEchoesOrigin(t *testing.T) {
	mw := CORS([]string{"*"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/stories", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, "https://anywhere.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	mw := CORS([]string{"*"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings/create-order", nil)
	req.Header.Set("Origin", "https://app.saathi.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Session-ID")
}

func TestRequireAdminAllowsAdminSession(t *testing.T) {
	mw := RequireAdmin("secret")(okHandler())

	admin := &users.User{UserID: "user_admin000001", Role: users.RoleAdmin}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/stories/story_x/approve", nil)
	req = req.WithContext(sessionctx.WithUser(req.Context(), admin))
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAdminRejectsRegularUser(t *testing.T) {
	mw := RequireAdmin("secret")(okHandler())

	user := &users.User{UserID: "user_abc123def456", Role: users.RoleUser}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/stories/story_x/approve", nil)
	req = req.WithContext(sessionctx.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminAcceptsOperatorJWT(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	var sawClaims bool
	mw := RequireAdmin("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawClaims = AdminClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/psychologists", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, sawClaims)
}

func TestRequireAdminRejectsBadJWT(t *testing.T) {
	mw := RequireAdmin("secret")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/psychologists", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminRejectsWrongKey(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "ops"})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	mw := RequireAdmin("secret")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/psychologists", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	mw := RequestLogger(nil, "session_token")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestLoggerRecordsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := &logging.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}
	mw := RequestLogger(logger, "session_token")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "session_abc"})
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	line := buf.String()
	assert.Contains(t, line, `"status":204`)
	assert.Contains(t, line, `"route":"/api/bookings"`)
	assert.Contains(t, line, `"session_cookie":true`)
	assert.NotContains(t, line, "session_abc", "the token value must never be logged")
}

func TestRequestLoggerFlagsMissingSessionCookie(t *testing.T) {
	var buf bytes.Buffer
	logger := &logging.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}
	mw := RequestLogger(logger, "session_token")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Contains(t, buf.String(), `"session_cookie":false`)
}
