package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/saathihq/saathi-platform/internal/observability/metrics"
	"github.com/saathihq/saathi-platform/internal/users"
	"github.com/saathihq/saathi-platform/pkg/logging"
)

// Handler exposes the authentication HTTP surface.
type Handler struct {
	svc        *Service
	cookieName string
	metrics    *metrics.AuthMetrics
	logger     *logging.Logger
}

// NewHandler creates the auth handler.
func NewHandler(svc *Service, cookieName string, m *metrics.AuthMetrics, logger *logging.Logger) *Handler {
	if cookieName == "" {
		cookieName = "session_token"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, cookieName: cookieName, metrics: m, logger: logger}
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type anonymousRequest struct {
	DisplayName string `json:"display_name"`
}

type loginResponse struct {
	Status       string      `json:"status"`
	User         *users.User `json:"user"`
	SessionToken string      `json:"session_token,omitempty"`
}

// SendOTP handles POST /api/auth/otp/send.
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.RequestCode(r.Context(), req.Email); err != nil {
		if errors.Is(err, ErrEmailRequired) {
			h.metrics.ObserveOTPRequest("invalid")
			http.Error(w, "email is required", http.StatusBadRequest)
			return
		}
		h.metrics.ObserveOTPRequest("failure")
		http.Error(w, "failed to send OTP", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveOTPRequest("success")
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "OTP sent to email",
	})
}

// VerifyOTP handles POST /api/auth/otp/verify.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	login, err := h.svc.VerifyCode(r.Context(), req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, ErrInvalidOTP) {
			h.metrics.ObserveLogin("otp", "invalid")
			http.Error(w, "invalid or expired OTP", http.StatusBadRequest)
			return
		}
		h.logger.Error("otp verify failed", "error", err)
		h.metrics.ObserveLogin("otp", "failure")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveLogin("otp", "success")
	h.setSessionCookie(w, login.Token)
	writeJSON(w, http.StatusOK, loginResponse{Status: "success", User: login.User, SessionToken: login.Token})
}

// Anonymous handles POST /api/auth/anonymous.
func (h *Handler) Anonymous(w http.ResponseWriter, r *http.Request) {
	var req anonymousRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	login, err := h.svc.LoginAnonymous(r.Context(), req.DisplayName)
	if err != nil {
		h.logger.Error("anonymous login failed", "error", err)
		h.metrics.ObserveLogin("anonymous", "failure")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveLogin("anonymous", "success")
	h.setSessionCookie(w, login.Token)
	writeJSON(w, http.StatusOK, loginResponse{Status: "success", User: login.User, SessionToken: login.Token})
}

// GoogleSession handles POST /api/auth/google/session. The redirect
// token arrives in the X-Session-ID header, never in the body.
func (h *Handler) GoogleSession(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))
	if sessionID == "" {
		http.Error(w, "session ID required", http.StatusBadRequest)
		return
	}

	login, err := h.svc.ExchangeRedirectToken(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrRedirectExchangeFailed) || errors.Is(err, ErrRedirectTokenRequired) {
			h.metrics.ObserveLogin("redirect", "invalid")
			http.Error(w, "invalid session", http.StatusBadRequest)
			return
		}
		h.logger.Error("redirect exchange failed", "error", err)
		h.metrics.ObserveLogin("redirect", "failure")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveLogin("redirect", "success")
	h.setSessionCookie(w, login.Token)
	writeJSON(w, http.StatusOK, loginResponse{Status: "success", User: login.User, SessionToken: login.Token})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token := h.tokenFromRequest(r)
	user, err := h.svc.CurrentUser(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			h.metrics.ObserveSessionCheck("unauthorized")
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}
		h.logger.Error("identity check failed", "error", err)
		h.metrics.ObserveSessionCheck("error")
		http.Error(w, "identity check failed", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveSessionCheck("ok")
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.tokenFromRequest(r)
	if err := h.svc.Logout(r.Context(), token); err != nil {
		h.logger.Warn("logout failed", "error", err)
	}
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// tokenFromRequest pulls the session token out of the cookie, falling
// back to a bearer Authorization header.
func (h *Handler) tokenFromRequest(r *http.Request) string {
	return sessionToken(r, h.cookieName)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.svc.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
