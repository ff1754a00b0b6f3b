package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/saathihq/saathi-platform/internal/sessionctx"
	"github.com/saathihq/saathi-platform/pkg/logging"
)

// Handler exposes the support conversation over HTTP. All routes
// require a resolved session on the request context.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates the chat handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type sendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// Send handles POST /api/chat.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionctx.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := h.svc.Send(r.Context(), user, req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, ErrMessageRequired), errors.Is(err, ErrSessionRequired):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("chat turn failed", "error", err)
			http.Error(w, "chat failed", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// History handles GET /api/chat/history/{sessionID}.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionctx.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	msgs, err := h.svc.History(r.Context(), user, chi.URLParam(r, "sessionID"), limit)
	if err != nil {
		h.logger.Error("failed to load history", "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []*Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// DeleteHistory handles DELETE /api/chat/history/{sessionID}.
func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionctx.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := h.svc.DeleteHistory(r.Context(), user, chi.URLParam(r, "sessionID")); err != nil {
		h.logger.Error("failed to delete history", "error", err)
		http.Error(w, "failed to delete history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
