package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/saathihq/saathi-platform/internal/psychologists"
	"github.com/saathihq/saathi-platform/internal/sessionctx"
	"github.com/saathihq/saathi-platform/pkg/logging"
)

// Handler exposes the booking flow over HTTP. All routes require a
// resolved session on the request context.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates the bookings handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type createOrderRequest struct {
	PsychologistID string `json:"psychologist_id"`
	SlotDate       string `json:"slot_date"`
	SlotTime       string `json:"slot_time"`
}

type confirmRequest struct {
	PaymentID string `json:"payment_id"`
}

// CreateOrder handles POST /api/bookings/create-order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionctx.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	intent, err := h.svc.CreateOrder(r.Context(), user, OrderInput{
		PsychologistID: req.PsychologistID,
		SlotDate:       req.SlotDate,
		SlotTime:       req.SlotTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAnonymousNotAllowed):
			http.Error(w, "anonymous users cannot book sessions", http.StatusForbidden)
		case errors.Is(err, ErrSlotRequired):
			http.Error(w, "slot date and time are required", http.StatusBadRequest)
		case errors.Is(err, psychologists.ErrPsychologistNotFound):
			http.Error(w, "psychologist not found", http.StatusNotFound)
		default:
			h.logger.Error("order creation failed", "error", err)
			http.Error(w, "failed to create order", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, intent)
}

// Confirm handles POST /api/bookings/{bookingID}/confirm.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionctx.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	if err := h.svc.Confirm(r.Context(), user, bookingID, req.PaymentID); err != nil {
		switch {
		case errors.Is(err, ErrPaymentIDRequired):
			http.Error(w, "payment_id is required", http.StatusBadRequest)
		case errors.Is(err, ErrBookingNotFound):
			http.Error(w, "booking not found", http.StatusNotFound)
		default:
			h.logger.Error("booking confirmation failed", "error", err, "booking_id", bookingID)
			http.Error(w, "failed to confirm booking", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Booking confirmed"})
}

// List handles GET /api/bookings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionctx.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	list, err := h.svc.ListForUser(r.Context(), user, limit)
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Booking{}
	}
	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
