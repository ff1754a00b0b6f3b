package psychologists

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saathihq/saathi-platform/pkg/logging"
)

// Handler exposes the psychologist directory over HTTP.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates the psychologists handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("psychologists: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

type createRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Credentials     string   `json:"credentials"`
	Specialization  []string `json:"specialization"`
	YearsExperience int      `json:"years_experience"`
	Pricing         int      `json:"pricing"`
	Bio             string   `json:"bio"`
	Picture         *string  `json:"picture"`
}

// Create handles POST /api/psychologists. New profiles are created
// unapproved and withheld from public listings.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}
	if req.Pricing <= 0 {
		http.Error(w, "pricing must be positive", http.StatusBadRequest)
		return
	}

	p := &Psychologist{
		PsychologistID:  "psy_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Name:            req.Name,
		Email:           req.Email,
		Credentials:     req.Credentials,
		Specialization:  req.Specialization,
		YearsExperience: req.YearsExperience,
		Pricing:         req.Pricing,
		Rating:          0,
		Bio:             req.Bio,
		Picture:         req.Picture,
		Approved:        false,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.repo.Create(r.Context(), p); err != nil {
		h.logger.Error("failed to create psychologist", "error", err)
		http.Error(w, "failed to create psychologist", http.StatusInternalServerError)
		return
	}

	h.logger.Info("psychologist registered", "psychologist_id", p.PsychologistID)
	writeJSON(w, http.StatusOK, p)
}

// List handles GET /api/psychologists. Only approved profiles are
// returned unless approved_only=false is passed.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		ApprovedOnly: true,
		Skip:         queryInt(r, "skip", 0),
		Limit:        queryInt(r, "limit", 20),
	}
	if r.URL.Query().Get("approved_only") == "false" {
		filter.ApprovedOnly = false
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list psychologists", "error", err)
		http.Error(w, "failed to list psychologists", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Psychologist{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /api/psychologists/{psychologistID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "psychologistID")
	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPsychologistNotFound) {
			http.Error(w, "psychologist not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch psychologist", "error", err, "psychologist_id", id)
		http.Error(w, "failed to fetch psychologist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// AdminList handles GET /api/admin/psychologists, returning every
// profile regardless of approval.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context(), ListFilter{Limit: 1000})
	if err != nil {
		h.logger.Error("failed to list psychologists", "error", err)
		http.Error(w, "failed to list psychologists", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Psychologist{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Approve handles POST /api/admin/psychologists/{psychologistID}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "psychologistID")
	if err := h.repo.SetApproved(r.Context(), id, true); err != nil {
		if errors.Is(err, ErrPsychologistNotFound) {
			http.Error(w, "psychologist not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to approve psychologist", "error", err, "psychologist_id", id)
		http.Error(w, "failed to approve psychologist", http.StatusInternalServerError)
		return
	}

	h.logger.Info("psychologist approved", "psychologist_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Psychologist approved"})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
