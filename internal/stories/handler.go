package stories

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saathihq/saathi-platform/pkg/logging"
)

// Handler exposes the success-stories feed over HTTP.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates the stories handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("stories: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

type createRequest struct {
	Category string `json:"category"`
	Content  string `json:"content"`
}

// Create handles POST /api/stories. Stories are submitted by signed-in
// users but stored without any user reference, and stay unapproved
// until reviewed.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	s := &Story{
		StoryID:   "story_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Category:  req.Category,
		Content:   req.Content,
		Approved:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.Create(r.Context(), s); err != nil {
		h.logger.Error("failed to create story", "error", err)
		http.Error(w, "failed to create story", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// List handles GET /api/stories, returning only approved stories.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListApproved(r.Context(), 1000)
	if err != nil {
		h.logger.Error("failed to list stories", "error", err)
		http.Error(w, "failed to list stories", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Story{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Approve handles POST /api/admin/stories/{storyID}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "storyID")
	if err := h.repo.SetApproved(r.Context(), id, true); err != nil {
		if errors.Is(err, ErrStoryNotFound) {
			http.Error(w, "story not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to approve story", "error", err, "story_id", id)
		http.Error(w, "failed to approve story", http.StatusInternalServerError)
		return
	}

	h.logger.Info("story approved", "story_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
