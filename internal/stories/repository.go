package stories

import (
	"context"
	"errors"
	"sync"
)

// ErrStoryNotFound is returned when a lookup misses.
var ErrStoryNotFound = errors.New("story not found")

// Repository stores success stories.
type Repository interface {
	Create(ctx context.Context, s *Story) error
	ListApproved(ctx context.Context, limit int) ([]*Story, error)
	SetApproved(ctx context.Context, storyID string, approved bool) error
}

// InMemoryRepository is a map-backed Repository for tests and local
// development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*Story
	order []string
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Story)}
}

func (r *InMemoryRepository) Create(_ context.Context, s *Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.byID[s.StoryID] = &cp
	r.order = append(r.order, s.StoryID)
	return nil
}

func (r *InMemoryRepository) ListApproved(_ context.Context, limit int) ([]*Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Story
	for _, id := range r.order {
		s := r.byID[id]
		if !s.Approved {
			continue
		}
		cp := *s
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *InMemoryRepository) SetApproved(_ context.Context, storyID string, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[storyID]
	if !ok {
		return ErrStoryNotFound
	}
	s.Approved = approved
	return nil
}
