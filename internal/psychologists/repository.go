package psychologists

import (
	"context"
	"errors"
	"sync"
)

// ErrPsychologistNotFound is returned when a lookup misses.
var ErrPsychologistNotFound = errors.New("psychologist not found")

// ListFilter narrows List results.
type ListFilter struct {
	ApprovedOnly bool
	Skip         int
	Limit        int
}

// Repository stores psychologist profiles.
type Repository interface {
	Create(ctx context.Context, p *Psychologist) error
	GetByID(ctx context.Context, id string) (*Psychologist, error)
	List(ctx context.Context, filter ListFilter) ([]*Psychologist, error)
	SetApproved(ctx context.Context, id string, approved bool) error
}

// InMemoryRepository is a map-backed Repository for tests and local
// development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*Psychologist
	order []string
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Psychologist)}
}

func (r *InMemoryRepository) Create(_ context.Context, p *Psychologist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.byID[p.PsychologistID] = &cp
	r.order = append(r.order, p.PsychologistID)
	return nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Psychologist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrPsychologistNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *InMemoryRepository) List(_ context.Context, filter ListFilter) ([]*Psychologist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Psychologist
	for _, id := range r.order {
		p := r.byID[id]
		if filter.ApprovedOnly && !p.Approved {
			continue
		}
		cp := *p
		matched = append(matched, &cp)
	}

	if filter.Skip >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Skip:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *InMemoryRepository) SetApproved(_ context.Context, id string, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return ErrPsychologistNotFound
	}
	p.Approved = approved
	return nil
}
