package chat

import (
	"context"
	"sort"
	"sync"
)

// Repository stores conversation messages.
type Repository interface {
	Append(ctx context.Context, msgs ...*Message) error
	History(ctx context.Context, sessionID, userID string, limit int) ([]*Message, error)
	DeleteHistory(ctx context.Context, sessionID, userID string) error
}

// InMemoryRepository is a slice-backed Repository for tests and local
// development.
type InMemoryRepository struct {
	mu   sync.RWMutex
	msgs []*Message
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Append(_ context.Context, msgs ...*Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		cp := *m
		r.msgs = append(r.msgs, &cp)
	}
	return nil
}

func (r *InMemoryRepository) History(_ context.Context, sessionID, userID string, limit int) ([]*Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Message
	for _, m := range r.msgs {
		if m.SessionID != sessionID || m.UserID != userID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) DeleteHistory(_ context.Context, sessionID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.msgs[:0]
	for _, m := range r.msgs {
		if m.SessionID == sessionID && m.UserID == userID {
			continue
		}
		kept = append(kept, m)
	}
	r.msgs = kept
	return nil
}
