package bookings

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrBookingNotFound is returned when a lookup misses or the booking
// belongs to a different user.
var ErrBookingNotFound = errors.New("booking not found")

// Repository stores bookings.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetForUser(ctx context.Context, bookingID, userID string) (*Booking, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]*Booking, error)
	Confirm(ctx context.Context, bookingID, paymentID string) error
}

// InMemoryRepository is a map-backed Repository for tests and local
// development.
type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*Booking
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Booking)}
}

func (r *InMemoryRepository) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.byID[b.BookingID] = &cp
	return nil
}

func (r *InMemoryRepository) GetForUser(_ context.Context, bookingID, userID string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[bookingID]
	if !ok || b.UserID != userID {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *InMemoryRepository) ListForUser(_ context.Context, userID string, limit int) ([]*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Booking
	for _, b := range r.byID {
		if b.UserID != userID {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) Confirm(_ context.Context, bookingID, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[bookingID]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = StatusConfirmed
	b.PaymentID = &paymentID
	return nil
}
