package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the pgx surface the repository needs, satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores bookings in the relational database.
type PostgresRepository struct {
	db DB
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("bookings: database required")
	}
	return &PostgresRepository{db: db}
}

const bookingColumns = "booking_id, user_id, psychologist_id, slot_date, slot_time, status, gateway_order_id, payment_id, amount, created_at"

// Create inserts a new booking row.
func (r *PostgresRepository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (booking_id, user_id, psychologist_id, slot_date, slot_time, status, gateway_order_id, payment_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := r.db.Exec(ctx, query,
		b.BookingID,
		b.UserID,
		b.PsychologistID,
		b.SlotDate,
		b.SlotTime,
		b.Status,
		b.GatewayOrderID,
		b.PaymentID,
		b.Amount,
		b.CreatedAt,
	); err != nil {
		return fmt.Errorf("bookings: insert failed: %w", err)
	}
	return nil
}

// GetForUser fetches a booking scoped to its owner.
func (r *PostgresRepository) GetForUser(ctx context.Context, bookingID, userID string) (*Booking, error) {
	query := "SELECT " + bookingColumns + " FROM bookings WHERE booking_id = $1 AND user_id = $2"
	b, err := scanBooking(r.db.QueryRow(ctx, query, bookingID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: select failed: %w", err)
	}
	return b, nil
}

// ListForUser returns the user's bookings, newest first.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID string, limit int) ([]*Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	query := "SELECT " + bookingColumns + " FROM bookings WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2"

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("bookings: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("bookings: scan failed: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: list failed: %w", err)
	}
	return out, nil
}

// Confirm marks a booking confirmed and records the payment reference.
func (r *PostgresRepository) Confirm(ctx context.Context, bookingID, paymentID string) error {
	query := "UPDATE bookings SET status = $1, payment_id = $2 WHERE booking_id = $3"
	tag, err := r.db.Exec(ctx, query, StatusConfirmed, paymentID, bookingID)
	if err != nil {
		return fmt.Errorf("bookings: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.BookingID,
		&b.UserID,
		&b.PsychologistID,
		&b.SlotDate,
		&b.SlotTime,
		&b.Status,
		&b.GatewayOrderID,
		&b.PaymentID,
		&b.Amount,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
