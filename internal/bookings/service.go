package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saathihq/saathi-platform/internal/observability/metrics"
	"github.com/saathihq/saathi-platform/internal/psychologists"
	"github.com/saathihq/saathi-platform/internal/razorpay"
	"github.com/saathihq/saathi-platform/internal/users"
	"github.com/saathihq/saathi-platform/pkg/logging"
)

// Service errors surfaced to the HTTP layer.
var (
	ErrAnonymousNotAllowed = errors.New("bookings: anonymous users cannot book")
	ErrSlotRequired        = errors.New("bookings: slot date and time are required")
	ErrPaymentIDRequired   = errors.New("bookings: payment id is required")
)

// PaymentGateway opens payment orders with the external gateway.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int, currency string) (*razorpay.Order, error)
	KeyID() string
}

// Service drives the two-phase booking transaction: open a gateway
// order alongside a pending booking, then confirm the booking once the
// gateway reports the payment. Payment capture and confirmation are
// deliberately separate calls so a confirmation failure leaves a
// reconcilable pending booking rather than a lost one.
type Service struct {
	repo          Repository
	psychologists psychologists.Repository
	gateway       PaymentGateway
	metrics       *metrics.BookingMetrics
	logger        *logging.Logger
}

// NewService constructs the booking service.
func NewService(repo Repository, psyRepo psychologists.Repository, gateway PaymentGateway, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:          repo,
		psychologists: psyRepo,
		gateway:       gateway,
		metrics:       m,
		logger:        logger,
	}
}

// OrderInput is the slot the user wants to reserve.
type OrderInput struct {
	PsychologistID string
	SlotDate       string
	SlotTime       string
}

// CreateOrder opens a gateway order for the psychologist's fee and
// records a pending booking referencing it.
func (s *Service) CreateOrder(ctx context.Context, user *users.User, in OrderInput) (*PaymentIntent, error) {
	start := time.Now()

	if user.IsAnonymous {
		return nil, ErrAnonymousNotAllowed
	}
	if strings.TrimSpace(in.SlotDate) == "" || strings.TrimSpace(in.SlotTime) == "" {
		return nil, ErrSlotRequired
	}

	psy, err := s.psychologists.GetByID(ctx, in.PsychologistID)
	if err != nil {
		return nil, err
	}

	amount := psy.Pricing * 100 // paise
	order, err := s.gateway.CreateOrder(ctx, amount, "INR")
	if err != nil {
		s.metrics.ObserveOrder("gateway_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("bookings: open gateway order: %w", err)
	}

	booking := &Booking{
		BookingID:      "booking_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		UserID:         user.UserID,
		PsychologistID: psy.PsychologistID,
		SlotDate:       in.SlotDate,
		SlotTime:       in.SlotTime,
		Status:         StatusPending,
		GatewayOrderID: order.ID,
		Amount:         psy.Pricing,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		s.metrics.ObserveOrder("store_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("bookings: store booking: %w", err)
	}

	s.metrics.ObserveOrder("success", time.Since(start).Seconds())
	s.logger.Info("booking order created",
		"booking_id", booking.BookingID,
		"gateway_order_id", order.ID,
		"amount", amount)

	return &PaymentIntent{
		BookingID:      booking.BookingID,
		GatewayOrderID: order.ID,
		Amount:         amount,
		Currency:       "INR",
		Key:            s.gateway.KeyID(),
	}, nil
}

// Confirm records the gateway's payment reference against the user's
// pending booking and promotes it to confirmed.
func (s *Service) Confirm(ctx context.Context, user *users.User, bookingID, paymentID string) error {
	if strings.TrimSpace(paymentID) == "" {
		return ErrPaymentIDRequired
	}

	// ownership check before the write
	if _, err := s.repo.GetForUser(ctx, bookingID, user.UserID); err != nil {
		s.metrics.ObserveConfirm("not_found")
		return err
	}

	if err := s.repo.Confirm(ctx, bookingID, paymentID); err != nil {
		s.metrics.ObserveConfirm("store_error")
		return fmt.Errorf("bookings: confirm booking: %w", err)
	}

	s.metrics.ObserveConfirm("success")
	s.logger.Info("booking confirmed", "booking_id", bookingID, "payment_id", paymentID)
	return nil
}

// ListForUser returns the user's bookings, newest first.
func (s *Service) ListForUser(ctx context.Context, user *users.User, limit int) ([]*Booking, error) {
	return s.repo.ListForUser(ctx, user.UserID, limit)
}
