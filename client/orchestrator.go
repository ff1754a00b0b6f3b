package client

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Orchestrator errors. ErrConfirmationSeam is the dangerous one:
// payment was captured by the gateway but the confirmation call
// failed, so the booking stays pending until reconciled out-of-band.
var (
	ErrOrderFieldsRequired = errors.New("client: psychologist, date and time are required")
	ErrSlotInPast          = errors.New("client: slot date is in the past")
	ErrCheckoutAbandoned   = errors.New("client: checkout closed without payment")
	ErrConfirmationSeam    = errors.New("client: payment captured but booking not confirmed")
	ErrOrchestratorSpent   = errors.New("client: booking attempt already ran")
)

// OrchestratorState is the linear booking state machine.
type OrchestratorState int

const (
	StateIdle OrchestratorState = iota
	StateOrderCreated
	StatePaymentAuthorized
	StateConfirmed
	StateFailed
)

func (s OrchestratorState) String() string {
	switch s {
	case StateOrderCreated:
		return "order_created"
	case StatePaymentAuthorized:
		return "payment_authorized"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Checkout is the external payment gateway's embedded widget. Open
// runs outside this system's control: it is single-shot, resolves at
// most once, and a user closing the widget surfaces as an error with
// no payment reference.
type Checkout interface {
	Open(ctx context.Context, intent PaymentIntent) (paymentID string, err error)
}

// Orchestrator drives one booking attempt: create the order and
// pending booking, hand the PaymentIntent to the gateway checkout,
// then confirm the booking with the payment reference. Payment capture
// and confirmation stay two observably distinct calls so the second
// can be reconciled independently if it fails. One instance serves one
// attempt; a new attempt needs a new Orchestrator.
type Orchestrator struct {
	api      *API
	checkout Checkout
	state    OrchestratorState
	intent   *PaymentIntent

	// today is injected in tests; zero means time.Now.
	today func() time.Time
}

// NewOrchestrator creates an orchestrator for a single booking
// attempt.
func NewOrchestrator(api *API, checkout Checkout) *Orchestrator {
	return &Orchestrator{api: api, checkout: checkout, state: StateIdle}
}

// State reports the current position in the booking state machine.
func (o *Orchestrator) State() OrchestratorState {
	return o.state
}

// Intent returns the PaymentIntent for the current attempt, if the
// order step completed.
func (o *Orchestrator) Intent() *PaymentIntent {
	return o.intent
}

// Run executes the whole attempt. On any failure the machine lands in
// StateFailed (or stays in StateOrderCreated when the checkout is
// abandoned) and the error describes the step that broke; nothing is
// retried automatically.
func (o *Orchestrator) Run(ctx context.Context, order BookingOrder) error {
	if err := o.CreateOrder(ctx, order); err != nil {
		return err
	}
	paymentID, err := o.Pay(ctx)
	if err != nil {
		return err
	}
	return o.Confirm(ctx, paymentID)
}

// CreateOrder validates the slot locally, then opens the gateway order
// and pending booking in one backend call. Past dates are rejected
// before any network call.
func (o *Orchestrator) CreateOrder(ctx context.Context, order BookingOrder) error {
	if o.state != StateIdle {
		return ErrOrchestratorSpent
	}
	if strings.TrimSpace(order.PsychologistID) == "" ||
		strings.TrimSpace(order.SlotDate) == "" ||
		strings.TrimSpace(order.SlotTime) == "" {
		return ErrOrderFieldsRequired
	}
	if slotInPast(order.SlotDate, o.now()) {
		return ErrSlotInPast
	}

	intent, err := o.api.CreateOrder(ctx, order)
	if err != nil {
		o.state = StateFailed
		return err
	}
	o.intent = intent
	o.state = StateOrderCreated
	return nil
}

// Pay hands the PaymentIntent to the gateway checkout and waits for
// its single-shot result. An abandoned checkout leaves the machine in
// StateOrderCreated: the booking stays pending server-side with no
// client-driven cleanup.
func (o *Orchestrator) Pay(ctx context.Context) (string, error) {
	if o.state != StateOrderCreated {
		return "", ErrOrchestratorSpent
	}
	paymentID, err := o.checkout.Open(ctx, *o.intent)
	if err != nil {
		return "", ErrCheckoutAbandoned
	}
	o.state = StatePaymentAuthorized
	return paymentID, nil
}

// Confirm sends the gateway's payment reference to the backend. A
// failure here means money has moved but the booking is still pending;
// the error is surfaced once with no automatic retry, and
// reconciliation belongs to the backend.
func (o *Orchestrator) Confirm(ctx context.Context, paymentID string) error {
	if o.state != StatePaymentAuthorized {
		return ErrOrchestratorSpent
	}
	if err := o.api.ConfirmBooking(ctx, o.intent.BookingID, paymentID); err != nil {
		o.state = StateFailed
		return ErrConfirmationSeam
	}
	o.state = StateConfirmed
	return nil
}

func (o *Orchestrator) now() time.Time {
	if o.today != nil {
		return o.today()
	}
	return time.Now()
}

// slotInPast reports whether the date (YYYY-MM-DD, local) is strictly
// before today. Unparseable dates are left for the backend to reject.
func slotInPast(slotDate string, now time.Time) bool {
	d, err := time.ParseInLocation("2006-01-02", slotDate, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}
