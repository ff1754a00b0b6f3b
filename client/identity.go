// Package client implements the session and booking core of the Saathi
// consumer application: establishing a session through any of the three
// login methods, completing the third-party redirect callback, gating
// protected views, and driving the two-phase booking-payment
// transaction.
package client

// Identity is the profile snapshot associated with a session. It is
// fetched from the backend or returned inline by a login call; the
// session credential itself is an HTTP-only cookie the client never
// reads.
type Identity struct {
	ID          string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// PendingLoginChallenge tracks an issued-but-unverified one-time login
// code. It lives only for the current page session and is discarded on
// verification, successful or not followed by a fresh request.
type PendingLoginChallenge struct {
	Email         string
	CodeRequested bool
}

// BookingOrder is the slot submission that opens a booking attempt.
type BookingOrder struct {
	PsychologistID string `json:"psychologist_id"`
	SlotDate       string `json:"slot_date"`
	SlotTime       string `json:"slot_time"`
}

// PaymentIntent is returned by order creation and handed to the
// gateway checkout.
type PaymentIntent struct {
	BookingID      string `json:"booking_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int    `json:"amount"`
	Currency       string `json:"currency"`
	Key            string `json:"key"`
}

// LoginMethod tags which of the three flows produced a session.
type LoginMethod string

const (
	MethodOTP       LoginMethod = "otp"
	MethodAnonymous LoginMethod = "anonymous"
	MethodRedirect  LoginMethod = "redirect"
)

// LoginResult is the unified outcome of any successful login method.
type LoginResult struct {
	Method   LoginMethod
	Identity *Identity
}
