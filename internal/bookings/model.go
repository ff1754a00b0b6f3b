package bookings

import "time"

// Booking states. A booking opens pending and is only ever promoted to
// confirmed by an explicit confirmation call carrying the gateway's
// payment reference. An abandoned payment leaves the booking pending.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// Booking is a reserved consultation slot. Amount is in rupees; the
// gateway order is opened for amount*100 paise. GatewayOrderID is
// recorded at creation so a payment that captures but never confirms
// can be matched back to its gateway order.
type Booking struct {
	BookingID      string    `json:"booking_id"`
	UserID         string    `json:"user_id"`
	PsychologistID string    `json:"psychologist_id"`
	SlotDate       string    `json:"slot_date"`
	SlotTime       string    `json:"slot_time"`
	Status         string    `json:"status"`
	GatewayOrderID string    `json:"gateway_order_id"`
	PaymentID      *string   `json:"payment_id"`
	Amount         int       `json:"amount"`
	CreatedAt      time.Time `json:"created_at"`
}

// PaymentIntent is returned from order creation. The frontend opens
// the gateway checkout with the order id and key, then confirms the
// booking in a second, separate call.
type PaymentIntent struct {
	BookingID      string `json:"booking_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int    `json:"amount"`
	Currency       string `json:"currency"`
	Key            string `json:"key"`
}
