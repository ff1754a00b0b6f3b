package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// fakeBackend is a scripted stand-in for the platform API. Every
// handler counts its invocations so tests can assert exactly how many
// network calls a flow produced.
type fakeBackend struct {
	srv *httptest.Server

	mu sync.Mutex

	sendCalls     int
	verifyCalls   int
	anonCalls     int
	exchangeCalls int
	meCalls       int
	orderCalls    int
	confirmCalls  int

	acceptCode    string
	acceptToken   string
	identity      Identity
	sessionActive bool

	failSend      bool
	failOrder     bool
	confirmStatus int

	intent PaymentIntent

	lastOrder            BookingOrder
	lastConfirmBookingID string
	lastConfirmPaymentID string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{
		acceptCode:  "123456",
		acceptToken: "tok_valid",
		identity: Identity{
			ID:          "usr_8f2a91c0d4e1",
			Email:       "mira@example.com",
			DisplayName: "Mira",
		},
		intent: PaymentIntent{
			BookingID:      "booking_3c9f12ab45de",
			GatewayOrderID: "order_NXhT2q",
			Amount:         50000,
			Currency:       "INR",
			Key:            "rzp_test_key",
		},
	}

	r := chi.NewRouter()
	r.Post("/api/auth/otp/send", b.handleSend)
	r.Post("/api/auth/otp/verify", b.handleVerify)
	r.Post("/api/auth/anonymous", b.handleAnonymous)
	r.Post("/api/auth/google/session", b.handleExchange)
	r.Post("/api/auth/logout", b.handleLogout)
	r.Get("/api/auth/me", b.handleMe)
	r.Post("/api/bookings/create-order", b.handleCreateOrder)
	r.Post("/api/bookings/{bookingID}/confirm", b.handleConfirm)

	b.srv = httptest.NewServer(r)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) api() *API {
	return NewAPI(b.srv.URL, nil)
}

func (b *fakeBackend) counts() (send, verify, anon, exchange, me, order, confirm int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sendCalls, b.verifyCalls, b.anonCalls, b.exchangeCalls, b.meCalls, b.orderCalls, b.confirmCalls
}

func (b *fakeBackend) handleSend(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.sendCalls++
	fail := b.failSend
	b.mu.Unlock()

	if fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeTestJSON(w, http.StatusOK, map[string]string{"status": "otp_sent"})
}

func (b *fakeBackend) handleVerify(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.verifyCalls++
	b.mu.Unlock()

	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OTP != b.acceptCode {
		writeTestJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired OTP"})
		return
	}
	b.mu.Lock()
	b.sessionActive = true
	id := b.identity
	id.Email = req.Email
	b.mu.Unlock()
	writeTestJSON(w, http.StatusOK, map[string]any{"user": id})
}

func (b *fakeBackend) handleAnonymous(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.anonCalls++
	b.mu.Unlock()

	var req struct {
		DisplayName string `json:"display_name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	name := req.DisplayName
	if name == "" {
		name = "Anonymous User"
	}
	b.mu.Lock()
	b.sessionActive = true
	b.mu.Unlock()
	writeTestJSON(w, http.StatusOK, map[string]any{"user": Identity{
		ID:          "anon_77aa12bc34de",
		Email:       "anon_77aa12bc34de@anonymous.saathi",
		DisplayName: name,
		IsAnonymous: true,
	}})
}

func (b *fakeBackend) handleExchange(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.exchangeCalls++
	token := b.acceptToken
	b.mu.Unlock()

	if r.Header.Get("X-Session-ID") != token {
		writeTestJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session id"})
		return
	}
	b.mu.Lock()
	b.sessionActive = true
	id := b.identity
	b.mu.Unlock()
	writeTestJSON(w, http.StatusOK, map[string]any{"user": id})
}

func (b *fakeBackend) handleLogout(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.sessionActive = false
	b.mu.Unlock()
	writeTestJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (b *fakeBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.meCalls++
	active := b.sessionActive
	id := b.identity
	b.mu.Unlock()

	if !active {
		writeTestJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	writeTestJSON(w, http.StatusOK, id)
}

func (b *fakeBackend) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.orderCalls++
	fail := b.failOrder
	b.mu.Unlock()

	var order BookingOrder
	_ = json.NewDecoder(r.Body).Decode(&order)
	b.mu.Lock()
	b.lastOrder = order
	intent := b.intent
	b.mu.Unlock()

	if fail {
		writeTestJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create payment order"})
		return
	}
	writeTestJSON(w, http.StatusOK, intent)
}

func (b *fakeBackend) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentID string `json:"payment_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	b.confirmCalls++
	b.lastConfirmBookingID = chi.URLParam(r, "bookingID")
	b.lastConfirmPaymentID = req.PaymentID
	status := b.confirmStatus
	b.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		writeTestJSON(w, status, map[string]string{"error": "failed to confirm booking"})
		return
	}
	writeTestJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

func writeTestJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
