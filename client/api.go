package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/saathihq/saathi-platform/pkg/logging"
)

// Errors surfaced by the backend API. Transport failures are collapsed
// into the failure the operation would have produced, so callers fail
// closed.
var (
	ErrCodeSendFailed     = errors.New("client: could not send login code")
	ErrInvalidCode        = errors.New("client: invalid or expired code")
	ErrUnauthenticated    = errors.New("client: not authenticated")
	ErrExchangeFailed     = errors.New("client: redirect token exchange failed")
	ErrOrderFailed        = errors.New("client: order creation failed")
	ErrConfirmFailed      = errors.New("client: booking confirmation failed")
	ErrBackendUnreachable = errors.New("client: backend unreachable")
)

// API is the typed surface of the backend. The session credential is
// an HTTP-only cookie managed entirely by the cookie jar; no method
// exposes it.
type API struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewAPI creates a backend client rooted at baseURL.
func NewAPI(baseURL string, logger *logging.Logger) *API {
	if logger == nil {
		logger = logging.Default()
	}
	jar, _ := cookiejar.New(nil)
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Jar: jar},
		logger:     logger,
	}
}

type identityEnvelope struct {
	User *Identity `json:"user"`
}

// SendOTP asks the backend to deliver a one-time login code.
func (a *API) SendOTP(ctx context.Context, email string) error {
	resp, err := a.post(ctx, "/api/auth/otp/send", map[string]string{"email": email}, nil)
	if err != nil {
		return ErrCodeSendFailed
	}
	if resp != http.StatusOK {
		return ErrCodeSendFailed
	}
	return nil
}

// VerifyOTP exchanges email+code for a session.
func (a *API) VerifyOTP(ctx context.Context, email, code string) (*Identity, error) {
	var env identityEnvelope
	status, err := a.post(ctx, "/api/auth/otp/verify", map[string]string{"email": email, "otp": code}, &env)
	if err != nil || status >= http.StatusInternalServerError {
		return nil, ErrInvalidCode
	}
	if status != http.StatusOK || env.User == nil {
		return nil, ErrInvalidCode
	}
	return env.User, nil
}

// LoginAnonymous requests a pseudo-identity.
func (a *API) LoginAnonymous(ctx context.Context, displayName string) (*Identity, error) {
	var env identityEnvelope
	status, err := a.post(ctx, "/api/auth/anonymous", map[string]string{"display_name": displayName}, &env)
	if err != nil {
		return nil, ErrBackendUnreachable
	}
	if status != http.StatusOK || env.User == nil {
		return nil, ErrBackendUnreachable
	}
	return env.User, nil
}

// ExchangeRedirectToken redeems the single-use token from the redirect
// callback. The token travels as a header, never a body field.
func (a *API) ExchangeRedirectToken(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/auth/google/session", nil)
	if err != nil {
		return nil, ErrExchangeFailed
	}
	req.Header.Set("X-Session-ID", token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, ErrExchangeFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrExchangeFailed
	}
	var env identityEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.User == nil {
		return nil, ErrExchangeFailed
	}
	return env.User, nil
}

// Me validates the current session credential.
func (a *API) Me(ctx context.Context) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnauthenticated
	}
	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, ErrUnauthenticated
	}
	return &id, nil
}

// Logout invalidates the session credential.
func (a *API) Logout(ctx context.Context) error {
	status, err := a.post(ctx, "/api/auth/logout", struct{}{}, nil)
	if err != nil {
		return ErrBackendUnreachable
	}
	if status != http.StatusOK {
		return fmt.Errorf("client: logout failed with status %d", status)
	}
	return nil
}

// CreateOrder opens a pending booking and its gateway order.
func (a *API) CreateOrder(ctx context.Context, order BookingOrder) (*PaymentIntent, error) {
	var intent PaymentIntent
	status, err := a.post(ctx, "/api/bookings/create-order", order, &intent)
	if err != nil {
		return nil, ErrOrderFailed
	}
	if status != http.StatusOK {
		return nil, ErrOrderFailed
	}
	return &intent, nil
}

// ConfirmBooking sends the gateway's payment reference to confirm a
// pending booking. This is deliberately a separate call from payment
// capture.
func (a *API) ConfirmBooking(ctx context.Context, bookingID, paymentID string) error {
	path := "/api/bookings/" + bookingID + "/confirm"
	status, err := a.post(ctx, path, map[string]string{"payment_id": paymentID}, nil)
	if err != nil {
		return ErrConfirmFailed
	}
	if status != http.StatusOK {
		return ErrConfirmFailed
	}
	return nil
}

// post issues a JSON POST and optionally decodes the response body.
// The HTTP status is returned so callers can map it to their own
// error, while transport errors come back as err.
func (a *API) post(ctx context.Context, path string, body any, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warn("request failed", "path", path, "error", err)
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}
