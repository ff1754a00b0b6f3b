package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/saathihq/saathi-platform/pkg/logging"
)

const defaultBaseURL = "https://api.razorpay.com"

// ErrOrderCreateFailed is returned when the gateway rejects an order.
var ErrOrderCreateFailed = errors.New("razorpay: order creation failed")

// Order is the gateway-side payment order backing a booking.
type Order struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// OrderRequest describes the order to open. Amount is in the smallest
// currency unit (paise for INR).
type OrderRequest struct {
	Amount         int    `json:"amount"`
	Currency       string `json:"currency"`
	PaymentCapture int    `json:"payment_capture"`
}

// Client is a thin HTTP client for the Razorpay Orders API.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *logging.Logger
}

// NewClient creates a Razorpay client authenticated with the key pair.
func NewClient(baseURL, keyID, keySecret string, logger *logging.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tracer:     otel.Tracer("razorpay"),
		logger:     logger,
	}
}

// KeyID returns the public key id, which frontends need to open the
// checkout widget.
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder opens a payment order with the gateway.
func (c *Client) CreateOrder(ctx context.Context, amount int, currency string) (*Order, error) {
	ctx, span := c.tracer.Start(ctx, "razorpay.CreateOrder",
		trace.WithAttributes(
			attribute.Int("order.amount", amount),
			attribute.String("order.currency", currency),
		))
	defer span.End()

	payload, err := json.Marshal(OrderRequest{
		Amount:         amount,
		Currency:       currency,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("razorpay: marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("razorpay: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("razorpay order rejected", "status", resp.StatusCode, "body", string(body))
		return nil, ErrOrderCreateFailed
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("razorpay: decode response: %w", err)
	}

	span.SetAttributes(attribute.String("order.id", order.ID))
	return &order, nil
}
