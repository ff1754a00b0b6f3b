package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saathihq/saathi-platform/pkg/logging"
)

// sessionIDHeader carries the single-use redirect token. It travels as
// a header, never a body field, because it is a bearer-like credential.
const sessionIDHeader = "X-Session-ID"

// ProviderIdentity is what the external identity provider returns for a
// redeemed redirect token.
type ProviderIdentity struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// ProviderClient redeems redirect-login tokens against the external
// identity provider. Redemption is single-use at the provider: a second
// attempt with the same token fails.
type ProviderClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewProviderClient creates a client for the identity provider at baseURL.
func NewProviderClient(baseURL string, logger *logging.Logger) *ProviderClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProviderClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// ExchangeSession redeems the redirect token for the provider identity.
func (c *ProviderClient) ExchangeSession(ctx context.Context, sessionID string) (*ProviderIdentity, error) {
	if sessionID == "" {
		return nil, ErrRedirectTokenRequired
	}

	url := c.baseURL + "/auth/v1/env/oauth/session-data"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: provider request: %w", err)
	}
	req.Header.Set(sessionIDHeader, sessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: provider http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("identity provider rejected redirect token", "status", resp.StatusCode, "body", string(body))
		return nil, ErrRedirectExchangeFailed
	}

	var identity ProviderIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("auth: provider decode: %w", err)
	}
	if identity.Email == "" || identity.SessionToken == "" {
		return nil, ErrRedirectExchangeFailed
	}
	return &identity, nil
}
