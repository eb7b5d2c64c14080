package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Verification failures surfaced by the upstream client.
var (
	// ErrTokenRejected means the user-management service answered and
	// refused the token.
	ErrTokenRejected = errors.New("identity: token rejected")
	// ErrUpstreamUnavailable means the user-management service could not
	// be reached or timed out. Kept distinct from rejection so the
	// gateway can answer 503 instead of 401.
	ErrUpstreamUnavailable = errors.New("identity: user service unavailable")
)

const verifyPath = "/api/auth/verify-token"

// Client calls the user-management service to verify bearer tokens.
type Client struct {
	baseURL    string
	serviceKey string
	serviceID  string
	httpClient *http.Client
}

// NewClient constructs a Client. The service key/ID pair identifies this
// caller to the user-management service.
func NewClient(baseURL, serviceKey, serviceID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		serviceID:  serviceID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Verify performs a single verification round-trip for the raw token and
// returns the upstream response body. No retries: failure is surfaced to
// the caller immediately.
func (c *Client) Verify(ctx context.Context, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+verifyPath, nil)
	if err != nil {
		return nil, fmt.Errorf("identity: build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Service-Key", c.serviceKey)
	req.Header.Set("X-Service-ID", c.serviceID)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrTokenRejected, res.StatusCode)
	}
	return body, nil
}
