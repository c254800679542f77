// Package transport fetches pages through the fetch relay. The relay is
// called with the target URL as a query parameter and returns the target's
// body; relay credentials are applied by an Authenticator.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/agentstation/kitstash/pkg/constants"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
)

// DefaultTargetParam is the relay query parameter carrying the target URL.
const DefaultTargetParam = "url"

// Client calls the fetch relay.
type Client struct {
	http        *http.Client
	auth        Authenticator
	baseURL     string
	apiKey      string
	targetParam string
	timeout     time.Duration
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the relay credential.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithAuthenticator sets how the credential is applied.
func WithAuthenticator(auth Authenticator) Option {
	return func(c *Client) {
		if auth != nil {
			c.auth = auth
		}
	}
}

// WithTimeout bounds every relay call. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithTargetParam sets the relay query parameter carrying the target URL.
func WithTargetParam(param string) Option {
	return func(c *Client) {
		if param != "" {
			c.targetParam = param
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent to the relay.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a relay client for the relay at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{},
		auth:        &BearerAuth{},
		baseURL:     baseURL,
		targetParam: DefaultTargetParam,
		timeout:     constants.RelayTimeout,
		userAgent:   "kitstash",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Fetch returns the body of target as fetched by the relay. Each call is
// bounded by the client timeout. Failures are classified:
//
//   - 401 and 403 from the relay: RelayError matching errors.ErrRelayDenied
//   - deadline exceeded: TimeoutError matching errors.ErrTimeout
//   - caller cancellation: matches errors.ErrCanceled
//   - anything else: RelayError matching errors.ErrTransport
func (c *Client) Fetch(ctx context.Context, target string) (string, error) {
	if c.baseURL == "" {
		return "", errors.NewConfigError("relay", "relay URL is not configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, target)
	if err != nil {
		return "", err
	}

	logger := logging.FromContext(ctx)
	logger.Debug().Str("url", target).Dur("timeout", c.timeout).Msg("Fetching through relay")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", c.classify(ctx, target, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to close relay response body")
		}
	}()

	body, err := readBody(resp)
	if err != nil {
		return "", c.classify(ctx, target, err)
	}

	logger.Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("Relay responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.NewRelayError(target, resp.StatusCode, statusMessage(resp, body), nil)
	}
	return body, nil
}
