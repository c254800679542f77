package transport

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/kitstash/pkg/constants"
	"github.com/agentstation/kitstash/pkg/errors"
)

// maxErrorMessage bounds how much of an error body ends up in a message.
const maxErrorMessage = 200

// newRequest builds the relay GET for target with credentials applied.
func (c *Client) newRequest(ctx context.Context, target string) (*http.Request, error) {
	if _, err := url.ParseRequestURI(target); err != nil {
		return nil, errors.NewValidationError("url", target, "not a valid URL")
	}

	relay, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.NewConfigError("relay", "invalid relay URL", err)
	}
	query := relay.Query()
	query.Set(c.targetParam, target)
	relay.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, relay.String(), nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+target, err)
	}

	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}
	return req, nil
}

// readBody reads at most constants.MaxPageSize bytes of the response.
func readBody(resp *http.Response) (string, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxPageSize))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// classify maps a failed request to the error taxonomy. ctx is the
// per-call context carrying the relay timeout.
func (c *Client) classify(ctx context.Context, target string, err error) error {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return errors.NewTimeoutError("relay fetch", c.timeout.String(), err.Error())
	case context.Canceled:
		return errors.Join(errors.ErrCanceled, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewTimeoutError("relay fetch", c.timeout.String(), err.Error())
	}
	return errors.NewRelayError(target, 0, "request failed", err)
}

// statusMessage picks a short message for a non-2xx relay response.
func statusMessage(resp *http.Response, body string) string {
	msg := strings.TrimSpace(body)
	if len(msg) > maxErrorMessage {
		msg = msg[:maxErrorMessage]
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return msg
}
