// Package httpclient builds the retrying HTTP client shared by the outbound
// collaborators and translates transport failures into ports.CollaboratorError.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"emojiorder/internal/core/ports"

	"github.com/hashicorp/go-retryablehttp"
)

// maxErrorBody bounds how much of an error response ends up in logs.
const maxErrorBody = 512

type Options struct {
	Timeout    time.Duration
	RetryMax   int
	RetryWait  time.Duration
	UserAgent  string
	Logger     *slog.Logger
	HTTPClient *http.Client
	// CheckRetry replaces the default policy of retrying connection errors,
	// 429 and 5xx.
	CheckRetry retryablehttp.CheckRetry
}

// Client posts JSON to a collaborator. By default it retries connection
// errors, 429 and 5xx responses.
type Client struct {
	name      string
	inner     *retryablehttp.Client
	userAgent string
}

// New returns a client for the named collaborator.
func New(name string, opts Options) *Client {
	inner := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		inner.HTTPClient = opts.HTTPClient
	}
	if opts.Timeout > 0 {
		inner.HTTPClient.Timeout = opts.Timeout
	}
	inner.RetryMax = max(0, opts.RetryMax)
	if opts.CheckRetry != nil {
		inner.CheckRetry = opts.CheckRetry
	}
	if opts.RetryWait > 0 {
		inner.RetryWaitMin = opts.RetryWait
		inner.RetryWaitMax = 4 * opts.RetryWait
	}
	if opts.Logger != nil {
		inner.Logger = opts.Logger.With("component", "httpclient", "collaborator", name)
	} else {
		inner.Logger = nil
	}

	return &Client{name: name, inner: inner, userAgent: opts.UserAgent}
}

// RetryOnDialErrors retries only when the connection could not be opened,
// so the request never reached the server. Use it for requests that must not
// be repeated, such as creating a charge.
func RetryOnDialErrors(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial", nil
}

// Name is the collaborator name used in errors.
func (c *Client) Name() string {
	return c.name
}

// PostJSON marshals body, sends it to url and returns the response status and
// raw payload. Any transport failure is returned as *ports.CollaboratorError;
// non-2xx statuses are left to the caller.
func (c *Client) PostJSON(ctx context.Context, url string, headers http.Header, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("encode %s request: %w", c.name, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("create %s request: %w", c.name, err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return 0, nil, c.Classify(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, c.Classify(err)
	}

	return resp.StatusCode, raw, nil
}

// StatusError wraps an unexpected HTTP status as an unavailable collaborator.
func (c *Client) StatusError(status int, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return ports.NewCollaboratorUnavailableError(
		c.name, fmt.Errorf("unexpected status %d: %s", status, bytes.TrimSpace(body)),
	)
}

// Classify maps a transport error to a timeout or unavailable collaborator error.
func (c *Client) Classify(err error) error {
	if IsTimeout(err) {
		return ports.NewCollaboratorTimeoutError(c.name, err)
	}
	return ports.NewCollaboratorUnavailableError(c.name, err)
}

func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
