package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// excerptLimit caps how much of a downstream response body is kept for the
// signal log.
const excerptLimit = 500

// Client posts signal payloads to webhook URLs. It is stateless apart from
// the shared http.Client and safe for concurrent use by all workers.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Send performs exactly one POST and classifies the outcome. A response of
// any status is a successful send from the client's point of view; the
// returned error is non-nil only for timeout, connection and unexpected
// failures. No retries here, nor in any caller.
func (c *Client) Send(ctx context.Context, target string, payload []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrDeliveryUnexpected, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", c.classify(err)
	}
	defer resp.Body.Close()

	excerpt, err := io.ReadAll(io.LimitReader(resp.Body, excerptLimit))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("%w: reading response: %v", ErrDeliveryUnexpected, err)
	}

	return resp.StatusCode, string(excerpt), nil
}

func (c *Client) classify(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %v", ErrDeliveryTimeout, c.timeout, err)
		}
		return fmt.Errorf("%w: %v", ErrDeliveryConnection, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %v", ErrDeliveryTimeout, c.timeout, err)
	}
	return fmt.Errorf("%w: %v", ErrDeliveryUnexpected, err)
}
