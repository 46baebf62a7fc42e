// Package inventoryclient is the order service's client for the product
// service's reservation endpoint. It retries transient failures on a fixed
// backoff schedule and passes business rejections through untouched.
package inventoryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Outcome classifies a reservation attempt for the caller.
type Outcome int

const (
	// Reserved means the remote stock decrement committed.
	Reserved Outcome = iota
	// NotFound and InsufficientStock are permanent business rejections;
	// retrying cannot change them.
	NotFound
	InsufficientStock
	// Unavailable means every transient attempt failed.
	Unavailable
)

func (o Outcome) String() string {
	switch o {
	case Reserved:
		return "Reserved"
	case NotFound:
		return "NotFound"
	case InsufficientStock:
		return "InsufficientStock"
	default:
		return "Unavailable"
	}
}

const attemptTimeout = 5 * time.Second

// defaultBackoff bounds worst-case latency to the sum of attempt timeouts
// plus these delays before the caller sees Unavailable.
var defaultBackoff = []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, time.Second}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Backoff is the sleep after each failed transient attempt; its length
	// is the attempt budget.
	Backoff []time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: attemptTimeout},
		Backoff: defaultBackoff,
	}
}

type reserveRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Reserve asks the product service to decrement stock. The caller's
// Authorization header is forwarded unchanged so the remote side
// authenticates the same principal.
//
// The returned error is non-nil only for Unavailable and carries the last
// transport failure for logging; the Outcome is always authoritative.
func (c *Client) Reserve(ctx context.Context, productID int64, quantity int, authorization string) (Outcome, error) {
	body, err := json.Marshal(reserveRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return Unavailable, fmt.Errorf("marshal reserve request: %w", err)
	}

	var lastErr error
	for _, delay := range c.Backoff {
		outcome, final, err := c.attempt(ctx, body, authorization)
		if final {
			return outcome, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return Unavailable, ctx.Err()
		case <-time.After(delay):
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("inventory service unavailable")
	}
	return Unavailable, lastErr
}

// attempt reports final=true for outcomes retrying cannot change: success
// and the 404/409 business rejections. Everything else (timeouts,
// connection errors, 5xx, unexpected statuses) is transient.
func (c *Client) attempt(ctx context.Context, body []byte, authorization string) (Outcome, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/inventory/reserve", bytes.NewReader(body))
	if err != nil {
		return Unavailable, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Unavailable, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Reserved, true, nil
	case http.StatusNotFound:
		return NotFound, true, nil
	case http.StatusConflict:
		return InsufficientStock, true, nil
	default:
		return Unavailable, false, fmt.Errorf("inventory reserve: unexpected status %d", resp.StatusCode)
	}
}
