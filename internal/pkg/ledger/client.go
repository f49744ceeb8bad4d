// Package ledger delivers journal entries to the external accounting ledger.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
)

// Client posts journal entries as JSON to a single endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient returns a client for url. A zero timeout uses 10s.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError represents a non-2xx ledger response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ledger API error [%d]: %s", e.StatusCode, e.Body)
}

// Send implements journal.LedgerClient.
func (c *Client) Send(ctx context.Context, payload journal.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The ledger deduplicates on this key.
	req.Header.Set("Idempotency-Key", payload.SourceReference)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach ledger: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Body: string(msg)}
	}
	return nil
}
