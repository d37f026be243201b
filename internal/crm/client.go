// Package crm forwards captured leads to the clinic's CRM webhook.
// Delivery is best-effort: a failed sync never suppresses the user-facing
// reply.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultTimeout = 15 * time.Second

// Syncer pushes one lead to the CRM. Kept narrow so a retry queue can
// wrap the client without touching the router.
type Syncer interface {
	Sync(ctx context.Context, lead Lead) error
}

// Client posts leads as JSON to the configured CRM ingestion URL.
type Client struct {
	url        string
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient creates a CRM client. A non-positive timeout falls back to
// the 15s default.
func NewClient(url string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("crm: webhook url is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("conectifisio.crm.client"),
	}, nil
}

// Sync posts the lead. Non-2xx responses come back as a *SyncError with
// the status and response body for logging.
func (c *Client) Sync(ctx context.Context, lead Lead) error {
	ctx, span := c.tracer.Start(ctx, "crm.sync")
	defer span.End()

	payload, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("crm: marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("crm: post lead: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	syncErr := &SyncError{StatusCode: resp.StatusCode, Body: string(body)}
	span.RecordError(syncErr)
	return syncErr
}

// SyncError is a non-2xx response from the CRM endpoint.
type SyncError struct {
	StatusCode int
	Body       string
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("crm: http status %d: %s", e.StatusCode, e.Body)
}
