// Package client talks to the quote API from the form side. Its types satisfy
// the session package's Submitter, Analytics and DraftStore interfaces.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/response"
)

const defaultTimeout = 10 * time.Second

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       response.ErrorBody
}

func (e *StatusError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("quote api returned %d: %s", e.StatusCode, e.Body.Message)
	}
	return fmt.Sprintf("quote api returned %d", e.StatusCode)
}

// Retryable reports whether the request may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

type transport struct {
	baseURL    string
	httpClient *http.Client
}

func newTransport(baseURL string, httpClient *http.Client) transport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return transport{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// do sends body as JSON and decodes the envelope's data into out. A non-2xx
// status yields *StatusError.
func (t transport) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		se := &StatusError{StatusCode: resp.StatusCode}
		var env response.Envelope
		if json.Unmarshal(raw, &env) == nil && env.Error != nil {
			se.Body = *env.Error
		}
		return se
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	env := response.Envelope{Data: out}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
