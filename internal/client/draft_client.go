package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/session"
)

// DraftClient keeps drafts on the server through the drafts endpoint.
type DraftClient struct {
	transport
}

// NewDraftClient creates a DraftClient for the API at baseURL.
func NewDraftClient(baseURL string, httpClient *http.Client) *DraftClient {
	return &DraftClient{transport: newTransport(baseURL, httpClient)}
}

// Save implements session.DraftStore.
func (c *DraftClient) Save(ctx context.Context, key string, saved session.SavedDraft) error {
	return c.do(ctx, http.MethodPut, draftPath(key), saved, nil)
}

// Load implements session.DraftStore. A missing draft is nil, nil.
func (c *DraftClient) Load(ctx context.Context, key string) (*session.SavedDraft, error) {
	var saved session.SavedDraft
	err := c.do(ctx, http.MethodGet, draftPath(key), nil, &saved)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Clear implements session.DraftStore.
func (c *DraftClient) Clear(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodDelete, draftPath(key), nil, nil)
}

func draftPath(key string) string {
	return "/api/v1/drafts/" + url.PathEscape(key)
}
