package client

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/session"
)

const analyticsTimeout = 3 * time.Second

// AnalyticsClient posts form events to the analytics endpoint.
type AnalyticsClient struct {
	transport
	logger *zap.Logger
}

// NewAnalyticsClient creates an AnalyticsClient for the API at baseURL.
func NewAnalyticsClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *AnalyticsClient {
	return &AnalyticsClient{transport: newTransport(baseURL, httpClient), logger: logger}
}

// Track implements session.Analytics. Delivery is best-effort; failures are
// logged and never reach the caller.
func (c *AnalyticsClient) Track(ctx context.Context, event session.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), analyticsTimeout)
	defer cancel()

	req := struct {
		Events []session.Event `json:"events"`
	}{Events: []session.Event{event}}
	if err := c.do(ctx, http.MethodPost, "/api/v1/analytics/events", req, nil); err != nil {
		c.logger.Debug("analytics event dropped",
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}
