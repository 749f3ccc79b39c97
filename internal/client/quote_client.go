package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/application"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/session"
)

// MaxSubmitAttempts bounds how often one submission is sent.
const MaxSubmitAttempts = 3

// QuoteClient submits drafts to the quote API.
type QuoteClient struct {
	transport
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

// NewQuoteClient creates a QuoteClient for the API at baseURL. httpClient may be nil.
func NewQuoteClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *QuoteClient {
	return &QuoteClient{
		transport: newTransport(baseURL, httpClient),
		logger:    logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 4 * time.Second
			return b
		},
	}
}

// Submit implements session.Submitter. Network errors, 5xx and 429 are
// retried; any other rejection is reported in the result without retrying.
func (c *QuoteClient) Submit(ctx context.Context, draft booking.BookingDraft) (session.SubmissionResult, error) {
	var dto application.SubmissionDTO
	attempt := 0

	op := func() error {
		attempt++
		err := c.do(ctx, http.MethodPost, "/api/v1/quotes", draft, &dto)
		if err == nil {
			return nil
		}
		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return backoff.Permanent(err)
		}
		c.logger.Warn("quote submission attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), MaxSubmitAttempts-1), ctx)
	if err := backoff.Retry(op, b); err != nil {
		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return session.SubmissionResult{
				Success:     false,
				Error:       rejectionMessage(se),
				FieldErrors: se.Body.Fields,
			}, nil
		}
		return session.SubmissionResult{}, err
	}

	return session.SubmissionResult{
		Success:          dto.Success,
		BookingReference: dto.BookingReference,
		SubmittedAt:      dto.SubmittedAt,
		Pricing:          dto.Pricing,
	}, nil
}

func rejectionMessage(se *StatusError) string {
	if se.Body.Message != "" {
		return se.Body.Message
	}
	return http.StatusText(se.StatusCode)
}
