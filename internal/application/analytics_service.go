package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/session"
)

// MaxAnalyticsBatch caps the events accepted in one request.
const MaxAnalyticsBatch = 50

var knownEventTypes = map[session.EventType]bool{
	session.EventStepView:      true,
	session.EventStepComplete:  true,
	session.EventStepBack:      true,
	session.EventSubmitAttempt: true,
	session.EventSubmitInvalid: true,
	session.EventSubmitSuccess: true,
	session.EventSubmitFailure: true,
	session.EventFormReset:     true,
}

// AnalyticsService forwards form analytics events to Kafka.
type AnalyticsService struct {
	producer EventPublisher
	logger   *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(producer EventPublisher, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{producer: producer, logger: logger}
}

// Forward publishes each event to form.analytics keyed by session. Unknown
// event types reject the whole batch.
func (s *AnalyticsService) Forward(ctx context.Context, events []session.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	if len(events) > MaxAnalyticsBatch {
		return 0, domain.NewValidationError(fmt.Sprintf("at most %d events per request", MaxAnalyticsBatch))
	}
	for _, e := range events {
		if !knownEventTypes[e.Type] {
			return 0, domain.NewValidationError("unknown event type: " + string(e.Type))
		}
	}

	for _, e := range events {
		publishEvent(ctx, s.producer, s.logger, TopicFormAnalytics, EventFormAnalytics, e.SessionKey, e)
	}
	return len(events), nil
}
