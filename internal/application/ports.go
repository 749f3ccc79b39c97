package application

import (
	"context"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/lead"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/kafka"
)

// Topics and event types published by this service.
const (
	TopicLeadEvents    = "lead.events"
	TopicFormAnalytics = "form.analytics"

	EventLeadSubmitted     = "lead.submitted"
	EventLeadStatusChanged = "lead.status_changed"
	EventFormAnalytics     = "form.analytics_event"

	eventSource = "service-booking"
)

// EventPublisher publishes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// Notifier sends lead emails. Both methods return the provider message ID.
type Notifier interface {
	SendLeadNotification(ctx context.Context, l *lead.Lead) (string, error)
	SendCustomerConfirmation(ctx context.Context, l *lead.Lead) (string, error)
}

// TokenVerifier checks the anti-automation token sent with a submission.
type TokenVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}
