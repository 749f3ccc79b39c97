package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/kafka"
)

// LeadSubmittedEvent is published when a quote request is stored.
type LeadSubmittedEvent struct {
	LeadID           uuid.UUID `json:"lead_id"`
	BookingReference string    `json:"booking_reference"`
	Kind             string    `json:"kind"`
	GrandTotalPence  int64     `json:"grand_total_pence"`
	Currency         string    `json:"currency"`
	HasEmail         bool      `json:"has_email"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// LeadStatusChangedEvent is published when an admin moves a lead along.
type LeadStatusChangedEvent struct {
	LeadID           uuid.UUID `json:"lead_id"`
	BookingReference string    `json:"booking_reference"`
	From             string    `json:"from"`
	To               string    `json:"to"`
	Note             string    `json:"note,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

func publishEvent(ctx context.Context, producer EventPublisher, log *zap.Logger, topic, eventType, key string, data interface{}) {
	if producer == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		log.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = key

	if err := producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		log.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
