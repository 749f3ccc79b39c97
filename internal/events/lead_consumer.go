package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/application"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/kafka"
)

// CustomerNotifier sends the confirmation email for a stored lead.
type CustomerNotifier interface {
	NotifyCustomer(ctx context.Context, reference string) error
}

// LeadEventConsumer listens to lead events and sends customer confirmations.
type LeadEventConsumer struct {
	consumer *kafka.Consumer
	service  CustomerNotifier
	logger   *zap.Logger
}

// NewLeadEventConsumer creates a new LeadEventConsumer.
func NewLeadEventConsumer(
	brokers []string,
	groupID string,
	service CustomerNotifier,
	logger *zap.Logger,
) *LeadEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, application.TopicLeadEvents, logger)
	return &LeadEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming lead events. This blocks until the context is cancelled.
func (c *LeadEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *LeadEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *LeadEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from lead topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // malformed messages are never retried
	}

	switch cloudEvent.Type {
	case application.EventLeadSubmitted:
		return c.handleLeadSubmitted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled lead event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *LeadEventConsumer) handleLeadSubmitted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt application.LeadSubmittedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse LeadSubmittedEvent data", zap.Error(err))
		return nil
	}
	if !evt.HasEmail {
		return nil
	}

	if err := c.service.NotifyCustomer(ctx, evt.BookingReference); err != nil {
		c.logger.Error("failed to send customer confirmation",
			zap.String("booking_reference", evt.BookingReference),
			zap.Error(err),
		)
		return err
	}
	return nil
}
