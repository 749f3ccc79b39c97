package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/captcha"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/lead"
)

// QuoteSubmission is a draft posted by the form plus request metadata.
type QuoteSubmission struct {
	Draft    booking.BookingDraft
	RemoteIP string
}

// SubmissionDTO is returned for an accepted submission.
type SubmissionDTO struct {
	Success          bool                  `json:"success"`
	BookingReference string                `json:"booking_reference"`
	SubmittedAt      time.Time             `json:"submitted_at"`
	Pricing          booking.PricingResult `json:"pricing"`
}

// QuoteService accepts quote requests from the public form.
type QuoteService struct {
	repo      lead.LeadRepository
	pricing   booking.PricingStrategy
	validator *booking.FormValidator
	verifier  TokenVerifier
	notifier  Notifier
	producer  EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewQuoteService creates a new QuoteService. notifier may be nil when email
// is not configured.
func NewQuoteService(
	repo lead.LeadRepository,
	pricing booking.PricingStrategy,
	validator *booking.FormValidator,
	verifier TokenVerifier,
	notifier Notifier,
	producer EventPublisher,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		repo:      repo,
		pricing:   pricing,
		validator: validator,
		verifier:  verifier,
		notifier:  notifier,
		producer:  producer,
		logger:    logger,
		now:       time.Now,
	}
}

// PreviewPrice prices a draft without storing anything.
func (s *QuoteService) PreviewPrice(draft booking.BookingDraft) booking.PricingResult {
	return s.pricing.Calculate(booking.Sanitize(draft))
}

// SubmitQuote validates, prices and stores a quote request, then notifies the
// business and publishes lead.submitted.
func (s *QuoteService) SubmitQuote(ctx context.Context, sub QuoteSubmission) (*SubmissionDTO, error) {
	draft := booking.Sanitize(sub.Draft)

	if result := s.validator.ValidateForSubmission(draft); !result.IsValid {
		return nil, domain.NewFieldValidationError(result.Errors)
	}

	if err := s.verifier.Verify(ctx, draft.AntiAutomationToken, sub.RemoteIP); err != nil {
		if errors.Is(err, captcha.ErrRejected) {
			s.logger.Warn("anti-automation check rejected submission",
				zap.String("remote_ip", sub.RemoteIP),
				zap.Error(err),
			)
			return nil, domain.NewForbiddenError("anti-automation check failed, please try again")
		}
		return nil, fmt.Errorf("failed to verify anti-automation token: %w", err)
	}

	// Client-sent totals are never trusted.
	draft.Pricing = s.pricing.Calculate(draft)

	now := s.now().UTC()
	reference, err := booking.GenerateBookingReference(now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	l, err := lead.NewLead(reference, draft, now)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save lead: %w", err)
	}

	s.logger.Info("lead submitted",
		zap.String("booking_reference", l.Reference()),
		zap.String("kind", l.Kind().String()),
		zap.Int64("grand_total_pence", int64(l.GrandTotal())),
	)

	s.notifyBusiness(ctx, l)

	evt := LeadSubmittedEvent{
		LeadID:           l.ID(),
		BookingReference: l.Reference(),
		Kind:             l.Kind().String(),
		GrandTotalPence:  int64(l.GrandTotal()),
		Currency:         l.Currency(),
		HasEmail:         l.Contact().Email != "",
		SubmittedAt:      l.SubmittedAt(),
	}
	publishEvent(ctx, s.producer, s.logger, TopicLeadEvents, EventLeadSubmitted, l.Reference(), evt)

	return &SubmissionDTO{
		Success:          true,
		BookingReference: l.Reference(),
		SubmittedAt:      l.SubmittedAt(),
		Pricing:          l.Draft().Pricing,
	}, nil
}

func (s *QuoteService) notifyBusiness(ctx context.Context, l *lead.Lead) {
	if s.notifier == nil {
		return
	}
	messageID, err := s.notifier.SendLeadNotification(ctx, l)
	if err != nil {
		s.logger.Error("failed to send lead notification",
			zap.String("booking_reference", l.Reference()),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("lead notification sent",
		zap.String("booking_reference", l.Reference()),
		zap.String("message_id", messageID),
	)
}
