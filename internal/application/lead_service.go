package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/lead"
)

// UpdateLeadStatusRequest moves a lead to a new status.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

// LeadDTO is the admin representation of a lead.
type LeadDTO struct {
	ID               uuid.UUID            `json:"id"`
	BookingReference string               `json:"booking_reference"`
	Kind             string               `json:"kind"`
	Status           string               `json:"status"`
	StatusNote       string               `json:"status_note,omitempty"`
	GrandTotalPence  int64                `json:"grand_total_pence"`
	GrandTotal       string               `json:"grand_total"`
	Currency         string               `json:"currency"`
	Draft            booking.BookingDraft `json:"draft"`
	SubmittedAt      time.Time            `json:"submitted_at"`
	NotifiedAt       *time.Time           `json:"customer_notified_at,omitempty"`
	Version          int64                `json:"version"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// LeadStatsDTO holds aggregate lead statistics.
type LeadStatsDTO struct {
	TotalLeads int64            `json:"total_leads"`
	ByStatus   map[string]int64 `json:"by_status"`
}

// LeadService manages stored leads for admins and event consumers.
type LeadService struct {
	repo     lead.LeadRepository
	notifier Notifier
	producer EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewLeadService creates a new LeadService. notifier may be nil.
func NewLeadService(repo lead.LeadRepository, notifier Notifier, producer EventPublisher, logger *zap.Logger) *LeadService {
	return &LeadService{
		repo:     repo,
		notifier: notifier,
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
}

// ListLeads returns a filtered page of leads, newest first.
func (s *LeadService) ListLeads(ctx context.Context, status, kind string, page, limit int) ([]LeadDTO, int64, error) {
	var filter lead.ListFilter
	if status != "" {
		st, err := lead.ParseLeadStatus(status)
		if err != nil {
			return nil, 0, domain.NewValidationError(err.Error())
		}
		filter.Status = st
	}
	if kind != "" {
		k, err := booking.ParseBookingKind(kind)
		if err != nil {
			return nil, 0, domain.NewValidationError(err.Error())
		}
		filter.Kind = k
	}

	leads, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	dtos := make([]LeadDTO, len(leads))
	for i, l := range leads {
		dtos[i] = toLeadDTO(l)
	}
	return dtos, total, nil
}

// GetLead returns a single lead.
func (s *LeadService) GetLead(ctx context.Context, id uuid.UUID) (*LeadDTO, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toLeadDTO(l)
	return &dto, nil
}

// UpdateLeadStatus applies a status transition and publishes lead.status_changed.
func (s *LeadService) UpdateLeadStatus(ctx context.Context, id uuid.UUID, req UpdateLeadStatusRequest) (*LeadDTO, error) {
	target, err := lead.ParseLeadStatus(req.Status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := l.Status()
	if err := l.UpdateStatus(target, req.Note); err != nil {
		return nil, err
	}

	l.IncrementVersion()
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info("lead status updated",
		zap.String("booking_reference", l.Reference()),
		zap.String("from", from.String()),
		zap.String("to", target.String()),
	)

	evt := LeadStatusChangedEvent{
		LeadID:           l.ID(),
		BookingReference: l.Reference(),
		From:             from.String(),
		To:               target.String(),
		Note:             req.Note,
		OccurredAt:       s.now().UTC(),
	}
	publishEvent(ctx, s.producer, s.logger, TopicLeadEvents, EventLeadStatusChanged, l.Reference(), evt)

	dto := toLeadDTO(l)
	return &dto, nil
}

// GetLeadStats returns lead counts by status.
func (s *LeadService) GetLeadStats(ctx context.Context) (*LeadStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &LeadStatsDTO{TotalLeads: total, ByStatus: counts}, nil
}

// NotifyCustomer sends the confirmation email for a lead once. Leads that were
// already notified, or that have no email, are skipped.
func (s *LeadService) NotifyCustomer(ctx context.Context, reference string) error {
	if s.notifier == nil {
		return nil
	}

	l, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return err
	}
	if l.NotifiedAt() != nil || l.Contact().Email == "" {
		return nil
	}

	messageID, err := s.notifier.SendCustomerConfirmation(ctx, l)
	if err != nil {
		return fmt.Errorf("failed to send customer confirmation: %w", err)
	}

	if err := l.MarkCustomerNotified(s.now()); err != nil {
		return err
	}
	l.IncrementVersion()
	if err := s.repo.Update(ctx, l); err != nil {
		return fmt.Errorf("failed to record customer notification: %w", err)
	}

	s.logger.Info("customer confirmation sent",
		zap.String("booking_reference", l.Reference()),
		zap.String("message_id", messageID),
	)
	return nil
}

func toLeadDTO(l *lead.Lead) LeadDTO {
	return LeadDTO{
		ID:               l.ID(),
		BookingReference: l.Reference(),
		Kind:             l.Kind().String(),
		Status:           l.Status().String(),
		StatusNote:       l.StatusNote(),
		GrandTotalPence:  int64(l.GrandTotal()),
		GrandTotal:       l.GrandTotal().String(),
		Currency:         l.Currency(),
		Draft:            l.Draft(),
		SubmittedAt:      l.SubmittedAt(),
		NotifiedAt:       l.NotifiedAt(),
		Version:          l.Version(),
		CreatedAt:        l.CreatedAt(),
		UpdatedAt:        l.UpdatedAt(),
	}
}
