package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
	leadDomain "github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/lead"
)

// LeadModel is the GORM model for the leads table.
type LeadModel struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Reference       string         `gorm:"uniqueIndex;not null;size:40"`
	Kind            string         `gorm:"not null;size:30;index"`
	Status          string         `gorm:"not null;size:20;index"`
	ContactName     string         `gorm:"not null;size:100"`
	ContactEmail    string         `gorm:"not null;size:254;index"`
	Postcode        string         `gorm:"size:10"`
	Draft           datatypes.JSON `gorm:"type:jsonb;not null"`
	GrandTotalPence int64          `gorm:"not null;default:0"`
	Currency        string         `gorm:"not null;size:3;default:'GBP'"`
	StatusNote      string         `gorm:"size:500"`
	SubmittedAt     time.Time      `gorm:"not null"`
	NotifiedAt      *time.Time     `gorm:""`
	Version         int64          `gorm:"not null;default:1"`
	CreatedAt       time.Time      `gorm:"not null;index"`
	UpdatedAt       time.Time      `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (LeadModel) TableName() string {
	return "leads"
}

// GormLeadRepository is the GORM-based implementation of LeadRepository.
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository.
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID retrieves a lead by its unique identifier.
func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*leadDomain.Lead, error) {
	var model LeadModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Lead", id.String())
		}
		return nil, fmt.Errorf("failed to find lead by ID: %w", err)
	}
	return toDomainLead(&model)
}

// FindByReference retrieves a lead by its booking reference.
func (r *GormLeadRepository) FindByReference(ctx context.Context, reference string) (*leadDomain.Lead, error) {
	var model LeadModel
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Lead", reference)
		}
		return nil, fmt.Errorf("failed to find lead by reference: %w", err)
	}
	return toDomainLead(&model)
}

// List retrieves leads matching filter, newest first, with pagination.
func (r *GormLeadRepository) List(ctx context.Context, filter leadDomain.ListFilter, page, limit int) ([]*leadDomain.Lead, int64, error) {
	query := r.db.WithContext(ctx).Model(&LeadModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Kind != booking.KindUnset {
		query = query.Where("kind = ?", string(filter.Kind))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	var models []LeadModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	leads := make([]*leadDomain.Lead, len(models))
	for i := range models {
		l, err := toDomainLead(&models[i])
		if err != nil {
			return nil, 0, err
		}
		leads[i] = l
	}

	return leads, total, nil
}

// CountByStatus returns lead counts grouped by status.
func (r *GormLeadRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&LeadModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new lead.
func (r *GormLeadRepository) Save(ctx context.Context, l *leadDomain.Lead) error {
	model, err := toLeadModel(l)
	if err != nil {
		return fmt.Errorf("failed to convert lead to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("lead with reference " + l.Reference() + " already exists")
		}
		return fmt.Errorf("failed to save lead: %w", err)
	}
	return nil
}

// Update persists changes to an existing lead with optimistic locking.
// The caller must have called IncrementVersion.
func (r *GormLeadRepository) Update(ctx context.Context, l *leadDomain.Lead) error {
	model, err := toLeadModel(l)
	if err != nil {
		return fmt.Errorf("failed to convert lead to model: %w", err)
	}

	expectedVersion := l.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&LeadModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":      model.Status,
			"status_note": model.StatusNote,
			"notified_at": model.NotifiedAt,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update lead: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("lead was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toLeadModel(l *leadDomain.Lead) (*LeadModel, error) {
	draftJSON, err := json.Marshal(l.Draft())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft: %w", err)
	}

	contact := l.Contact()
	return &LeadModel{
		ID:              l.ID(),
		Reference:       l.Reference(),
		Kind:            string(l.Kind()),
		Status:          string(l.Status()),
		ContactName:     contact.Name,
		ContactEmail:    contact.Email,
		Postcode:        contact.Postcode,
		Draft:           datatypes.JSON(draftJSON),
		GrandTotalPence: int64(l.GrandTotal()),
		Currency:        l.Currency(),
		StatusNote:      l.StatusNote(),
		SubmittedAt:     l.SubmittedAt(),
		NotifiedAt:      l.NotifiedAt(),
		Version:         l.Version(),
		CreatedAt:       l.CreatedAt(),
		UpdatedAt:       l.UpdatedAt(),
	}, nil
}

func toDomainLead(m *LeadModel) (*leadDomain.Lead, error) {
	var draft booking.BookingDraft
	if err := json.Unmarshal(m.Draft, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}

	status, err := leadDomain.ParseLeadStatus(m.Status)
	if err != nil {
		return nil, err
	}
	kind, err := booking.ParseBookingKind(m.Kind)
	if err != nil {
		return nil, err
	}

	return leadDomain.ReconstructLead(
		m.ID,
		m.Reference,
		kind,
		status,
		draft,
		m.StatusNote,
		booking.Money(m.GrandTotalPence),
		m.Currency,
		m.SubmittedAt,
		m.NotifiedAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
