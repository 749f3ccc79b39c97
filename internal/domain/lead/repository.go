package lead

import (
	"context"

	"github.com/google/uuid"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
)

// ListFilter narrows an admin lead listing. Zero values match everything.
type ListFilter struct {
	Status LeadStatus
	Kind   booking.BookingKind
}

// LeadRepository defines the persistence contract for lead aggregates.
type LeadRepository interface {
	// FindByID retrieves a lead by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)

	// FindByReference retrieves a lead by its booking reference.
	FindByReference(ctx context.Context, reference string) (*Lead, error)

	// List retrieves leads matching filter, newest first, with pagination.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Lead, int64, error)

	// CountByStatus returns lead counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new lead.
	Save(ctx context.Context, lead *Lead) error

	// Update persists changes to an existing lead with optimistic locking.
	Update(ctx context.Context, lead *Lead) error
}
