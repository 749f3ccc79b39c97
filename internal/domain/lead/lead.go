package lead

import (
	"time"

	"github.com/google/uuid"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
)

// Lead is the aggregate root for a submitted booking or enquiry.
type Lead struct {
	id         uuid.UUID
	reference  string
	kind       booking.BookingKind
	status     LeadStatus
	draft      booking.BookingDraft
	statusNote string

	grandTotal booking.Money
	currency   string

	submittedAt time.Time
	notifiedAt  *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewLead creates a Lead with status=new from a sanitised, validated draft.
// The anti-automation token is never stored.
func NewLead(reference string, draft booking.BookingDraft, submittedAt time.Time) (*Lead, error) {
	if !booking.IsBookingReference(reference) {
		return nil, domain.NewValidationError("booking reference is malformed")
	}
	kind := draft.EffectiveKind()
	if !kind.IsValid() {
		return nil, domain.NewValidationError("booking kind is required")
	}
	if draft.Contact.Email == "" {
		return nil, domain.NewValidationError("contact email is required")
	}

	stored := draft.Clone()
	stored.AntiAutomationToken = ""
	at := submittedAt.UTC()
	stored.Submission = booking.Submission{
		IsSubmitted:      true,
		SubmittedAt:      &at,
		BookingReference: reference,
	}

	now := time.Now().UTC()
	return &Lead{
		id:          uuid.New(),
		reference:   reference,
		kind:        kind,
		status:      StatusNew,
		draft:       stored,
		grandTotal:  stored.Pricing.GrandTotal,
		currency:    domain.CurrencyGBP,
		submittedAt: at,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructLead rebuilds a Lead from persistence data (no validation).
func ReconstructLead(
	id uuid.UUID,
	reference string,
	kind booking.BookingKind,
	status LeadStatus,
	draft booking.BookingDraft,
	statusNote string,
	grandTotal booking.Money,
	currency string,
	submittedAt time.Time,
	notifiedAt *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Lead {
	return &Lead{
		id:          id,
		reference:   reference,
		kind:        kind,
		status:      status,
		draft:       draft,
		statusNote:  statusNote,
		grandTotal:  grandTotal,
		currency:    currency,
		submittedAt: submittedAt,
		notifiedAt:  notifiedAt,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

// ID returns the lead's unique identifier.
func (l *Lead) ID() uuid.UUID { return l.id }

// Reference returns the booking reference shown to the customer.
func (l *Lead) Reference() string { return l.reference }

// Kind returns the effective booking kind.
func (l *Lead) Kind() booking.BookingKind { return l.kind }

// Status returns the current lead status.
func (l *Lead) Status() LeadStatus { return l.status }

// Draft returns a copy of the submitted draft.
func (l *Lead) Draft() booking.BookingDraft { return l.draft.Clone() }

// Contact returns the customer's contact details.
func (l *Lead) Contact() booking.ContactDetails { return l.draft.Contact }

// StatusNote returns the note recorded with the last status change.
func (l *Lead) StatusNote() string { return l.statusNote }

// GrandTotal returns the server-computed total in pence.
func (l *Lead) GrandTotal() booking.Money { return l.grandTotal }

// Currency returns the currency code.
func (l *Lead) Currency() string { return l.currency }

// SubmittedAt returns the submission time.
func (l *Lead) SubmittedAt() time.Time { return l.submittedAt }

// NotifiedAt returns when the customer confirmation was sent, or nil.
func (l *Lead) NotifiedAt() *time.Time { return l.notifiedAt }

// Version returns the entity version for optimistic locking.
func (l *Lead) Version() int64 { return l.version }

// CreatedAt returns the creation timestamp.
func (l *Lead) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (l *Lead) UpdatedAt() time.Time { return l.updatedAt }

// --- Behavior ---

// UpdateStatus moves the lead along the pipeline.
func (l *Lead) UpdateStatus(target LeadStatus, note string) error {
	if !target.IsValid() {
		return domain.NewValidationError("invalid lead status: " + string(target))
	}
	if !l.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(l.status), string(target))
	}
	l.status = target
	l.statusNote = note
	l.updatedAt = time.Now().UTC()
	return nil
}

// MarkCustomerNotified records that the confirmation email went out.
func (l *Lead) MarkCustomerNotified(at time.Time) error {
	if l.notifiedAt != nil {
		return domain.NewConflictError("customer already notified for lead " + l.reference)
	}
	at = at.UTC()
	l.notifiedAt = &at
	l.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (l *Lead) IncrementVersion() {
	l.version++
	l.updatedAt = time.Now().UTC()
}
