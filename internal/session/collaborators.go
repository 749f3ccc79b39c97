package session

import (
	"context"
	"time"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
)

// SubmissionResult is what the submission backend reports for one submit call.
type SubmissionResult struct {
	Success          bool                  `json:"success"`
	BookingReference string                `json:"booking_reference,omitempty"`
	SubmittedAt      time.Time             `json:"submitted_at"`
	Pricing          booking.PricingResult `json:"pricing"`
	Error            string                `json:"error,omitempty"`
	FieldErrors      map[string]string     `json:"field_errors,omitempty"`
}

// Submitter sends a sanitised draft to the backend. It is called exactly once
// per accepted submit.
type Submitter interface {
	Submit(ctx context.Context, draft booking.BookingDraft) (SubmissionResult, error)
}

// SavedDraft is an in-progress draft as kept by a DraftStore.
type SavedDraft struct {
	Draft   booking.BookingDraft `json:"draft"`
	Step    int                  `json:"step"`
	SavedAt time.Time            `json:"saved_at"`
}

// DraftStore keeps in-progress drafts so a returning visitor can resume.
// Load returns nil, nil when nothing is stored.
type DraftStore interface {
	Save(ctx context.Context, key string, saved SavedDraft) error
	Load(ctx context.Context, key string) (*SavedDraft, error)
	Clear(ctx context.Context, key string) error
}

// Analytics receives observational form events.
type Analytics interface {
	Track(ctx context.Context, event Event)
}

// Timer is a cancellable handle for a scheduled task.
type Timer interface {
	Stop() bool
}

// Scheduler runs a task once after a delay.
type Scheduler interface {
	Schedule(delay time.Duration, task func()) Timer
}
