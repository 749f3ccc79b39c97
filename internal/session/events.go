package session

import (
	"time"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
)

// EventType names an analytics event.
type EventType string

const (
	EventStepView      EventType = "step_view"
	EventStepComplete  EventType = "step_complete"
	EventStepBack      EventType = "step_back"
	EventSubmitAttempt EventType = "submit_attempt"
	EventSubmitInvalid EventType = "submit_invalid"
	EventSubmitSuccess EventType = "submit_success"
	EventSubmitFailure EventType = "submit_failure"
	EventFormReset     EventType = "form_reset"
)

// Event is one observational form event.
type Event struct {
	Type                 EventType           `json:"type"`
	Step                 int                 `json:"step"`
	Timestamp            time.Time           `json:"timestamp"`
	FieldCompletionCount int                 `json:"field_completion_count"`
	SessionKey           string              `json:"session_key,omitempty"`
	BookingKind          booking.BookingKind `json:"booking_kind,omitempty"`
}
