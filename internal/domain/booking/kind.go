package booking

import "fmt"

// BookingKind is the mutually exclusive category of a request.
type BookingKind string

const (
	KindUnset          BookingKind = ""
	KindResidential    BookingKind = "residential"
	KindCustomQuote    BookingKind = "custom_quote"
	KindCommercial     BookingKind = "commercial"
	KindGeneralEnquiry BookingKind = "general_enquiry"
)

// IsValid returns true if the kind is one of the four selectable kinds.
func (k BookingKind) IsValid() bool {
	switch k {
	case KindResidential, KindCustomQuote, KindCommercial, KindGeneralEnquiry:
		return true
	}
	return false
}

// String returns the string representation of the kind.
func (k BookingKind) String() string {
	return string(k)
}

// Label returns a human-readable name used in emails.
func (k BookingKind) Label() string {
	switch k {
	case KindResidential:
		return "Residential booking"
	case KindCustomQuote:
		return "Custom residential quote"
	case KindCommercial:
		return "Commercial enquiry"
	case KindGeneralEnquiry:
		return "General enquiry"
	}
	return "Unknown"
}

// ParseBookingKind converts a string to a BookingKind, returning an error if invalid.
func ParseBookingKind(s string) (BookingKind, error) {
	k := BookingKind(s)
	if !k.IsValid() {
		return KindUnset, fmt.Errorf("invalid booking kind: %s", s)
	}
	return k, nil
}

// Frequency is how often a residential clean repeats.
type Frequency string

const (
	FrequencyFourWeekly   Frequency = "4_weekly"
	FrequencyEightWeekly  Frequency = "8_weekly"
	FrequencyTwelveWeekly Frequency = "12_weekly"
	FrequencyAdhoc        Frequency = "adhoc"
)

// IsValid returns true if the frequency is recognized.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyFourWeekly, FrequencyEightWeekly, FrequencyTwelveWeekly, FrequencyAdhoc:
		return true
	}
	return false
}

// Label returns a human-readable name used in emails.
func (f Frequency) Label() string {
	switch f {
	case FrequencyFourWeekly:
		return "Every 4 weeks"
	case FrequencyEightWeekly:
		return "Every 8 weeks"
	case FrequencyTwelveWeekly:
		return "Every 12 weeks"
	case FrequencyAdhoc:
		return "One-off clean"
	}
	return string(f)
}

// ContactMethod is how the customer prefers to be contacted.
type ContactMethod string

const (
	ContactByPhone ContactMethod = "phone"
	ContactByEmail ContactMethod = "email"
	ContactByText  ContactMethod = "text"
)

// IsValid returns true if the contact method is recognized.
func (m ContactMethod) IsValid() bool {
	switch m {
	case ContactByPhone, ContactByEmail, ContactByText:
		return true
	}
	return false
}

// CustomQuoteBedroomsBand is the bedrooms band that turns a residential
// booking into a custom quote.
const CustomQuoteBedroomsBand = "6+"
