package booking

import "time"

// MaxNoteLength caps access and booking notes.
const MaxNoteLength = 500

// ServiceSelection is the residential service chosen in step 1.
type ServiceSelection struct {
	PropertyType string    `json:"property_type"`
	BedroomsBand string    `json:"bedrooms_band"`
	Frequency    Frequency `json:"frequency"`
	BasePrice    Money     `json:"base_price"`
}

// IsCustomQuoteBand reports whether the bedrooms band requires a custom quote.
func (s *ServiceSelection) IsCustomQuoteBand() bool {
	return s != nil && s.BedroomsBand == CustomQuoteBedroomsBand
}

// PropertyFeatures are the property attributes that carry a surcharge.
type PropertyFeatures struct {
	HasConservatory bool `json:"has_conservatory"`
	HasExtension    bool `json:"has_extension"`
}

// PricedAddOn is an add-on with a price.
type PricedAddOn struct {
	Selected bool  `json:"selected"`
	Price    Money `json:"price"`
}

// QuoteAddOn is an add-on that is quoted separately and never priced in the form.
type QuoteAddOn struct {
	Selected bool `json:"selected"`
}

// AddOns holds the optional extras offered in step 2.
type AddOns struct {
	GutterClearing     PricedAddOn `json:"gutter_clearing"`
	FasciaSoffitGutter PricedAddOn `json:"fascia_soffit_gutter"`
	ConservatoryRoof   QuoteAddOn  `json:"conservatory_roof"`
}

// PricingResult is the derived price breakdown.
type PricingResult struct {
	SubtotalBeforeDiscount Money `json:"subtotal_before_discount"`
	ConservatorySurcharge  Money `json:"conservatory_surcharge"`
	ExtensionSurcharge     Money `json:"extension_surcharge"`
	Discount               Money `json:"discount"`
	GrandTotal             Money `json:"grand_total"`
}

// ContactDetails is the customer's contact information.
type ContactDetails struct {
	Name                   string        `json:"name"`
	Email                  string        `json:"email"`
	Mobile                 string        `json:"mobile"`
	Landline               string        `json:"landline,omitempty"`
	AddressLine1           string        `json:"address_line1"`
	AddressLine2           string        `json:"address_line2,omitempty"`
	TownCity               string        `json:"town_city"`
	County                 string        `json:"county,omitempty"`
	Postcode               string        `json:"postcode"`
	PreferredContactMethod ContactMethod `json:"preferred_contact_method"`
	PreferredContactTime   string        `json:"preferred_contact_time,omitempty"`
}

// ServiceInterests are the services a residential customer is asking about.
type ServiceInterests struct {
	WindowCleaning       bool `json:"window_cleaning"`
	GutterClearing       bool `json:"gutter_clearing"`
	FasciaSoffitGutter   bool `json:"fascia_soffit_gutter"`
	ConservatoryCleaning bool `json:"conservatory_cleaning"`
	SolarPanelCleaning   bool `json:"solar_panel_cleaning"`
	Other                bool `json:"other"`
}

// Any reports whether at least one service is requested.
func (s ServiceInterests) Any() bool {
	return s.WindowCleaning || s.GutterClearing || s.FasciaSoffitGutter ||
		s.ConservatoryCleaning || s.SolarPanelCleaning || s.Other
}

// CommercialServices are the services a business is asking about.
type CommercialServices struct {
	WindowCleaning     bool `json:"window_cleaning"`
	GutterClearing     bool `json:"gutter_clearing"`
	CladdingCleaning   bool `json:"cladding_cleaning"`
	SignageCleaning    bool `json:"signage_cleaning"`
	SolarPanelCleaning bool `json:"solar_panel_cleaning"`
	Other              bool `json:"other"`
}

// Any reports whether at least one service is requested.
func (s CommercialServices) Any() bool {
	return s.WindowCleaning || s.GutterClearing || s.CladdingCleaning ||
		s.SignageCleaning || s.SolarPanelCleaning || s.Other
}

// CommercialDetails is filled in for commercial enquiries.
type CommercialDetails struct {
	CompanyName  string             `json:"company_name"`
	ContactRole  string             `json:"contact_role,omitempty"`
	PropertyType string             `json:"property_type"`
	PropertySize string             `json:"property_size"`
	Services     CommercialServices `json:"services"`
	Frequency    string             `json:"frequency,omitempty"`
	Requirements string             `json:"requirements,omitempty"`
}

// CustomResidentialDetails is filled in for larger homes that need a custom quote.
type CustomResidentialDetails struct {
	ExactBedrooms       int              `json:"exact_bedrooms"`
	ApproxWindows       int              `json:"approx_windows"`
	PropertyStyle       string           `json:"property_style"`
	FrequencyPreference string           `json:"frequency_preference"`
	Services            ServiceInterests `json:"services"`
	AdditionalInfo      string           `json:"additional_info,omitempty"`
}

// GeneralEnquiryDetails is filled in for general enquiries.
type GeneralEnquiryDetails struct {
	Services           ServiceInterests `json:"services"`
	RequestedFrequency string           `json:"requested_frequency"`
	PropertyType       string           `json:"property_type,omitempty"`
	Message            string           `json:"message,omitempty"`
}

// Notes are free-text notes left by the customer.
type Notes struct {
	AccessNotes  string `json:"access_notes,omitempty"`
	BookingNotes string `json:"booking_notes,omitempty"`
}

// Submission records the outcome of a successful submit.
type Submission struct {
	IsSubmitted      bool       `json:"is_submitted"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	BookingReference string     `json:"booking_reference,omitempty"`
}

// BookingDraft is the in-progress booking or enquiry built across the form steps.
type BookingDraft struct {
	Kind                BookingKind               `json:"kind"`
	Service             *ServiceSelection         `json:"service,omitempty"`
	Features            PropertyFeatures          `json:"features"`
	AddOns              AddOns                    `json:"add_ons"`
	Pricing             PricingResult             `json:"pricing"`
	Contact             ContactDetails            `json:"contact"`
	Commercial          *CommercialDetails        `json:"commercial,omitempty"`
	CustomResidential   *CustomResidentialDetails `json:"custom_residential,omitempty"`
	GeneralEnquiry      *GeneralEnquiryDetails    `json:"general_enquiry,omitempty"`
	Notes               Notes                     `json:"notes"`
	AntiAutomationToken string                    `json:"anti_automation_token,omitempty"`
	Submission          Submission                `json:"submission"`
}

// NewDraft returns an empty draft.
func NewDraft() BookingDraft {
	return BookingDraft{
		Contact: ContactDetails{PreferredContactMethod: ContactByPhone},
	}
}

// EffectiveKind folds a residential booking in the custom-quote bedrooms band
// into KindCustomQuote.
func (d BookingDraft) EffectiveKind() BookingKind {
	if d.Kind == KindResidential && d.Service.IsCustomQuoteBand() {
		return KindCustomQuote
	}
	return d.Kind
}

// IsStandardResidential reports whether the draft is a priced residential booking.
func (d BookingDraft) IsStandardResidential() bool {
	return d.EffectiveKind() == KindResidential
}

// BasePrice returns the service base price, or zero when the draft is not a
// standard residential booking.
func (d BookingDraft) BasePrice() Money {
	if !d.IsStandardResidential() || d.Service == nil {
		return 0
	}
	return d.Service.BasePrice.NonNegative()
}

// Clone returns a deep copy so pointer fields are not shared.
func (d BookingDraft) Clone() BookingDraft {
	out := d
	if d.Service != nil {
		s := *d.Service
		out.Service = &s
	}
	if d.Commercial != nil {
		c := *d.Commercial
		out.Commercial = &c
	}
	if d.CustomResidential != nil {
		c := *d.CustomResidential
		out.CustomResidential = &c
	}
	if d.GeneralEnquiry != nil {
		g := *d.GeneralEnquiry
		out.GeneralEnquiry = &g
	}
	if d.Submission.SubmittedAt != nil {
		t := *d.Submission.SubmittedAt
		out.Submission.SubmittedAt = &t
	}
	return out
}
