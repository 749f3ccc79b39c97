package booking

import (
	"errors"
	"fmt"
	"time"
)

// ErrDraftFrozen is returned when a submitted draft is modified.
var ErrDraftFrozen = errors.New("draft has been submitted and can no longer be changed")

// ErrKindMismatch is returned when a detail update does not match the booking kind.
var ErrKindMismatch = errors.New("update does not apply to the selected booking kind")

// Update is one strongly typed change to a draft. The set of updates is
// closed; Apply is the only place they are interpreted.
type Update interface {
	isUpdate()
}

// SetBookingKind selects the booking kind. Switching kind discards the
// detail blocks of the other kinds.
type SetBookingKind struct{ Kind BookingKind }

// SetService replaces the residential service selection.
type SetService struct{ Selection ServiceSelection }

// SetPropertyFeatures sets the conservatory and extension flags.
type SetPropertyFeatures struct{ Features PropertyFeatures }

// AddOnKind names an add-on.
type AddOnKind string

const (
	AddOnGutterClearing     AddOnKind = "gutter_clearing"
	AddOnFasciaSoffitGutter AddOnKind = "fascia_soffit_gutter"
	AddOnConservatoryRoof   AddOnKind = "conservatory_roof"
)

// SetAddOn selects or deselects an add-on. Price is ignored for quote-only add-ons.
type SetAddOn struct {
	AddOn    AddOnKind
	Selected bool
	Price    Money
}

// ContactField names a contact input.
type ContactField string

const (
	ContactName                   ContactField = "name"
	ContactEmail                  ContactField = "email"
	ContactMobile                 ContactField = "mobile"
	ContactLandline               ContactField = "landline"
	ContactAddressLine1           ContactField = "addressLine1"
	ContactAddressLine2           ContactField = "addressLine2"
	ContactTownCity               ContactField = "townCity"
	ContactCounty                 ContactField = "county"
	ContactPostcode               ContactField = "postcode"
	ContactPreferredContactMethod ContactField = "preferredContactMethod"
	ContactPreferredContactTime   ContactField = "preferredContactTime"
)

// SetContactField sets one contact input.
type SetContactField struct {
	Field ContactField
	Value string
}

// CommercialField names a commercial text input.
type CommercialField string

const (
	CommercialCompanyName  CommercialField = "companyName"
	CommercialContactRole  CommercialField = "contactRole"
	CommercialPropertyType CommercialField = "propertyType"
	CommercialPropertySize CommercialField = "propertySize"
	CommercialFrequency    CommercialField = "frequency"
	CommercialRequirements CommercialField = "requirements"
)

// SetCommercialField sets one commercial text input.
type SetCommercialField struct {
	Field CommercialField
	Value string
}

// SetCommercialServices replaces the commercial service flags.
type SetCommercialServices struct{ Services CommercialServices }

// CustomResidentialField names a custom-quote text input.
type CustomResidentialField string

const (
	CustomPropertyStyle       CustomResidentialField = "propertyStyle"
	CustomFrequencyPreference CustomResidentialField = "frequencyPreference"
	CustomAdditionalInfo      CustomResidentialField = "additionalInfo"
)

// SetCustomResidentialField sets one custom-quote text input.
type SetCustomResidentialField struct {
	Field CustomResidentialField
	Value string
}

// SetCustomResidentialCounts sets the bedroom and window counts.
type SetCustomResidentialCounts struct {
	ExactBedrooms int
	ApproxWindows int
}

// SetCustomResidentialServices replaces the custom-quote service flags.
type SetCustomResidentialServices struct{ Services ServiceInterests }

// GeneralEnquiryField names a general enquiry text input.
type GeneralEnquiryField string

const (
	EnquiryRequestedFrequency GeneralEnquiryField = "requestedFrequency"
	EnquiryPropertyType       GeneralEnquiryField = "propertyType"
	EnquiryMessage            GeneralEnquiryField = "message"
)

// SetGeneralEnquiryField sets one general enquiry text input.
type SetGeneralEnquiryField struct {
	Field GeneralEnquiryField
	Value string
}

// SetGeneralEnquiryServices replaces the general enquiry service flags.
type SetGeneralEnquiryServices struct{ Services ServiceInterests }

// SetNotes replaces the access and booking notes.
type SetNotes struct{ Notes Notes }

// SetAntiAutomationToken stores the token from the challenge widget.
type SetAntiAutomationToken struct{ Token string }

func (SetBookingKind) isUpdate()               {}
func (SetService) isUpdate()                   {}
func (SetPropertyFeatures) isUpdate()          {}
func (SetAddOn) isUpdate()                     {}
func (SetContactField) isUpdate()              {}
func (SetCommercialField) isUpdate()           {}
func (SetCommercialServices) isUpdate()        {}
func (SetCustomResidentialField) isUpdate()    {}
func (SetCustomResidentialCounts) isUpdate()   {}
func (SetCustomResidentialServices) isUpdate() {}
func (SetGeneralEnquiryField) isUpdate()       {}
func (SetGeneralEnquiryServices) isUpdate()    {}
func (SetNotes) isUpdate()                     {}
func (SetAntiAutomationToken) isUpdate()       {}

// Apply returns a copy of draft with the update applied. The input draft is
// never modified. Pricing is not recomputed here.
func Apply(draft BookingDraft, u Update) (BookingDraft, error) {
	if draft.Submission.IsSubmitted {
		return draft, ErrDraftFrozen
	}
	if !appliesToKind(draft, u) {
		return draft, ErrKindMismatch
	}
	d := draft.Clone()

	switch op := u.(type) {
	case SetBookingKind:
		if !op.Kind.IsValid() {
			return draft, fmt.Errorf("invalid booking kind: %q", op.Kind)
		}
		if op.Kind != d.Kind {
			setKind(&d, op.Kind)
		}
	case SetService:
		sel := op.Selection
		sel.BasePrice = sel.BasePrice.NonNegative()
		d.Service = &sel
		if d.IsStandardResidential() {
			d.CustomResidential = nil
		} else if d.EffectiveKind() == KindCustomQuote && d.CustomResidential == nil {
			d.CustomResidential = &CustomResidentialDetails{}
		}
	case SetPropertyFeatures:
		d.Features = op.Features
	case SetAddOn:
		if err := setAddOn(&d, op); err != nil {
			return draft, err
		}
	case SetContactField:
		if err := setContactField(&d.Contact, op); err != nil {
			return draft, err
		}
	case SetCommercialField:
		if err := setCommercialField(commercialBlock(&d), op); err != nil {
			return draft, err
		}
	case SetCommercialServices:
		commercialBlock(&d).Services = op.Services
	case SetCustomResidentialField:
		if err := setCustomField(customBlock(&d), op); err != nil {
			return draft, err
		}
	case SetCustomResidentialCounts:
		block := customBlock(&d)
		block.ExactBedrooms = max(op.ExactBedrooms, 0)
		block.ApproxWindows = max(op.ApproxWindows, 0)
	case SetCustomResidentialServices:
		customBlock(&d).Services = op.Services
	case SetGeneralEnquiryField:
		if err := setEnquiryField(enquiryBlock(&d), op); err != nil {
			return draft, err
		}
	case SetGeneralEnquiryServices:
		enquiryBlock(&d).Services = op.Services
	case SetNotes:
		d.Notes = Notes{
			AccessNotes:  truncate(op.Notes.AccessNotes, MaxNoteLength),
			BookingNotes: truncate(op.Notes.BookingNotes, MaxNoteLength),
		}
	case SetAntiAutomationToken:
		d.AntiAutomationToken = op.Token
	default:
		return draft, fmt.Errorf("unsupported update %T", u)
	}

	if !d.IsStandardResidential() {
		d.AddOns = AddOns{}
	}
	return d, nil
}

// TouchedFields returns the form field keys an update writes to.
func TouchedFields(u Update) []string {
	switch op := u.(type) {
	case SetBookingKind:
		return []string{"bookingKind"}
	case SetService:
		return []string{"propertyType", "bedroomsBand", "frequency"}
	case SetPropertyFeatures:
		return []string{"hasConservatory", "hasExtension"}
	case SetAddOn:
		return []string{string(op.AddOn)}
	case SetContactField:
		return []string{string(op.Field)}
	case SetCommercialField:
		// Type and size are one descriptor; errors are reported under propertyType.
		if op.Field == CommercialPropertySize {
			return []string{"commercial." + string(CommercialPropertyType)}
		}
		return []string{"commercial." + string(op.Field)}
	case SetCommercialServices:
		return []string{"commercial.services"}
	case SetCustomResidentialField:
		return []string{"customResidential." + string(op.Field)}
	case SetCustomResidentialCounts:
		return []string{"customResidential.exactBedrooms", "customResidential.approxWindows"}
	case SetCustomResidentialServices:
		return []string{"customResidential.services"}
	case SetGeneralEnquiryField:
		return []string{"generalEnquiry." + string(op.Field)}
	case SetGeneralEnquiryServices:
		return []string{"generalEnquiry.services"}
	case SetNotes:
		return []string{"accessNotes", "bookingNotes"}
	case SetAntiAutomationToken:
		return []string{"antiAutomationToken"}
	}
	return nil
}

// MarkSubmitted records a successful submission and freezes the draft.
func MarkSubmitted(draft BookingDraft, reference string, at time.Time) (BookingDraft, error) {
	if draft.Submission.IsSubmitted {
		return draft, ErrDraftFrozen
	}
	d := draft.Clone()
	at = at.UTC()
	d.Submission = Submission{
		IsSubmitted:      true,
		SubmittedAt:      &at,
		BookingReference: reference,
	}
	return d, nil
}

func appliesToKind(d BookingDraft, u Update) bool {
	switch u.(type) {
	case SetCommercialField, SetCommercialServices:
		return d.Kind == KindCommercial
	case SetCustomResidentialField, SetCustomResidentialCounts, SetCustomResidentialServices:
		return d.EffectiveKind() == KindCustomQuote
	case SetGeneralEnquiryField, SetGeneralEnquiryServices:
		return d.Kind == KindGeneralEnquiry
	case SetService, SetPropertyFeatures:
		return d.Kind == KindResidential
	case SetAddOn:
		return d.IsStandardResidential()
	}
	return true
}

func setKind(d *BookingDraft, kind BookingKind) {
	d.Kind = kind
	d.Commercial = nil
	d.GeneralEnquiry = nil
	if kind != KindResidential {
		d.Service = nil
		d.Features = PropertyFeatures{}
	}

	switch d.EffectiveKind() {
	case KindCustomQuote:
		if d.CustomResidential == nil {
			d.CustomResidential = &CustomResidentialDetails{}
		}
	default:
		d.CustomResidential = nil
	}
	switch kind {
	case KindCommercial:
		d.Commercial = &CommercialDetails{}
	case KindGeneralEnquiry:
		d.GeneralEnquiry = &GeneralEnquiryDetails{}
	}
}

func setAddOn(d *BookingDraft, op SetAddOn) error {
	switch op.AddOn {
	case AddOnGutterClearing:
		d.AddOns.GutterClearing = PricedAddOn{Selected: op.Selected, Price: op.Price.NonNegative()}
	case AddOnFasciaSoffitGutter:
		d.AddOns.FasciaSoffitGutter = PricedAddOn{Selected: op.Selected, Price: op.Price.NonNegative()}
	case AddOnConservatoryRoof:
		d.AddOns.ConservatoryRoof = QuoteAddOn{Selected: op.Selected}
	default:
		return fmt.Errorf("unknown add-on: %q", op.AddOn)
	}
	return nil
}

func setContactField(c *ContactDetails, op SetContactField) error {
	switch op.Field {
	case ContactName:
		c.Name = op.Value
	case ContactEmail:
		c.Email = op.Value
	case ContactMobile:
		c.Mobile = op.Value
	case ContactLandline:
		c.Landline = op.Value
	case ContactAddressLine1:
		c.AddressLine1 = op.Value
	case ContactAddressLine2:
		c.AddressLine2 = op.Value
	case ContactTownCity:
		c.TownCity = op.Value
	case ContactCounty:
		c.County = op.Value
	case ContactPostcode:
		c.Postcode = op.Value
	case ContactPreferredContactMethod:
		c.PreferredContactMethod = ContactMethod(op.Value)
	case ContactPreferredContactTime:
		c.PreferredContactTime = op.Value
	default:
		return fmt.Errorf("unknown contact field: %q", op.Field)
	}
	return nil
}

func setCommercialField(c *CommercialDetails, op SetCommercialField) error {
	switch op.Field {
	case CommercialCompanyName:
		c.CompanyName = op.Value
	case CommercialContactRole:
		c.ContactRole = op.Value
	case CommercialPropertyType:
		c.PropertyType = op.Value
	case CommercialPropertySize:
		c.PropertySize = op.Value
	case CommercialFrequency:
		c.Frequency = op.Value
	case CommercialRequirements:
		c.Requirements = truncate(op.Value, MaxNoteLength)
	default:
		return fmt.Errorf("unknown commercial field: %q", op.Field)
	}
	return nil
}

func setCustomField(c *CustomResidentialDetails, op SetCustomResidentialField) error {
	switch op.Field {
	case CustomPropertyStyle:
		c.PropertyStyle = op.Value
	case CustomFrequencyPreference:
		c.FrequencyPreference = op.Value
	case CustomAdditionalInfo:
		c.AdditionalInfo = truncate(op.Value, MaxNoteLength)
	default:
		return fmt.Errorf("unknown custom quote field: %q", op.Field)
	}
	return nil
}

func setEnquiryField(g *GeneralEnquiryDetails, op SetGeneralEnquiryField) error {
	switch op.Field {
	case EnquiryRequestedFrequency:
		g.RequestedFrequency = op.Value
	case EnquiryPropertyType:
		g.PropertyType = op.Value
	case EnquiryMessage:
		g.Message = truncate(op.Value, MaxNoteLength)
	default:
		return fmt.Errorf("unknown enquiry field: %q", op.Field)
	}
	return nil
}

// commercialBlock returns the commercial details, creating them when absent.
func commercialBlock(d *BookingDraft) *CommercialDetails {
	if d.Commercial == nil {
		d.Commercial = &CommercialDetails{}
	}
	return d.Commercial
}

func customBlock(d *BookingDraft) *CustomResidentialDetails {
	if d.CustomResidential == nil {
		d.CustomResidential = &CustomResidentialDetails{}
	}
	return d.CustomResidential
}

func enquiryBlock(d *BookingDraft) *GeneralEnquiryDetails {
	if d.GeneralEnquiry == nil {
		d.GeneralEnquiry = &GeneralEnquiryDetails{}
	}
	return d.GeneralEnquiry
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
