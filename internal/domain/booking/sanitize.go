package booking

import "strings"

// Sanitize trims every text input, normalises the postcode and drops detail
// blocks and extras that do not belong to the draft's kind. The result is
// what gets sent and stored.
func Sanitize(draft BookingDraft) BookingDraft {
	d := draft.Clone()

	c := &d.Contact
	c.Name = collapseSpaces(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Mobile = strings.TrimSpace(c.Mobile)
	c.Landline = strings.TrimSpace(c.Landline)
	c.AddressLine1 = strings.TrimSpace(c.AddressLine1)
	c.AddressLine2 = strings.TrimSpace(c.AddressLine2)
	c.TownCity = strings.TrimSpace(c.TownCity)
	c.County = strings.TrimSpace(c.County)
	c.Postcode = strings.ToUpper(strings.TrimSpace(c.Postcode))
	c.PreferredContactTime = strings.TrimSpace(c.PreferredContactTime)
	if !c.PreferredContactMethod.IsValid() {
		c.PreferredContactMethod = ContactByPhone
	}

	d.Notes.AccessNotes = truncate(strings.TrimSpace(d.Notes.AccessNotes), MaxNoteLength)
	d.Notes.BookingNotes = truncate(strings.TrimSpace(d.Notes.BookingNotes), MaxNoteLength)
	d.AntiAutomationToken = strings.TrimSpace(d.AntiAutomationToken)

	if d.Kind != KindResidential {
		d.Service = nil
		d.Features = PropertyFeatures{}
	} else if d.Service != nil {
		d.Service.PropertyType = strings.TrimSpace(d.Service.PropertyType)
		d.Service.BedroomsBand = strings.TrimSpace(d.Service.BedroomsBand)
	}
	if !d.IsStandardResidential() {
		d.AddOns = AddOns{}
	}

	if d.Kind == KindCommercial && d.Commercial != nil {
		d.Commercial.CompanyName = strings.TrimSpace(d.Commercial.CompanyName)
		d.Commercial.ContactRole = strings.TrimSpace(d.Commercial.ContactRole)
		d.Commercial.PropertyType = strings.TrimSpace(d.Commercial.PropertyType)
		d.Commercial.PropertySize = strings.TrimSpace(d.Commercial.PropertySize)
		d.Commercial.Frequency = strings.TrimSpace(d.Commercial.Frequency)
		d.Commercial.Requirements = truncate(strings.TrimSpace(d.Commercial.Requirements), MaxNoteLength)
	} else {
		d.Commercial = nil
	}

	if d.EffectiveKind() == KindCustomQuote && d.CustomResidential != nil {
		d.CustomResidential.PropertyStyle = strings.TrimSpace(d.CustomResidential.PropertyStyle)
		d.CustomResidential.FrequencyPreference = strings.TrimSpace(d.CustomResidential.FrequencyPreference)
		d.CustomResidential.AdditionalInfo = truncate(strings.TrimSpace(d.CustomResidential.AdditionalInfo), MaxNoteLength)
	} else {
		d.CustomResidential = nil
	}

	if d.Kind == KindGeneralEnquiry && d.GeneralEnquiry != nil {
		d.GeneralEnquiry.RequestedFrequency = strings.TrimSpace(d.GeneralEnquiry.RequestedFrequency)
		d.GeneralEnquiry.PropertyType = strings.TrimSpace(d.GeneralEnquiry.PropertyType)
		d.GeneralEnquiry.Message = truncate(strings.TrimSpace(d.GeneralEnquiry.Message), MaxNoteLength)
	} else {
		d.GeneralEnquiry = nil
	}

	return d
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
