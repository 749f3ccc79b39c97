package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustApply(t *testing.T, d BookingDraft, updates ...Update) BookingDraft {
	t.Helper()
	var err error
	for _, u := range updates {
		d, err = Apply(d, u)
		require.NoError(t, err, "apply %T", u)
	}
	return d
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	original := residentialDraft()
	updated := mustApply(t, original, SetService{Selection: ServiceSelection{
		PropertyType: "detached", BedroomsBand: "4", Frequency: FrequencyFourWeekly, BasePrice: 3000,
	}})

	assert.Equal(t, "semi-detached", original.Service.PropertyType)
	assert.Equal(t, "detached", updated.Service.PropertyType)
}

func TestApply_KindIsExclusive(t *testing.T) {
	d := mustApply(t, NewDraft(),
		SetBookingKind{Kind: KindCommercial},
		SetCommercialField{Field: CommercialCompanyName, Value: "Acme"},
	)
	require.NotNil(t, d.Commercial)
	assert.Equal(t, "Acme", d.Commercial.CompanyName)

	d = mustApply(t, d, SetBookingKind{Kind: KindGeneralEnquiry})
	assert.Equal(t, KindGeneralEnquiry, d.Kind)
	assert.Nil(t, d.Commercial)
	assert.Nil(t, d.CustomResidential)
	assert.NotNil(t, d.GeneralEnquiry)

	d = mustApply(t, d, SetBookingKind{Kind: KindCustomQuote})
	assert.Nil(t, d.GeneralEnquiry)
	assert.NotNil(t, d.CustomResidential)
}

func TestApply_SameKindKeepsDetails(t *testing.T) {
	d := mustApply(t, NewDraft(),
		SetBookingKind{Kind: KindCommercial},
		SetCommercialField{Field: CommercialCompanyName, Value: "Acme"},
		SetBookingKind{Kind: KindCommercial},
	)
	assert.Equal(t, "Acme", d.Commercial.CompanyName)
}

func TestApply_DetailUpdateForOtherKindIsRejected(t *testing.T) {
	d := residentialDraft()

	_, err := Apply(d, SetCommercialField{Field: CommercialCompanyName, Value: "Acme"})
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = Apply(d, SetGeneralEnquiryServices{Services: ServiceInterests{Other: true}})
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = Apply(commercialDraft(), SetAddOn{AddOn: AddOnGutterClearing, Selected: true, Price: 1000})
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestApply_SixPlusBedroomsBecomesCustomQuote(t *testing.T) {
	d := residentialDraft()
	d = mustApply(t, d, SetAddOn{AddOn: AddOnGutterClearing, Selected: true, Price: 1000})
	require.True(t, d.AddOns.GutterClearing.Selected)

	d = mustApply(t, d, SetService{Selection: ServiceSelection{PropertyType: "detached", BedroomsBand: CustomQuoteBedroomsBand}})
	assert.Equal(t, KindCustomQuote, d.EffectiveKind())
	assert.NotNil(t, d.CustomResidential)
	assert.False(t, d.AddOns.GutterClearing.Selected)

	d = mustApply(t, d, SetCustomResidentialCounts{ExactBedrooms: 7, ApproxWindows: -2})
	assert.Equal(t, 7, d.CustomResidential.ExactBedrooms)
	assert.Equal(t, 0, d.CustomResidential.ApproxWindows)
}

func TestApply_LeavingResidentialClearsPricedInputs(t *testing.T) {
	d := residentialDraft()
	d = mustApply(t, d,
		SetPropertyFeatures{Features: PropertyFeatures{HasConservatory: true}},
		SetAddOn{AddOn: AddOnFasciaSoffitGutter, Selected: true, Price: 1000},
		SetBookingKind{Kind: KindCommercial},
	)
	assert.Nil(t, d.Service)
	assert.Equal(t, PropertyFeatures{}, d.Features)
	assert.Equal(t, AddOns{}, d.AddOns)
}

func TestApply_ContactAndNotes(t *testing.T) {
	d := mustApply(t, NewDraft(),
		SetContactField{Field: ContactEmail, Value: "a@b.co"},
		SetContactField{Field: ContactPreferredContactMethod, Value: "text"},
		SetNotes{Notes: Notes{AccessNotes: strings.Repeat("n", MaxNoteLength+20)}},
		SetAntiAutomationToken{Token: "tok"},
	)
	assert.Equal(t, "a@b.co", d.Contact.Email)
	assert.Equal(t, ContactByText, d.Contact.PreferredContactMethod)
	assert.Len(t, d.Notes.AccessNotes, MaxNoteLength)
	assert.Equal(t, "tok", d.AntiAutomationToken)

	_, err := Apply(d, SetContactField{Field: "shoeSize", Value: "9"})
	assert.Error(t, err)

	_, err = Apply(d, SetBookingKind{Kind: "holiday"})
	assert.Error(t, err)
}

func TestApply_SubmittedDraftIsFrozen(t *testing.T) {
	d, err := MarkSubmitted(residentialDraft(), "SWC-1700000000000-ABCDEF01", time.Now())
	require.NoError(t, err)
	assert.True(t, d.Submission.IsSubmitted)
	assert.NotNil(t, d.Submission.SubmittedAt)

	_, err = Apply(d, SetContactField{Field: ContactName, Value: "Someone Else"})
	assert.ErrorIs(t, err, ErrDraftFrozen)

	_, err = MarkSubmitted(d, "SWC-1700000000001-ABCDEF02", time.Now())
	assert.ErrorIs(t, err, ErrDraftFrozen)
}

func TestTouchedFields(t *testing.T) {
	assert.Equal(t, []string{"email"}, TouchedFields(SetContactField{Field: ContactEmail}))
	assert.Equal(t, []string{"commercial.companyName"}, TouchedFields(SetCommercialField{Field: CommercialCompanyName}))
	assert.Equal(t, []string{"antiAutomationToken"}, TouchedFields(SetAntiAutomationToken{}))
	assert.Equal(t, []string{"commercial.propertyType"}, TouchedFields(SetCommercialField{Field: CommercialPropertySize}))
	assert.Equal(t, []string{"commercial.propertyType"}, TouchedFields(SetCommercialField{Field: CommercialPropertyType}))
}

func TestAffectsPrice(t *testing.T) {
	assert.True(t, AffectsPrice(SetAddOn{}))
	assert.True(t, AffectsPrice(SetService{}))
	assert.True(t, AffectsPrice(SetBookingKind{}))
	assert.False(t, AffectsPrice(SetContactField{}))
	assert.False(t, AffectsPrice(SetNotes{}))
}

func TestSanitize(t *testing.T) {
	d := commercialDraft()
	d.Contact.Name = "  Mary   Smith "
	d.Contact.Email = " Mary@Example.CO.UK "
	d.Contact.Postcode = "ls1 4ab"
	d.Contact.PreferredContactMethod = ""
	d.CustomResidential = &CustomResidentialDetails{ExactBedrooms: 3}
	d.GeneralEnquiry = &GeneralEnquiryDetails{Message: "stray"}

	s := Sanitize(d)
	assert.Equal(t, "Mary Smith", s.Contact.Name)
	assert.Equal(t, "mary@example.co.uk", s.Contact.Email)
	assert.Equal(t, "LS1 4AB", s.Contact.Postcode)
	assert.Equal(t, ContactByPhone, s.Contact.PreferredContactMethod)
	assert.Nil(t, s.CustomResidential)
	assert.Nil(t, s.GeneralEnquiry)
	assert.NotNil(t, s.Commercial)

	// input untouched
	assert.Equal(t, "  Mary   Smith ", d.Contact.Name)
}

func TestGenerateBookingReference(t *testing.T) {
	now := time.UnixMilli(1718000000123)
	ref, err := GenerateBookingReference(now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "SWC-1718000000123-"))
	assert.True(t, IsBookingReference(ref), ref)
	assert.Len(t, ref, len("SWC-1718000000123-")+8)

	other, err := GenerateBookingReference(now)
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)
	assert.False(t, IsBookingReference("BK-ABC123"))
}
