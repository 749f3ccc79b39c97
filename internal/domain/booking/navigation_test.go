package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepNavigator_StandardResidentialVisitsAddOns(t *testing.T) {
	nav := NewStepNavigator()
	d := residentialDraft()

	assert.True(t, nav.IsStepApplicable(StepAddOns, d))
	assert.Equal(t, StepAddOns, nav.NextStep(StepService, d))
	assert.Equal(t, StepContact, nav.NextStep(StepAddOns, d))
	assert.Equal(t, StepConfirmation, nav.NextStep(StepContact, d))
	assert.Equal(t, StepAddOns, nav.PreviousStep(StepContact, d))
	assert.Equal(t, StepService, nav.PreviousStep(StepAddOns, d))
}

func TestStepNavigator_SkipsAddOnsForNonStandardKinds(t *testing.T) {
	nav := NewStepNavigator()

	custom := residentialDraft()
	custom.Service.BedroomsBand = CustomQuoteBedroomsBand

	enquiry := NewDraft()
	enquiry.Kind = KindGeneralEnquiry

	quote := NewDraft()
	quote.Kind = KindCustomQuote

	drafts := map[string]BookingDraft{
		"commercial":        commercialDraft(),
		"six plus bedrooms": custom,
		"general enquiry":   enquiry,
		"custom quote":      quote,
		"no kind yet":       NewDraft(),
	}

	for name, d := range drafts {
		t.Run(name, func(t *testing.T) {
			assert.False(t, nav.IsStepApplicable(StepAddOns, d))
			assert.Equal(t, StepContact, nav.NextStep(StepService, d))
			assert.Equal(t, StepService, nav.PreviousStep(StepContact, d))
		})
	}
}

func TestStepNavigator_Bounds(t *testing.T) {
	nav := NewStepNavigator()
	d := residentialDraft()

	assert.Equal(t, StepConfirmation, nav.NextStep(StepConfirmation, d))
	assert.Equal(t, StepConfirmation, nav.NextStep(42, d))
	assert.Equal(t, StepService, nav.PreviousStep(StepService, d))
	assert.Equal(t, StepService, nav.PreviousStep(-3, d))
	assert.Equal(t, StepService, nav.NextStep(0, d))
	assert.Equal(t, StepContact, nav.PreviousStep(StepConfirmation, commercialDraft()))
	assert.False(t, nav.IsStepApplicable(0, d))
	assert.False(t, nav.IsStepApplicable(5, d))
}
