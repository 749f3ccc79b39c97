package booking

// Form steps.
const (
	StepService      = 1
	StepAddOns       = 2
	StepContact      = 3
	StepConfirmation = 4

	// LastInteractiveStep is the final step with inputs.
	LastInteractiveStep = StepContact
)

// StepNavigator decides which step comes next given the draft so far.
type StepNavigator struct{}

// NewStepNavigator creates a new StepNavigator.
func NewStepNavigator() *StepNavigator {
	return &StepNavigator{}
}

// IsStepApplicable reports whether the step is shown for this draft. The
// add-ons step only applies to standard residential bookings; until a kind is
// chosen it is skipped.
func (n *StepNavigator) IsStepApplicable(step int, draft BookingDraft) bool {
	switch step {
	case StepService, StepContact, StepConfirmation:
		return true
	case StepAddOns:
		return draft.IsStandardResidential()
	}
	return false
}

// NextStep returns the next applicable step, never beyond the confirmation step.
func (n *StepNavigator) NextStep(current int, draft BookingDraft) int {
	if current < StepService {
		current = StepService - 1
	}
	next := current + 1
	for next <= LastInteractiveStep && !n.IsStepApplicable(next, draft) {
		next++
	}
	if next > StepConfirmation {
		return StepConfirmation
	}
	return next
}

// PreviousStep returns the previous applicable step, never below the first step.
func (n *StepNavigator) PreviousStep(current int, draft BookingDraft) int {
	if current > StepConfirmation {
		current = StepConfirmation + 1
	}
	prev := current - 1
	for prev >= StepService && !n.IsStepApplicable(prev, draft) {
		prev--
	}
	if prev < StepService {
		return StepService
	}
	return prev
}
