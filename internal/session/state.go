package session

import (
	"fmt"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
)

// State is where a session is in the booking flow.
type State string

const (
	StateStep1      State = "step_1"
	StateStep2      State = "step_2"
	StateStep3      State = "step_3"
	StateSubmitting State = "submitting"
	StateConfirmed  State = "confirmed"
	StateFailed     State = "failed"
)

// validTransitions defines the state machine for session transitions.
var validTransitions = map[State][]State{
	StateStep1:      {StateStep2, StateStep3},
	StateStep2:      {StateStep3, StateStep1},
	StateStep3:      {StateStep2, StateStep1, StateSubmitting},
	StateSubmitting: {StateConfirmed, StateFailed},
	StateConfirmed:  {},
	StateFailed:     {StateStep3, StateSubmitting},
}

// IsValid returns true if the state is recognized.
func (s State) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this state to the target is allowed.
func (s State) CanTransitionTo(target State) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this state.
func (s State) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsEditing reports whether the user is on one of the interactive steps.
func (s State) IsEditing() bool {
	switch s {
	case StateStep1, StateStep2, StateStep3:
		return true
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// stateForStep maps an interactive step index to its state.
func stateForStep(step int) (State, error) {
	switch step {
	case booking.StepService:
		return StateStep1, nil
	case booking.StepAddOns:
		return StateStep2, nil
	case booking.StepContact:
		return StateStep3, nil
	}
	return "", fmt.Errorf("step %d is not interactive", step)
}
