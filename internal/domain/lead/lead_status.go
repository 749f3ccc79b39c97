package lead

import "fmt"

// LeadStatus represents where a lead is in the follow-up pipeline.
type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusQuoted    LeadStatus = "quoted"
	StatusBooked    LeadStatus = "booked"
	StatusLost      LeadStatus = "lost"
	StatusSpam      LeadStatus = "spam"
)

// validTransitions defines the state machine for lead status transitions.
var validTransitions = map[LeadStatus][]LeadStatus{
	StatusNew:       {StatusContacted, StatusSpam},
	StatusContacted: {StatusQuoted, StatusLost},
	StatusQuoted:    {StatusBooked, StatusLost},
	StatusBooked:    {},
	StatusLost:      {},
	StatusSpam:      {},
}

// IsValid returns true if the status is a recognized lead status.
func (s LeadStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s LeadStatus) CanTransitionTo(target LeadStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s LeadStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

func (s LeadStatus) String() string {
	return string(s)
}

// ParseLeadStatus converts a string to a LeadStatus, returning an error if invalid.
func ParseLeadStatus(s string) (LeadStatus, error) {
	status := LeadStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid lead status: %s", s)
	}
	return status, nil
}

// AllStatuses lists every status in pipeline order.
func AllStatuses() []LeadStatus {
	return []LeadStatus{StatusNew, StatusContacted, StatusQuoted, StatusBooked, StatusLost, StatusSpam}
}
