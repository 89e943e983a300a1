package followup

import (
	"fmt"
	"strings"
)

// Priority is a client's follow-up priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
	PriorityVIP    Priority = "vip"
)

// Priorities lists every priority from lowest to highest cadence.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent, PriorityVIP}

// Follow-up cadence in days per priority.
const (
	UrgentFollowUpDays = 1
	VIPFollowUpDays    = 2
	HighFollowUpDays   = 3
	MediumFollowUpDays = 5
	LowFollowUpDays    = 7
)

// ParsePriority accepts any casing and surrounding whitespace.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent, PriorityVIP:
		return true
	}
	return false
}

// IsHighOrUrgent is true for high, urgent and vip.
func (p Priority) IsHighOrUrgent() bool {
	return p == PriorityHigh || p == PriorityUrgent || p == PriorityVIP
}

func (p Priority) String() string {
	return string(p)
}

// DaysForPriority returns the follow-up cadence. Unknown values get the low
// priority cadence.
func DaysForPriority(p Priority) int {
	switch p {
	case PriorityUrgent:
		return UrgentFollowUpDays
	case PriorityVIP:
		return VIPFollowUpDays
	case PriorityHigh:
		return HighFollowUpDays
	case PriorityMedium:
		return MediumFollowUpDays
	default:
		return LowFollowUpDays
	}
}
