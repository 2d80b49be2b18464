package domain

import "strings"

var transitions = map[Status][]Status{
	StatusSubmitted:      {StatusVerified, StatusRejected},
	StatusVerified:       {StatusApproved, StatusRejected},
	StatusApproved:       {StatusMeterScheduled, StatusRejected},
	StatusMeterScheduled: {StatusInstalled, StatusRejected},
	StatusInstalled:      {StatusConnected, StatusRejected},
}

// fieldStatuses may be reached by field work without an explicit review step.
var fieldStatuses = map[Status]struct{}{
	StatusMeterScheduled: {},
	StatusInstalled:      {},
}

var lifecycleRank = map[Status]int{
	StatusSubmitted:      1,
	StatusVerified:       2,
	StatusApproved:       3,
	StatusMeterScheduled: 4,
	StatusInstalled:      5,
	StatusConnected:      6,
}

func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, candidate := range AllStatuses {
		if candidate == status {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether no transition leaves the status.
func (s Status) IsTerminal() bool {
	return s == StatusConnected || s == StatusRejected
}

func CanTransition(from Status, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidateTransition(from Status, to Status) error {
	if _, ok := ParseStatus(string(to)); !ok {
		return ErrInvalidStatus
	}
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}

// Reached reports whether current is at or past target on the main lifecycle line.
func Reached(current Status, target Status) bool {
	currentRank, ok := lifecycleRank[current]
	if !ok {
		return false
	}
	targetRank, ok := lifecycleRank[target]
	if !ok {
		return false
	}
	return currentRank >= targetRank
}

// FieldPath returns the steps from current to target when every step is a field-work status.
func FieldPath(current Status, target Status) ([]Status, error) {
	if _, ok := fieldStatuses[target]; !ok {
		return nil, ErrInvalidTransition
	}
	var path []Status
	for step := current; step != target; {
		var next Status
		for _, candidate := range transitions[step] {
			if _, ok := fieldStatuses[candidate]; ok {
				next = candidate
				break
			}
		}
		if next == "" {
			return nil, ErrInvalidTransition
		}
		path = append(path, next)
		step = next
	}
	return path, nil
}

func ParsePriority(value string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(value))) {
	case PriorityNormal:
		return PriorityNormal, true
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityUrgent:
		return PriorityUrgent, true
	default:
		return "", false
	}
}
