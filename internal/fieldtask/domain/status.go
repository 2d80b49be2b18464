package domain

import "strings"

type TaskStatus string

const (
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusAccepted   TaskStatus = "accepted"
	TaskStatusOnTheWay   TaskStatus = "on_the_way"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusVerified   TaskStatus = "verified"
)

// statusRank orders statuses for listings; lower ranks are served first.
var statusRank = map[TaskStatus]int{
	TaskStatusAssigned:   1,
	TaskStatusAccepted:   2,
	TaskStatusOnTheWay:   3,
	TaskStatusInProgress: 4,
	TaskStatusCompleted:  5,
	TaskStatusVerified:   5,
}

func ParseTaskStatus(value string) (TaskStatus, bool) {
	status := TaskStatus(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := statusRank[status]; !ok {
		return "", false
	}
	return status, true
}

func (s TaskStatus) Rank() int {
	return statusRank[s]
}

// IsOpen reports whether the task still counts toward a staff member's workload.
func (s TaskStatus) IsOpen() bool {
	return s != TaskStatusCompleted && s != TaskStatusVerified
}

// ValidateTransition allows skipping forward but never moving back.
// Completed may only move to verified, and verified is terminal.
func ValidateTransition(from TaskStatus, to TaskStatus) error {
	if _, ok := statusRank[to]; !ok {
		return ErrInvalidStatus
	}
	if from == to {
		return nil
	}
	switch {
	case from == TaskStatusVerified:
		return ErrInvalidTransition
	case from == TaskStatusCompleted:
		if to != TaskStatusVerified {
			return ErrInvalidTransition
		}
		return nil
	case to == TaskStatusVerified:
		return ErrInvalidTransition
	}
	if to.Rank() < from.Rank() {
		return ErrInvalidTransition
	}
	return nil
}
