package tasks

import (
	"errors"
	"fmt"
)

var (
	// ErrNotCompletable is returned when completing a task that is not open.
	ErrNotCompletable = errors.New("tasks: task is not pending or in progress")
	// ErrUnknownRecurrenceType is returned for a recurrence type the calculator cannot advance.
	ErrUnknownRecurrenceType = errors.New("tasks: unknown recurrence type")
	// ErrInvalidInterval is returned for a negative recurrence interval.
	ErrInvalidInterval = errors.New("tasks: recurrence interval must be positive")
	// ErrInvalidWeekday is returned for a weekday index outside 0-6.
	ErrInvalidWeekday = errors.New("tasks: weekday must be between 0 (Sunday) and 6 (Saturday)")
	// ErrInvalidOccurrenceLimit is returned for a non-positive occurrence limit.
	ErrInvalidOccurrenceLimit = errors.New("tasks: occurrence limit must be positive")
)

// RecurrenceError reports a task whose recurrence configuration cannot be
// interpreted. Retrying will not help.
type RecurrenceError struct {
	TaskID string
	Err    error
}

func (e *RecurrenceError) Error() string {
	return fmt.Sprintf("task %s: %v", e.TaskID, e.Err)
}

func (e *RecurrenceError) Unwrap() error {
	return e.Err
}

// IsRecurrenceError reports whether err carries a recurrence configuration problem.
func IsRecurrenceError(err error) bool {
	var rerr *RecurrenceError
	return errors.As(err, &rerr)
}
