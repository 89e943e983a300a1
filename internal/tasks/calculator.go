package tasks

import (
	"brokercrm/server/internal/clock"

	"github.com/google/uuid"
)

// Calculator spawns the next occurrence of recurring tasks.
type Calculator struct {
	clock clock.Clock
	newID func() string
}

// NewCalculator returns a calculator reading "now" from c (wall clock if nil).
func NewCalculator(c clock.Clock) *Calculator {
	return &Calculator{clock: clock.OrSystem(c), newID: uuid.NewString}
}

// Next builds the occurrence that follows task. existingOccurrences is the
// number of tasks already in the chain, root included.
//
// A nil task with a nil error means no occurrence is due: the task does not
// recur, has no due date, its end date has passed or its occurrence limit is
// reached. A malformed rule yields a *RecurrenceError.
func (c *Calculator) Next(task Task, existingOccurrences int) (*Task, error) {
	rule := task.Recurrence
	if !task.IsRecurring || rule == nil || rule.Type == "" {
		return nil, nil
	}
	if err := rule.Validate(); err != nil {
		return nil, &RecurrenceError{TaskID: task.ID, Err: err}
	}

	if rule.EndDate != nil && c.clock.Now().After(*rule.EndDate) {
		return nil, nil
	}
	if rule.OccurrenceLimit != nil && existingOccurrences >= *rule.OccurrenceLimit {
		return nil, nil
	}
	if task.DueDate == nil {
		return nil, nil
	}

	due, err := Advance(*rule, *task.DueDate)
	if err != nil {
		return nil, &RecurrenceError{TaskID: task.ID, Err: err}
	}
	if rule.EndDate != nil && due.After(*rule.EndDate) {
		return nil, nil
	}

	root := task.RootID()
	return &Task{
		ID:          c.newID(),
		Title:       task.Title,
		Description: task.Description,
		Type:        task.Type,
		Status:      StatusPending,
		Priority:    task.Priority,
		AssignedTo:  clonePtr(task.AssignedTo),
		ClientID:    clonePtr(task.ClientID),
		PropertyID:  clonePtr(task.PropertyID),
		DealID:      clonePtr(task.DealID),
		DueDate:     &due,
		IsRecurring: true,
		Recurrence:  rule.clone(),
		ParentID:    &root,
	}, nil
}
