package tasks

import (
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Open reports whether work on the task is still expected.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusInProgress
}

// Priority of a task. Tasks have no vip level, unlike clients.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Type classifies what the agent has to do.
type Type string

const (
	TypeFollowUp          Type = "follow_up"
	TypePropertyViewing   Type = "property_viewing"
	TypeContractSigning   Type = "contract_signing"
	TypePaymentCollection Type = "payment_collection"
	TypeOther             Type = "other"
)

// Task is the engine's view of a task record.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Type        Type     `json:"type"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`

	AssignedTo *string `json:"assigned_to,omitempty"`
	ClientID   *string `json:"client_id,omitempty"`
	PropertyID *string `json:"property_id,omitempty"`
	DealID     *string `json:"deal_id,omitempty"`

	DueDate         *time.Time `json:"due_date,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CompletionNotes string     `json:"completion_notes,omitempty"`

	IsRecurring bool            `json:"is_recurring"`
	Recurrence  *RecurrenceRule `json:"recurrence,omitempty"`

	// ParentID links an occurrence to the root task of its chain.
	ParentID *string `json:"parent_id,omitempty"`
}

// RootID returns the identifier shared by every task of the chain.
func (t Task) RootID() string {
	if t.ParentID != nil && *t.ParentID != "" {
		return *t.ParentID
	}
	return t.ID
}

// IsOverdue is true for open tasks whose due date has passed.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status.Open()
}

// IsDueToday reports whether the due date falls on now's calendar day.
func (t Task) IsDueToday(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	dy, dm, dd := t.DueDate.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return dy == ny && dm == nm && dd == nd
}

// DaysLeft returns whole days until the due date, negative once it has passed.
func (t Task) DaysLeft(now time.Time) (int, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	return int(t.DueDate.Sub(now).Hours() / 24), true
}

// CanBeCompleted is true while the task is open.
func (t Task) CanBeCompleted() bool {
	return t.Status.Open()
}

// Complete returns a completed copy of the task. The receiver is left as is.
func (t Task) Complete(now time.Time, notes string) (Task, error) {
	if !t.CanBeCompleted() {
		return t, ErrNotCompletable
	}
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.CompletionNotes = notes
	return t, nil
}
