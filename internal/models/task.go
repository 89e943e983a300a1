package models

import (
	"time"

	"brokercrm/server/internal/tasks"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is the stored form of tasks.Task. Recurrence settings are flattened
// into columns so chains can be queried.
type Task struct {
	ID              uint   `gorm:"primaryKey"`
	UUID            string `gorm:"size:36;uniqueIndex;not null"`
	Title           string `gorm:"not null"`
	Description     string
	Type            tasks.Type     `gorm:"size:30;default:follow_up"`
	Status          tasks.Status   `gorm:"size:20;default:pending;index"`
	Priority        tasks.Priority `gorm:"size:20;default:medium"`
	AssignedTo      *string        `gorm:"size:36;index"`
	ClientUUID      *string        `gorm:"size:36;index"`
	PropertyUUID    *string        `gorm:"size:36"`
	DealUUID        *string        `gorm:"size:36"`
	DueDate         *time.Time     `gorm:"index"`
	CompletedAt     *time.Time
	CompletionNotes string

	IsRecurring        bool
	RecurrenceType     tasks.RecurrenceType `gorm:"size:20"`
	RecurrenceInterval int
	RecurrenceDays     []int `gorm:"serializer:json"`
	RecurrenceEndDate  *time.Time
	RecurrenceLimit    *int
	ParentUUID         *string `gorm:"size:36;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// BeforeCreate assigns the public identifier and moves timestamps to UTC.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.NewString()
	}
	t.DueDate = utc(t.DueDate)
	t.CompletedAt = utc(t.CompletedAt)
	t.RecurrenceEndDate = utc(t.RecurrenceEndDate)
	return nil
}

// Domain converts the record into the form the recurrence calculator uses.
func (t *Task) Domain() tasks.Task {
	out := tasks.Task{
		ID:              t.UUID,
		Title:           t.Title,
		Description:     t.Description,
		Type:            t.Type,
		Status:          t.Status,
		Priority:        t.Priority,
		AssignedTo:      t.AssignedTo,
		ClientID:        t.ClientUUID,
		PropertyID:      t.PropertyUUID,
		DealID:          t.DealUUID,
		DueDate:         t.DueDate,
		CompletedAt:     t.CompletedAt,
		CompletionNotes: t.CompletionNotes,
		IsRecurring:     t.IsRecurring,
		ParentID:        t.ParentUUID,
	}
	if t.RecurrenceType != "" {
		out.Recurrence = &tasks.RecurrenceRule{
			Type:            t.RecurrenceType,
			Interval:        t.RecurrenceInterval,
			DaysOfWeek:      t.RecurrenceDays,
			EndDate:         t.RecurrenceEndDate,
			OccurrenceLimit: t.RecurrenceLimit,
		}
	}
	return out
}

// TaskFromDomain builds a record from a domain task. The primary key is left
// unset.
func TaskFromDomain(task tasks.Task) *Task {
	out := &Task{
		UUID:            task.ID,
		Title:           task.Title,
		Description:     task.Description,
		Type:            task.Type,
		Status:          task.Status,
		Priority:        task.Priority,
		AssignedTo:      task.AssignedTo,
		ClientUUID:      task.ClientID,
		PropertyUUID:    task.PropertyID,
		DealUUID:        task.DealID,
		DueDate:         task.DueDate,
		CompletedAt:     task.CompletedAt,
		CompletionNotes: task.CompletionNotes,
		IsRecurring:     task.IsRecurring,
		ParentUUID:      task.ParentID,
	}
	if rule := task.Recurrence; rule != nil {
		out.RecurrenceType = rule.Type
		out.RecurrenceInterval = rule.Interval
		out.RecurrenceDays = rule.DaysOfWeek
		out.RecurrenceEndDate = rule.EndDate
		out.RecurrenceLimit = rule.OccurrenceLimit
	}
	return out
}
