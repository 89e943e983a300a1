package database

import (
	"context"
	"fmt"
	"time"

	"brokercrm/server/internal/models"
	"brokercrm/server/internal/tasks"

	"gorm.io/gorm"
)

// NextOccurrenceFunc computes the occurrence that follows a task given the
// number of tasks already in its chain. A nil task means none is due.
type NextOccurrenceFunc func(task tasks.Task, existingOccurrences int) (*tasks.Task, error)

func (d *Database) CreateTask(ctx context.Context, task *models.Task) error {
	if err := d.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (d *Database) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return findTask(d.db.WithContext(ctx), id)
}

func findTask(tx *gorm.DB, id string) (*models.Task, error) {
	var task models.Task
	if err := tx.Where("uuid = ?", id).First(&task).Error; err != nil {
		return nil, notFound(err)
	}
	return &task, nil
}

// CompleteTask marks an open task completed at now. tasks.ErrNotCompletable
// is returned for tasks that are already closed.
func (d *Database) CompleteTask(ctx context.Context, id string, now time.Time, notes string) (*models.Task, error) {
	var completed *models.Task
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := findTask(tx, id)
		if err != nil {
			return err
		}

		done, err := record.Domain().Complete(now, notes)
		if err != nil {
			return err
		}

		record.Status = done.Status
		record.CompletedAt = utc(done.CompletedAt)
		record.CompletionNotes = done.CompletionNotes
		if err := tx.Model(record).Select("status", "completed_at", "completion_notes").Updates(record).Error; err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		completed = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// CountChain returns the number of tasks sharing rootID, the root included.
func (d *Database) CountChain(ctx context.Context, rootID string) (int, error) {
	return countChain(d.db.WithContext(ctx), rootID)
}

func countChain(tx *gorm.DB, rootID string) (int, error) {
	var count int64
	err := tx.Model(&models.Task{}).
		Where("uuid = ? OR parent_uuid = ?", rootID, rootID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count task chain: %w", err)
	}
	return int(count), nil
}

// SpawnOccurrence loads a task, counts its chain and stores the occurrence
// computed by next, all in one transaction. It returns nil when next yields
// nothing or the chain already holds a task due at the computed date.
func (d *Database) SpawnOccurrence(ctx context.Context, taskID string, next NextOccurrenceFunc) (*models.Task, error) {
	var spawned *models.Task
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := findTask(tx, taskID)
		if err != nil {
			return err
		}

		task := record.Domain()
		existing, err := countChain(tx, task.RootID())
		if err != nil {
			return err
		}

		occurrence, err := next(task, existing)
		if err != nil || occurrence == nil {
			return err
		}

		var duplicates int64
		err = tx.Model(&models.Task{}).
			Where("(uuid = ? OR parent_uuid = ?) AND due_date = ?", task.RootID(), task.RootID(), utc(occurrence.DueDate)).
			Count(&duplicates).Error
		if err != nil {
			return fmt.Errorf("failed to check for existing occurrence: %w", err)
		}
		if duplicates > 0 {
			return nil
		}

		out := models.TaskFromDomain(*occurrence)
		if err := tx.Create(out).Error; err != nil {
			return fmt.Errorf("failed to store occurrence: %w", err)
		}
		spawned = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return spawned, nil
}

// OverdueTasks returns open tasks whose due date is before now, oldest first.
func (d *Database) OverdueTasks(ctx context.Context, now time.Time) ([]models.Task, error) {
	var overdue []models.Task
	err := d.db.WithContext(ctx).
		Where("status IN ?", []tasks.Status{tasks.StatusPending, tasks.StatusInProgress}).
		Where("due_date IS NOT NULL AND due_date < ?", now.UTC()).
		Order("due_date ASC").
		Find(&overdue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue tasks: %w", err)
	}
	return overdue, nil
}
