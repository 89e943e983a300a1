package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"brokercrm/server/config"
	"brokercrm/server/internal/database"
	"brokercrm/server/internal/models"
	"brokercrm/server/internal/queue"
	"brokercrm/server/internal/tasks"
)

// OccurrenceStore persists the next occurrence of a completed task.
type OccurrenceStore interface {
	SpawnOccurrence(ctx context.Context, taskID string, next database.NextOccurrenceFunc) (*models.Task, error)
}

// RecurrenceProcessor spawns the next occurrence of every completed
// recurring task pushed to the completion queue.
type RecurrenceProcessor struct {
	store      OccurrenceStore
	calculator *tasks.Calculator
	queue      *queue.CompletionQueue
	config     *config.Config
	logger     *logrus.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewRecurrenceProcessor creates a new processor instance
func NewRecurrenceProcessor(store OccurrenceStore, calculator *tasks.Calculator, q *queue.CompletionQueue, cfg *config.Config, logger *logrus.Logger) *RecurrenceProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &RecurrenceProcessor{
		store:      store,
		calculator: calculator,
		queue:      q,
		config:     cfg,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start subscribes to the queue and launches its workers.
func (p *RecurrenceProcessor) Start() {
	p.queue.Subscribe(func(c queue.Completion) error {
		_, err := p.Process(p.ctx, c.TaskID)
		return err
	})
	p.queue.Start(p.config.RecurrenceProcessing.WorkerCount)
}

// Stop waits for the workers to spawn every queued completion, then cancels
// the processor context.
func (p *RecurrenceProcessor) Stop() {
	p.queue.Close()
	p.cancel()
}

// Process spawns the occurrence following taskID, retrying transient store
// failures. Missing tasks and malformed recurrence rules fail immediately.
func (p *RecurrenceProcessor) Process(ctx context.Context, taskID string) (*models.Task, error) {
	maxRetries := p.config.RecurrenceProcessing.MaxRetries
	delay := time.Duration(p.config.RecurrenceProcessing.RetryDelay) * time.Second

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			p.logger.WithFields(logrus.Fields{
				"task_id": taskID,
				"attempt": attempt,
			}).Infof("Retrying occurrence spawn, attempt %d of %d", attempt, maxRetries)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		var spawned *models.Task
		spawned, err = p.store.SpawnOccurrence(ctx, taskID, p.calculator.Next)
		if err == nil {
			p.logSpawn(taskID, spawned)
			return spawned, nil
		}

		if permanent(err) {
			p.logger.WithError(err).WithField("task_id", taskID).Warn("Occurrence spawn rejected")
			return nil, err
		}
		p.logger.WithError(err).WithField("task_id", taskID).Error("Occurrence spawn failed")
	}

	return nil, fmt.Errorf("failed to spawn occurrence after %d attempts: %w", maxRetries, err)
}

func (p *RecurrenceProcessor) logSpawn(taskID string, spawned *models.Task) {
	if spawned == nil {
		p.logger.WithField("task_id", taskID).Debug("No further occurrence due")
		return
	}
	p.logger.WithFields(logrus.Fields{
		"task_id":       taskID,
		"occurrence_id": spawned.UUID,
		"due_date":      spawned.DueDate,
	}).Info("Spawned next occurrence")
}

func permanent(err error) bool {
	return tasks.IsRecurrenceError(err) ||
		errors.Is(err, database.ErrNotFound) ||
		errors.Is(err, context.Canceled)
}
