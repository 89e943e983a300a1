package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Completion announces that a task was completed.
type Completion struct {
	TaskID      string
	CompletedAt time.Time
}

// Handler processes one completion.
type Handler func(Completion) error

// CompletionQueue is an in-memory queue of task completions awaiting their
// next occurrence.
type CompletionQueue struct {
	items    chan Completion
	maxSize  int
	closed   bool
	started  bool
	mu       sync.RWMutex
	wg       sync.WaitGroup
	logger   *logrus.Logger
	handlers []Handler
}

// NewCompletionQueue creates a queue holding at most bufferSize completions.
func NewCompletionQueue(bufferSize int, logger *logrus.Logger) *CompletionQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &CompletionQueue{
		items:   make(chan Completion, bufferSize),
		maxSize: bufferSize,
		logger:  logger,
	}
}

// Push adds a completion without blocking.
func (q *CompletionQueue) Push(c Completion) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- c:
		q.logger.WithField("task_id", c.TaskID).Debug("Queued task completion")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler called for every completion.
func (q *CompletionQueue) Subscribe(handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start launches workers goroutines draining the queue. Calling it again is a no-op.
func (q *CompletionQueue) Start(workers int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true

	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.process()
	}
}

func (q *CompletionQueue) process() {
	defer q.wg.Done()
	for c := range q.items {
		q.dispatch(c)
	}
}

// dispatch sends the completion to all subscribed handlers
func (q *CompletionQueue) dispatch(c Completion) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(c); err != nil {
			q.logger.WithError(err).WithField("task_id", c.TaskID).Error("Handler failed to process completion")
		}
	}
}

// Close rejects further pushes and waits for the workers to handle every
// completion still buffered.
func (q *CompletionQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.items)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// Len returns the number of buffered completions.
func (q *CompletionQueue) Len() int {
	return len(q.items)
}

// IsClosed reports whether Close has been called.
func (q *CompletionQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
