package queue

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompletionQueue(t *testing.T) {
	q := NewCompletionQueue(10, logrus.New())
	assert.NotNil(t, q)
	assert.Equal(t, 10, q.maxSize)
	assert.False(t, q.IsClosed())
}

func TestCompletionQueue_Push(t *testing.T) {
	q := NewCompletionQueue(2, logrus.New())

	err := q.Push(Completion{TaskID: "t1"})
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Len())

	require.NoError(t, q.Push(Completion{TaskID: "t2"}))
	err = q.Push(Completion{TaskID: "t3"})
	assert.Equal(t, ErrQueueFull, err)

	require.NoError(t, q.Close())
	err = q.Push(Completion{TaskID: "t4"})
	assert.Equal(t, ErrQueueClosed, err)
}

func TestCompletionQueue_Subscribe(t *testing.T) {
	q := NewCompletionQueue(10, logrus.New())

	var (
		mu        sync.Mutex
		processed []string
		wg        sync.WaitGroup
	)
	wg.Add(2)
	q.Subscribe(func(c Completion) error {
		mu.Lock()
		processed = append(processed, c.TaskID)
		mu.Unlock()
		wg.Done()
		return nil
	})

	q.Start(1)
	defer q.Close()

	require.NoError(t, q.Push(Completion{TaskID: "t1", CompletedAt: time.Now()}))
	require.NoError(t, q.Push(Completion{TaskID: "t2", CompletedAt: time.Now()}))
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"t1", "t2"}, processed)
}

func TestCompletionQueue_AllHandlersReceiveEachCompletion(t *testing.T) {
	q := NewCompletionQueue(10, logrus.New())

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		calls int
	)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		q.Subscribe(func(Completion) error {
			mu.Lock()
			calls++
			mu.Unlock()
			wg.Done()
			return errors.New("ignored")
		})
	}

	q.Start(2)
	defer q.Close()

	require.NoError(t, q.Push(Completion{TaskID: "t1"}))
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls)
}

func TestCompletionQueue_Close(t *testing.T) {
	q := NewCompletionQueue(10, logrus.New())
	q.Start(3)

	assert.NoError(t, q.Close())
	assert.True(t, q.IsClosed())

	assert.NoError(t, q.Close())

	// Starting a closed queue does nothing.
	q.Start(1)
}

func TestCompletionQueue_CloseDrainsBuffered(t *testing.T) {
	q := NewCompletionQueue(10, logrus.New())

	var (
		mu      sync.Mutex
		handled []string
	)
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	q.Subscribe(func(c Completion) error {
		once.Do(func() { close(started) })
		<-release
		mu.Lock()
		handled = append(handled, c.TaskID)
		mu.Unlock()
		return nil
	})
	q.Start(1)

	ids := []string{"t1", "t2", "t3", "t4", "t5"}
	for _, id := range ids {
		require.NoError(t, q.Push(Completion{TaskID: id}))
	}
	<-started

	closed := make(chan error)
	go func() { closed <- q.Close() }()

	// Pushes are rejected as soon as Close begins, even while workers drain.
	require.Eventually(t, q.IsClosed, time.Second, 5*time.Millisecond)
	assert.Equal(t, ErrQueueClosed, q.Push(Completion{TaskID: "late"}))

	close(release)
	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return after the buffer drained")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, ids, handled)
	assert.Equal(t, 0, q.Len())
}
