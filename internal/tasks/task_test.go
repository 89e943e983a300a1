package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOpen(t *testing.T) {
	assert.True(t, StatusPending.Open())
	assert.True(t, StatusInProgress.Open())
	assert.False(t, StatusCompleted.Open())
	assert.False(t, StatusCancelled.Open())
}

func TestTaskIsOverdue(t *testing.T) {
	now := day(2026, time.October, 15)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, Task{Status: StatusPending, DueDate: &past}.IsOverdue(now))
	assert.True(t, Task{Status: StatusInProgress, DueDate: &past}.IsOverdue(now))
	assert.False(t, Task{Status: StatusCompleted, DueDate: &past}.IsOverdue(now))
	assert.False(t, Task{Status: StatusPending, DueDate: &future}.IsOverdue(now))
	assert.False(t, Task{Status: StatusPending}.IsOverdue(now))
}

func TestTaskIsDueToday(t *testing.T) {
	now := day(2026, time.October, 15)
	evening := time.Date(2026, time.October, 15, 22, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	assert.True(t, Task{DueDate: &evening}.IsDueToday(now))
	assert.False(t, Task{DueDate: &tomorrow}.IsDueToday(now))
	assert.False(t, Task{}.IsDueToday(now))
}

func TestTaskDaysLeft(t *testing.T) {
	now := day(2026, time.October, 15)
	inThree := now.AddDate(0, 0, 3)
	twoAgo := now.AddDate(0, 0, -2)

	days, ok := Task{DueDate: &inThree}.DaysLeft(now)
	require.True(t, ok)
	assert.Equal(t, 3, days)

	days, ok = Task{DueDate: &twoAgo}.DaysLeft(now)
	require.True(t, ok)
	assert.Equal(t, -2, days)

	_, ok = Task{}.DaysLeft(now)
	assert.False(t, ok)
}

func TestTaskComplete(t *testing.T) {
	now := day(2026, time.October, 15)
	task := Task{ID: "t1", Status: StatusInProgress}

	done, err := task.Complete(now, "signed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	assert.Equal(t, now, *done.CompletedAt)
	assert.Equal(t, "signed", done.CompletionNotes)
	assert.Equal(t, StatusInProgress, task.Status)

	_, err = done.Complete(now, "again")
	assert.ErrorIs(t, err, ErrNotCompletable)

	_, err = Task{Status: StatusCancelled}.Complete(now, "")
	assert.ErrorIs(t, err, ErrNotCompletable)
}

func TestTaskRootID(t *testing.T) {
	assert.Equal(t, "a", Task{ID: "a"}.RootID())
	assert.Equal(t, "root", Task{ID: "a", ParentID: ptr("root")}.RootID())
	assert.Equal(t, "a", Task{ID: "a", ParentID: ptr("")}.RootID())
}
