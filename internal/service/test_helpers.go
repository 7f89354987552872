// internal/service/test_helpers.go
package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskplanner/internal/models"
)

// TestHelpers provides common test utilities
type TestHelpers struct {
	t     *testing.T
	sys   *TaskSystem
	clock *TestClock
}

// TestClock is a settable time source.
type TestClock struct {
	Current time.Time
}

func (c *TestClock) Now() time.Time {
	return c.Current
}

// Advance moves the clock forward by d.
func (c *TestClock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}

// NewTestHelpers creates a task system driven by a fixed clock starting at
// start.
func NewTestHelpers(t *testing.T, start time.Time) *TestHelpers {
	clock := &TestClock{Current: start}
	return &TestHelpers{
		t:     t,
		sys:   NewTaskSystem(WithClock(clock.Now)),
		clock: clock,
	}
}

// System returns the task system under test.
func (h *TestHelpers) System() *TaskSystem {
	return h.sys
}

// Clock returns the controllable clock.
func (h *TestHelpers) Clock() *TestClock {
	return h.clock
}

// CreateTestUser registers a user
func (h *TestHelpers) CreateTestUser(username string) *User {
	u, err := h.sys.RegisterUser(username)
	require.NoError(h.t, err)
	return u
}

// CreateTestTask creates a task due on the given YYYY-MM-DD date.
func (h *TestHelpers) CreateTestTask(u *User, title string, priority int, due string) *models.Task {
	d, err := models.ParseDate(due)
	require.NoError(h.t, err)

	task, err := u.CreateTask(TaskInput{
		Title:    title,
		DueDate:  d,
		Priority: priority,
	})
	require.NoError(h.t, err)
	return task
}

// AssertTaskStatus verifies the task's current status
func (h *TestHelpers) AssertTaskStatus(u *User, taskID string, want models.Status) {
	task, err := u.GetTask(taskID)
	require.NoError(h.t, err)
	require.Equal(h.t, want, task.Status)
}

// AssertTaskGone verifies the task no longer resolves for the user
func (h *TestHelpers) AssertTaskGone(u *User, taskID string) {
	_, err := u.GetTask(taskID)
	require.ErrorIs(h.t, err, ErrTaskNotFound)
	for _, task := range u.Tasks() {
		require.NotEqual(h.t, taskID, task.ID)
	}
}
