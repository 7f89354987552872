// internal/service/task_service.go
package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/gurkanbulca/taskplanner/internal/models"
	"github.com/gurkanbulca/taskplanner/internal/scheduler"
)

// Preferences are per-user toggles.
type Preferences struct {
	Notifications bool
	CalendarSync  bool
}

// Stats holds productivity counters.
type Stats struct {
	Completed       int
	MissedDeadlines int
}

// User owns tasks and goals. Tasks are kept as ids into the TaskSystem
// store; tasks assigned by someone else appear here as well but stay in the
// creator's scheduler.
type User struct {
	ID       string
	Username string

	sys       *TaskSystem
	taskIDs   []string
	goals     []*models.Goal
	scheduler *scheduler.PriorityScheduler
	prefs     Preferences
	stats     Stats
	archive   []*models.Task
}

// TaskInput carries the fields for a new task.
type TaskInput struct {
	Title           string
	Description     string
	DueDate         time.Time
	Priority        int
	EstimatedEffort int
	Category        string
	Labels          []string
}

// RescheduleInput changes the due date and/or priority. Nil fields are left
// alone.
type RescheduleInput struct {
	DueDate  *time.Time
	Priority *int
}

// CreateTask adds a pending task to the collection and the scheduler.
func (u *User) CreateTask(in TaskInput) (*models.Task, error) {
	if err := validateTaskInput(in); err != nil {
		return nil, err
	}
	return u.insert(strings.TrimSpace(in.Title), in), nil
}

// insert builds the task and registers it with the store, the collection and
// the scheduler. Input must already be validated.
func (u *User) insert(title string, in TaskInput) *models.Task {
	t := models.NewTask(u.ID, title, in.Description, in.DueDate, in.Priority, u.sys.now())
	t.EstimatedEffort = in.EstimatedEffort
	t.Category = in.Category
	for _, l := range in.Labels {
		if l = strings.TrimSpace(l); l != "" {
			t.AddLabel(l)
		}
	}

	u.sys.tasks[t.ID] = t
	u.taskIDs = append(u.taskIDs, t.ID)
	u.scheduler.Add(t)
	u.sys.logger.Debugf("user %s created task %s (priority %d)", u.Username, t.ID, t.Priority)
	return t
}

// GetTask returns a live task from this user's collection.
func (u *User) GetTask(taskID string) (*models.Task, error) {
	if u.holds(taskID) {
		if t, ok := u.sys.tasks[taskID]; ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
}

// Tasks returns live tasks in insertion order, completed ones included.
func (u *User) Tasks() []*models.Task {
	u.prune()
	out := make([]*models.Task, 0, len(u.taskIDs))
	for _, id := range u.taskIDs {
		out = append(out, u.sys.tasks[id])
	}
	return out
}

// NextTask returns the most urgent pending task from the scheduler.
func (u *User) NextTask() (*models.Task, bool) {
	return u.scheduler.PeekNext()
}

// AssignTask points the task at target and adds it to target's collection.
// Both users then see the same task. A previous assignee other than the
// owner loses it.
func (u *User) AssignTask(taskID string, target *User) error {
	if target == nil || target.sys != u.sys {
		return ErrUserNotFound
	}
	t, err := u.GetTask(taskID)
	if err != nil {
		return err
	}
	if prev := t.AssignedTo; prev != "" && prev != t.OwnerID && prev != target.ID {
		if holder, ok := u.sys.users[prev]; ok {
			holder.drop(t.ID)
		}
	}
	t.AssignedTo = target.ID
	if !target.holds(t.ID) {
		target.taskIDs = append(target.taskIDs, t.ID)
	}
	u.sys.logger.Infof("task %s assigned by %s to %s", t.ID, u.Username, target.Username)
	return nil
}

// TrackProgress sets progress. Values outside [0, 100] are rejected and the
// task is left unchanged. Progress never changes status.
func (u *User) TrackProgress(taskID string, value int) error {
	t, err := u.GetTask(taskID)
	if err != nil {
		return err
	}
	if value < 0 || value > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidProgress, value)
	}
	t.Progress = value
	return nil
}

// StartTask moves a pending task to in progress.
func (u *User) StartTask(taskID string) (*models.Task, error) {
	t, err := u.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := t.Transition(models.StatusInProgress, u.sys.now()); err != nil {
		return nil, err
	}
	return t, nil
}

// CompleteTask marks the task completed. It stays in the collection but is
// no longer served by NextTask. The completed counter moves exactly once per
// task; finishing after the due date also counts a missed deadline.
func (u *User) CompleteTask(taskID string) (*models.Task, error) {
	t, err := u.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	now := u.sys.now()
	if err := t.Transition(models.StatusCompleted, now); err != nil {
		return nil, err
	}
	u.stats.Completed++
	if t.IsOverdue(now) {
		u.stats.MissedDeadlines++
	}
	u.sys.logger.Debugf("user %s completed task %s", u.Username, t.ID)
	return t, nil
}

// RescheduleTask changes due date and/or priority. A priority change
// re-queues the task in its owner's scheduler.
func (u *User) RescheduleTask(taskID string, in RescheduleInput) (*models.Task, error) {
	t, err := u.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if in.DueDate != nil {
		t.DueDate = models.TruncateDate(*in.DueDate)
	}
	if in.Priority != nil && *in.Priority != t.Priority {
		owner := u.sys.users[t.OwnerID]
		requeue := owner != nil && owner.scheduler.Remove(t.ID)
		t.Priority = *in.Priority
		if requeue {
			owner.scheduler.Add(t)
		}
	}
	return t, nil
}

// AddLabel tags a task.
func (u *User) AddLabel(taskID, label string) error {
	label = strings.TrimSpace(label)
	if err := validateLabel(label); err != nil {
		return err
	}
	t, err := u.GetTask(taskID)
	if err != nil {
		return err
	}
	t.AddLabel(label)
	return nil
}

// ArchiveTask retires a pending or in-progress task. It leaves the active
// collection and every scheduler and is appended to the archive history.
// Archiving an overdue task counts a missed deadline.
func (u *User) ArchiveTask(taskID string) (*models.Task, error) {
	t, err := u.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	now := u.sys.now()
	if err := t.Transition(models.StatusArchived, now); err != nil {
		return nil, err
	}
	if t.IsOverdue(now) {
		u.stats.MissedDeadlines++
	}
	u.sys.detach(t)
	u.drop(t.ID)
	u.archive = append(u.archive, t)
	u.sys.logger.Debugf("user %s archived task %s", u.Username, t.ID)
	return t, nil
}

// DeleteTask destroys the task. Nothing is recorded in history.
func (u *User) DeleteTask(taskID string) (*models.Task, error) {
	t, err := u.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	u.sys.detach(t)
	u.drop(t.ID)
	u.sys.logger.Debugf("user %s deleted task %s", u.Username, t.ID)
	return t, nil
}

// ArchivedTasks returns the archive history, oldest first.
func (u *User) ArchivedTasks() []*models.Task {
	return append([]*models.Task(nil), u.archive...)
}

// Snapshot returns exportable copies of the live tasks in insertion order.
func (u *User) Snapshot() []models.TaskSnapshot {
	tasks := u.Tasks()
	out := make([]models.TaskSnapshot, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Snapshot())
	}
	return out
}

func (u *User) Stats() Stats {
	return u.stats
}

func (u *User) Preferences() Preferences {
	return u.prefs
}

func (u *User) SetPreferences(p Preferences) {
	u.prefs = p
}

// holds reports whether the id is in the collection.
func (u *User) holds(taskID string) bool {
	for _, id := range u.taskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

func (u *User) drop(taskID string) {
	for i, id := range u.taskIDs {
		if id == taskID {
			u.taskIDs = append(u.taskIDs[:i], u.taskIDs[i+1:]...)
			return
		}
	}
}

// prune forgets ids whose task was archived or deleted by another holder.
func (u *User) prune() {
	kept := u.taskIDs[:0]
	for _, id := range u.taskIDs {
		if _, ok := u.sys.tasks[id]; ok {
			kept = append(kept, id)
		}
	}
	u.taskIDs = kept
}
