package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used for due dates everywhere.
const DateLayout = "2006-01-02"

// Status is the lifecycle state of a task.
type Status string

// Task status constants
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// transitions lists the allowed target states for each source state.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCompleted, StatusArchived},
	StatusInProgress: {StatusCompleted, StatusArchived},
}

// ParseStatus converts user input into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusArchived:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

// Label returns the human readable form used in listings and exports.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusArchived:
		return "Archived"
	default:
		return string(s)
	}
}

// HistoryEntry records a single status change.
type HistoryEntry struct {
	Status Status    `json:"status" yaml:"status"`
	At     time.Time `json:"at" yaml:"at"`
}

// Task is the atomic unit of work.
type Task struct {
	ID              string
	Title           string
	Description     string
	DueDate         time.Time
	Priority        int
	EstimatedEffort int
	Category        string
	Status          Status
	Progress        int
	AssignedTo      string
	ParentGoal      string
	OwnerID         string
	CreatedAt       time.Time
	CompletedAt     *time.Time

	labels  []string
	history []HistoryEntry
}

// NewTask builds a pending task with a fresh identifier. The due date is
// truncated to its calendar day.
func NewTask(ownerID, title, description string, due time.Time, priority int, now time.Time) *Task {
	t := &Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		DueDate:     TruncateDate(due),
		Priority:    priority,
		Status:      StatusPending,
		OwnerID:     ownerID,
		CreatedAt:   now,
	}
	t.history = append(t.history, HistoryEntry{Status: StatusPending, At: now})
	return t
}

// Transition moves the task to the given status and appends a history
// entry stamped with at.
func (t *Task) Transition(to Status, at time.Time) error {
	for _, allowed := range transitions[t.Status] {
		if allowed == to {
			t.Status = to
			if to == StatusCompleted {
				completedAt := at
				t.CompletedAt = &completedAt
			}
			t.history = append(t.history, HistoryEntry{Status: to, At: at})
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
}

// IsLive reports whether the task still takes part in active work.
func (t *Task) IsLive() bool {
	return t.Status != StatusArchived
}

// IsSchedulable reports whether the task can be served by a scheduler.
func (t *Task) IsSchedulable() bool {
	return t.Status == StatusPending || t.Status == StatusInProgress
}

// IsOverdue reports whether the due date has passed relative to now,
// compared by calendar day.
func (t *Task) IsOverdue(now time.Time) bool {
	return TruncateDate(now).After(t.DueDate)
}

// AddLabel adds label to the set. Returns false if it was already present.
func (t *Task) AddLabel(label string) bool {
	for _, l := range t.labels {
		if l == label {
			return false
		}
	}
	t.labels = append(t.labels, label)
	return true
}

// HasLabel reports whether label is in the set.
func (t *Task) HasLabel(label string) bool {
	for _, l := range t.labels {
		if l == label {
			return true
		}
	}
	return false
}

// Labels returns a copy of the label set in insertion order.
func (t *Task) Labels() []string {
	return append([]string(nil), t.labels...)
}

// History returns a copy of the status log.
func (t *Task) History() []HistoryEntry {
	return append([]HistoryEntry(nil), t.history...)
}

// Snapshot returns a detached copy of the exportable fields.
func (t *Task) Snapshot() TaskSnapshot {
	return TaskSnapshot{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		DueDate:         t.DueDate.Format(DateLayout),
		Priority:        t.Priority,
		EstimatedEffort: t.EstimatedEffort,
		Category:        t.Category,
		Status:          t.Status,
		Progress:        t.Progress,
		Labels:          t.Labels(),
		AssignedTo:      t.AssignedTo,
		ParentGoal:      t.ParentGoal,
		History:         t.History(),
	}
}

func (t *Task) String() string {
	return fmt.Sprintf("[%d] %s - Due: %s | Status: %s | Progress: %d%%",
		t.Priority, t.Title, t.DueDate.Format(DateLayout), t.Status.Label(), t.Progress)
}

// TaskSnapshot is a read-only view of a task used by exporters.
type TaskSnapshot struct {
	ID              string         `json:"id" yaml:"id"`
	Title           string         `json:"title" yaml:"title"`
	Description     string         `json:"description" yaml:"description"`
	DueDate         string         `json:"due_date" yaml:"due_date"`
	Priority        int            `json:"priority" yaml:"priority"`
	EstimatedEffort int            `json:"estimated_effort" yaml:"estimated_effort"`
	Category        string         `json:"category,omitempty" yaml:"category,omitempty"`
	Status          Status         `json:"status" yaml:"status"`
	Progress        int            `json:"progress" yaml:"progress"`
	Labels          []string       `json:"labels,omitempty" yaml:"labels,omitempty"`
	AssignedTo      string         `json:"assigned_to,omitempty" yaml:"assigned_to,omitempty"`
	ParentGoal      string         `json:"parent_goal,omitempty" yaml:"parent_goal,omitempty"`
	History         []HistoryEntry `json:"history,omitempty" yaml:"history,omitempty"`
}

// ParseDate parses a YYYY-MM-DD due date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// TruncateDate drops the time-of-day component, keeping the UTC calendar day
// as seen in t's location.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
