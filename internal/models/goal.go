package models

import "github.com/google/uuid"

// Goal groups related tasks. Tasks refer back to a goal by title only.
type Goal struct {
	ID          string
	Title       string
	Description string

	taskIDs []string
}

// NewGoal creates a goal with a fresh identifier.
func NewGoal(title, description string) *Goal {
	return &Goal{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
	}
}

// Link appends the task to the goal and stamps its parent-goal label.
func (g *Goal) Link(t *Task) {
	g.taskIDs = append(g.taskIDs, t.ID)
	t.ParentGoal = g.Title
}

// TaskIDs returns the linked task ids in link order.
func (g *Goal) TaskIDs() []string {
	return append([]string(nil), g.taskIDs...)
}
