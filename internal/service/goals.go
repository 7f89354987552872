package service

import (
	"fmt"
	"strings"

	"github.com/gurkanbulca/taskplanner/internal/models"
)

// CreateGoal adds a goal owned by the user.
func (u *User) CreateGoal(title, description string) (*models.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: goal title is required", ErrInvalidInput)
	}
	g := models.NewGoal(title, description)
	u.goals = append(u.goals, g)
	return g, nil
}

func (u *User) GetGoal(goalID string) (*models.Goal, error) {
	for _, g := range u.goals {
		if g.ID == goalID {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrGoalNotFound, goalID)
}

// Goals returns the user's goals in creation order.
func (u *User) Goals() []*models.Goal {
	return append([]*models.Goal(nil), u.goals...)
}

// LinkTaskToGoal appends the task to the goal and labels the task with the
// goal title.
func (u *User) LinkTaskToGoal(goalID, taskID string) error {
	g, err := u.GetGoal(goalID)
	if err != nil {
		return err
	}
	t, err := u.GetTask(taskID)
	if err != nil {
		return err
	}
	g.Link(t)
	return nil
}

// GoalProgress is the mean progress of the goal's tasks that are still
// live. A goal with no live tasks reports 0.
func (u *User) GoalProgress(goalID string) (int, error) {
	g, err := u.GetGoal(goalID)
	if err != nil {
		return 0, err
	}
	total, n := 0, 0
	for _, id := range g.TaskIDs() {
		t, ok := u.sys.tasks[id]
		if !ok {
			continue
		}
		total += t.Progress
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return total / n, nil
}
