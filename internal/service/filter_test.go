package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskplanner/internal/models"
)

func titles(tasks []*models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestUser_FilterTasks(t *testing.T) {
	h := NewTestHelpers(t, testStart)
	user := h.CreateTestUser("alice")

	mk := func(title string, priority int, due, category string) *models.Task {
		task := h.CreateTestTask(user, title, priority, due)
		task.Category = category
		return task
	}
	mk("report", 1, "2024-12-01", "Work")
	mk("groceries", 3, "2024-11-22", "Home")
	mk("review", 1, "2024-12-10", "Work")
	mk("gym", 2, "2024-11-25", "work")
	archived := mk("old", 1, "2024-11-21", "Work")
	_, err := user.ArchiveTask(archived.ID)
	require.NoError(t, err)

	tests := []struct {
		name      string
		criterion string
		value     string
		want      []string
	}{
		{name: "category exact and case sensitive", criterion: FilterByCategory, value: "Work", want: []string{"report", "review"}},
		{name: "category lowercase", criterion: FilterByCategory, value: "work", want: []string{"gym"}},
		{name: "priority", criterion: FilterByPriority, value: "1", want: []string{"report", "review"}},
		{name: "due on or before", criterion: FilterByDueDate, value: "2024-12-01", want: []string{"report", "groceries", "gym"}},
		{name: "due before everything", criterion: FilterByDueDate, value: "2024-01-01", want: []string{}},
		{name: "unknown criterion", criterion: "colour", value: "red", want: []string{}},
		{name: "bad priority", criterion: FilterByPriority, value: "high", want: []string{}},
		{name: "bad date", criterion: FilterByDueDate, value: "tomorrow", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := user.FilterTasks(tt.criterion, tt.value)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestUser_List(t *testing.T) {
	h := NewTestHelpers(t, testStart)
	user := h.CreateTestUser("alice")
	a := h.CreateTestTask(user, "a", 1, "2024-12-01")
	b := h.CreateTestTask(user, "b", 1, "2024-12-01")
	require.NoError(t, user.AddLabel(b.ID, "urgent"))
	_, err := user.StartTask(a.ID)
	require.NoError(t, err)

	inProgress := models.StatusInProgress
	assert.Equal(t, []string{"a"}, titles(user.List(ListFilter{Status: &inProgress})))
	assert.Equal(t, []string{"b"}, titles(user.List(ListFilter{Label: "urgent"})))
	assert.Equal(t, []string{"a", "b"}, titles(user.List(ListFilter{})))
}
