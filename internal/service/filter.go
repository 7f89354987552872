package service

import (
	"strconv"
	"time"

	"github.com/gurkanbulca/taskplanner/internal/models"
)

// Filter criteria accepted by FilterTasks.
const (
	FilterByPriority = "priority"
	FilterByDueDate  = "due_date"
	FilterByCategory = "category"
)

// ListFilter selects live tasks. Nil fields match everything.
type ListFilter struct {
	Priority      *int
	DueOnOrBefore *time.Time
	Category      *string
	Status        *models.Status
	Label         string
}

func (f ListFilter) matches(t *models.Task) bool {
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.DueOnOrBefore != nil && t.DueDate.After(models.TruncateDate(*f.DueOnOrBefore)) {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Label != "" && !t.HasLabel(f.Label) {
		return false
	}
	return true
}

// List returns the live tasks matching filter, in insertion order.
func (u *User) List(filter ListFilter) []*models.Task {
	out := []*models.Task{}
	for _, t := range u.Tasks() {
		if filter.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// FilterTasks filters by a named criterion: exact priority, due date on or
// before a YYYY-MM-DD threshold, or exact category. An unknown criterion or
// a value that does not parse yields an empty result.
func (u *User) FilterTasks(criterion, value string) []*models.Task {
	var filter ListFilter
	switch criterion {
	case FilterByPriority:
		p, err := strconv.Atoi(value)
		if err != nil {
			return []*models.Task{}
		}
		filter.Priority = &p
	case FilterByDueDate:
		d, err := models.ParseDate(value)
		if err != nil {
			return []*models.Task{}
		}
		filter.DueOnOrBefore = &d
	case FilterByCategory:
		filter.Category = &value
	default:
		return []*models.Task{}
	}
	return u.List(filter)
}
