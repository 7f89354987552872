package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gurkanbulca/taskplanner/internal/logging"
	"github.com/gurkanbulca/taskplanner/internal/models"
	"github.com/gurkanbulca/taskplanner/internal/scheduler"
)

// SubtaskCount is the number of pieces BreakDownTask produces.
const SubtaskCount = 3

// TaskSystem is the registry of users and the canonical store of live
// tasks. Users hold task ids; task data is only reached through the store,
// so a task assigned to a second user is never duplicated.
type TaskSystem struct {
	users     map[string]*User
	userOrder []string
	tasks     map[string]*models.Task

	now    func() time.Time
	logger *logging.Logger
}

// Option configures a TaskSystem.
type Option func(*TaskSystem)

// WithClock overrides the time source used for history and deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *TaskSystem) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *TaskSystem) {
		s.logger = l
	}
}

func NewTaskSystem(opts ...Option) *TaskSystem {
	s := &TaskSystem{
		users:  make(map[string]*User),
		tasks:  make(map[string]*models.Task),
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterUser creates a user. Usernames are unique ignoring case.
func (s *TaskSystem) RegisterUser(username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if strings.ContainsAny(username, `/\`) || username == "." || username == ".." {
		return nil, fmt.Errorf("%w: username must not contain path separators", ErrInvalidInput)
	}
	if _, err := s.FindUserByUsername(username); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	}

	u := &User{
		ID:        uuid.NewString(),
		Username:  username,
		sys:       s,
		scheduler: scheduler.New(),
		prefs:     Preferences{Notifications: true},
	}
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
	s.logger.Infof("registered user %s (%s)", u.Username, u.ID)
	return u, nil
}

// GetUser resolves a user by id.
func (s *TaskSystem) GetUser(id string) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return u, nil
}

// FindUserByUsername resolves a user by username, ignoring case.
func (s *TaskSystem) FindUserByUsername(username string) (*User, error) {
	for _, id := range s.userOrder {
		if u := s.users[id]; strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
}

// Users returns users in registration order.
func (s *TaskSystem) Users() []*User {
	out := make([]*User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, s.users[id])
	}
	return out
}

// AssignTask hands a task held by one user to another.
func (s *TaskSystem) AssignTask(fromUserID, taskID, toUserID string) error {
	from, err := s.GetUser(fromUserID)
	if err != nil {
		return err
	}
	to, err := s.GetUser(toUserID)
	if err != nil {
		return err
	}
	return from.AssignTask(taskID, to)
}

// BreakDownTask adds SubtaskCount subtasks derived from the given task to the
// user's collection. Effort is split with integer division and the remainder
// is dropped. The original task is not modified.
func (s *TaskSystem) BreakDownTask(taskID, userID string) ([]*models.Task, error) {
	u, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	parent, err := u.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	subtasks := make([]*models.Task, 0, SubtaskCount)
	for i := 1; i <= SubtaskCount; i++ {
		// Derived from a validated parent; the suffix may push the title
		// past MaxTitleLength.
		title := fmt.Sprintf("%s (part %d/%d)", parent.Title, i, SubtaskCount)
		subtasks = append(subtasks, u.insert(title, TaskInput{
			Description:     parent.Description,
			DueDate:         parent.DueDate,
			Priority:        parent.Priority,
			EstimatedEffort: parent.EstimatedEffort / SubtaskCount,
			Category:        parent.Category,
		}))
	}
	s.logger.Infof("broke down task %s into %d subtasks", parent.ID, len(subtasks))
	return subtasks, nil
}

// Dashboard is a read-only productivity summary.
type Dashboard struct {
	Completed       int
	MissedDeadlines int
	ActiveTasks     int
}

// ProductivityDashboard summarizes a user's counters and live task count.
func (s *TaskSystem) ProductivityDashboard(userID string) (Dashboard, error) {
	u, err := s.GetUser(userID)
	if err != nil {
		return Dashboard{}, err
	}
	stats := u.Stats()
	return Dashboard{
		Completed:       stats.Completed,
		MissedDeadlines: stats.MissedDeadlines,
		ActiveTasks:     len(u.Tasks()),
	}, nil
}

// detach drops a task from the canonical store and from its owner's
// scheduler. Other holders drop the id lazily.
func (s *TaskSystem) detach(t *models.Task) {
	if owner, ok := s.users[t.OwnerID]; ok {
		owner.scheduler.Remove(t.ID)
	}
	delete(s.tasks, t.ID)
}
