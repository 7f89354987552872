package service

import "errors"

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrGoalNotFound    = errors.New("goal not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrUsernameTaken   = errors.New("username already taken")
)

// IsNotFound reports whether err means a task, user or goal did not resolve.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrGoalNotFound)
}
