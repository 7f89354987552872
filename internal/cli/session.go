// Package cli implements the interactive numbered-menu session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gurkanbulca/taskplanner/internal/logging"
	"github.com/gurkanbulca/taskplanner/internal/models"
	"github.com/gurkanbulca/taskplanner/internal/service"
)

// SnapshotSaver persists an export of a user's tasks.
type SnapshotSaver interface {
	SaveSnapshots(ctx context.Context, username string, tasks []models.TaskSnapshot) error
}

// Options wires a Session. Only System and User are required.
type Options struct {
	System    *service.TaskSystem
	User      *service.User
	In        io.Reader
	Out       io.Writer
	ExportDir string
	Saver     SnapshotSaver
	Logger    *logging.Logger
}

// Session reads menu choices from In and writes results to Out. All state
// is in memory and is gone when the session ends.
type Session struct {
	sys       *service.TaskSystem
	user      *service.User
	in        *bufio.Scanner
	out       io.Writer
	exportDir string
	saver     SnapshotSaver
	logger    *logging.Logger
	items     []menuItem
}

type menuItem struct {
	label  string
	action func(ctx context.Context) error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// errExit ends the menu loop.
var errExit = errors.New("exit")

func NewSession(opts Options) (*Session, error) {
	if opts.System == nil || opts.User == nil {
		return nil, errors.New("cli: session requires a task system and a user")
	}
	in := opts.In
	if in == nil {
		in = strings.NewReader("")
	}
	s := &Session{
		sys:       opts.System,
		user:      opts.User,
		in:        bufio.NewScanner(in),
		out:       opts.Out,
		exportDir: opts.ExportDir,
		saver:     opts.Saver,
		logger:    opts.Logger,
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.exportDir == "" {
		s.exportDir = "."
	}
	s.items = []menuItem{
		{"Add Task", s.addTask},
		{"View Tasks", s.viewTasks},
		{"Complete Task", s.completeTask},
		{"Get Next Task", s.nextTask},
		{"Reschedule Task", s.rescheduleTask},
		{"Delete Task", s.deleteTask},
		{"Start Task", s.startTask},
		{"Update Progress", s.updateProgress},
		{"Archive Task", s.archiveTask},
		{"Filter Tasks", s.filterTasks},
		{"Add Label", s.addLabel},
		{"Break Down Task", s.breakDownTask},
		{"Assign Task", s.assignTask},
		{"Switch User", s.switchUser},
		{"Create Goal", s.createGoal},
		{"Link Task to Goal", s.linkGoal},
		{"View Goals", s.viewGoals},
		{"Dashboard", s.dashboard},
		{"Export Tasks", s.exportTasks},
		{"Exit", s.exit},
	}
	return s, nil
}

// Run loops over the menu until Exit is chosen or input ends.
func (s *Session) Run(ctx context.Context) error {
	for {
		s.printMenu()
		choice, err := s.prompt("Select an option: ")
		if err != nil {
			return ignoreEOF(err)
		}

		n, convErr := strconv.Atoi(choice)
		if convErr != nil || n < 1 || n > len(s.items) {
			s.println("Invalid option. Please try again.")
			continue
		}

		item := s.items[n-1]
		s.logger.Debugf("menu: %s (user %s)", item.label, s.user.Username)
		if err := item.action(ctx); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return ignoreEOF(err)
		}
	}
}

func (s *Session) printMenu() {
	s.println("")
	s.println(titleStyle.Render(fmt.Sprintf("Task Manager (%s)", s.user.Username)))
	for i, item := range s.items {
		s.printf("%d. %s\n", i+1, item.label)
	}
}

func (s *Session) prompt(label string) (string, error) {
	s.printf("%s", label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) promptInt(label string) (int, bool, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, false, err
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		s.fail("Please enter a whole number.")
		return 0, false, nil
	}
	return n, true, nil
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) fail(msg string) {
	s.println(errorStyle.Render(msg))
}

// report prints the user-facing message for a failed operation.
func (s *Session) report(err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		s.fail("Task not found.")
	case errors.Is(err, service.ErrUserNotFound):
		s.fail("User not found.")
	case errors.Is(err, service.ErrGoalNotFound):
		s.fail("Goal not found.")
	case errors.Is(err, models.ErrInvalidTransition):
		s.fail(fmt.Sprintf("Not allowed: %v", err))
	default:
		s.fail(fmt.Sprintf("Error: %v", err))
	}
	s.logger.Debugf("operation failed: %v", err)
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
