package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskplanner/internal/models"
	"github.com/gurkanbulca/taskplanner/internal/service"
)

type fakeSaver struct {
	username string
	saved    []models.TaskSnapshot
	err      error
}

func (f *fakeSaver) SaveSnapshots(_ context.Context, username string, tasks []models.TaskSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.username = username
	f.saved = tasks
	return nil
}

type fixture struct {
	sys  *service.TaskSystem
	user *service.User
}

func newFixture(t *testing.T) *fixture {
	clock := func() time.Time { return time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC) }
	sys := service.NewTaskSystem(service.WithClock(clock))
	user, err := sys.RegisterUser("alice")
	require.NoError(t, err)
	return &fixture{sys: sys, user: user}
}

func (f *fixture) task(t *testing.T, title string, priority int) *models.Task {
	due, err := models.ParseDate("2024-12-01")
	require.NoError(t, err)
	task, err := f.user.CreateTask(service.TaskInput{Title: title, DueDate: due, Priority: priority})
	require.NoError(t, err)
	return task
}

func (f *fixture) run(t *testing.T, opts Options, lines ...string) string {
	var out bytes.Buffer
	opts.System = f.sys
	opts.User = f.user
	opts.In = strings.NewReader(strings.Join(lines, "\n") + "\n")
	opts.Out = &out

	session, err := NewSession(opts)
	require.NoError(t, err)
	require.NoError(t, session.Run(context.Background()))
	return out.String()
}

// assertInOrder checks that each fragment appears after the previous one.
func assertInOrder(t *testing.T, out string, fragments ...string) {
	t.Helper()
	pos := 0
	for _, frag := range fragments {
		idx := strings.Index(out[pos:], frag)
		require.GreaterOrEqual(t, idx, 0, "missing %q after offset %d in:\n%s", frag, pos, out)
		pos += idx + len(frag)
	}
}

func TestNewSession_RequiresSystemAndUser(t *testing.T) {
	_, err := NewSession(Options{})
	assert.Error(t, err)
}

func TestSession_AddAndView(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, Options{},
		"1", "Prepare Report", "Quarterly", "2024-12-01", "1", "Work",
		"2",
		"20",
	)

	assertInOrder(t, out,
		"Task 'Prepare Report' added successfully!",
		"Current Tasks:",
		"[1] Prepare Report - Due: 2024-12-01 | Status: Pending",
		"Exiting Task Manager. Goodbye!",
	)
	tasks := f.user.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Work", tasks[0].Category)
}

func TestSession_NextAfterCompletion(t *testing.T) {
	f := newFixture(t)
	f.task(t, "five", 5)
	one := f.task(t, "one", 1)
	f.task(t, "three", 3)

	out := f.run(t, Options{}, "4", "3", one.ID, "4", "20")

	assertInOrder(t, out,
		"Next task based on priority:", "[1] one",
		"Task 'one' marked as completed!",
		"Next task based on priority:", "[3] three",
	)
}

func TestSession_EmptyStates(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, Options{}, "2", "4", "17", "20")

	assertInOrder(t, out, "No tasks available.", "No pending tasks available.", "No goals available.")
}

func TestSession_RecoverableErrors(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, "work", 1)

	out := f.run(t, Options{},
		"99",
		"abc",
		"3", "missing-id",
		"1", "x", "", "not-a-date", "2", "Home",
		"1", "x", "", "2024-12-01", "high", "Home",
		"8", task.ID, "150",
		"3", task.ID,
		"9", task.ID,
		"2",
		"20",
	)

	assertInOrder(t, out,
		"Invalid option. Please try again.",
		"Invalid option. Please try again.",
		"Task not found.",
		"Invalid date, expected YYYY-MM-DD. Task not added.",
		"Please enter a whole number. Task not added.",
		"progress must be between 0 and 100",
		"Task 'work' marked as completed!",
		"Not allowed:",
		"Current Tasks:",
		"Goodbye!",
	)
	assert.Len(t, f.user.Tasks(), 1)
}

func TestSession_AddTaskConsumesAllAnswersOnBadInput(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, Options{},
		"1", "Pasted", "desc", "tomorrow", "3", "Work",
		"2",
		"20",
	)

	assertInOrder(t, out, "Task not added.", "No tasks available.", "Goodbye!")
	assert.NotContains(t, out, "Invalid option. Please try again.")
	assert.Empty(t, f.user.Tasks())
}

func TestSession_EOFEndsQuietly(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, Options{}, "1", "half a task")

	assert.NotContains(t, out, "added successfully")
	assert.Empty(t, f.user.Tasks())
}

func TestSession_RescheduleDeleteArchive(t *testing.T) {
	f := newFixture(t)
	a := f.task(t, "a", 1)
	b := f.task(t, "b", 2)
	c := f.task(t, "c", 3)

	out := f.run(t, Options{},
		"5", a.ID, "2025-01-31",
		"5", "missing",
		"6", b.ID,
		"9", c.ID,
		"7", a.ID,
		"18",
		"20",
	)

	assertInOrder(t, out,
		"Task 'a' rescheduled to 2025-01-31.",
		"Task not found.",
		"Task 'b' deleted.",
		"Task 'c' archived.",
		"Task 'a' is now in progress.",
		"Completed tasks: 0",
		"Missed deadlines: 0",
		"Active tasks: 1",
	)
	assert.Len(t, f.user.ArchivedTasks(), 1)
}

func TestSession_FilterLabelBreakDown(t *testing.T) {
	f := newFixture(t)
	a := f.task(t, "a", 1)
	a.EstimatedEffort = 7
	f.task(t, "b", 2)

	out := f.run(t, Options{},
		"10", "priority", "2",
		"10", "colour", "red",
		"11", a.ID, "urgent",
		"12", a.ID,
		"20",
	)

	assertInOrder(t, out,
		"[2] b",
		"No matching tasks.",
		"Label 'urgent' added.",
		"Created 3 subtasks:",
		"a (part 1/3)",
	)
	assert.Equal(t, []string{"urgent"}, a.Labels())
	assert.Len(t, f.user.Tasks(), 5)
	assert.Equal(t, 2, f.user.Tasks()[4].EstimatedEffort)
}

func TestSession_SwitchUserAndAssign(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, "shared", 1)

	out := f.run(t, Options{},
		"13", task.ID, "bob",
		"14", "bob",
		"14", "alice",
		"13", task.ID, "bob",
		"14", "bob",
		"2",
		"20",
	)

	assertInOrder(t, out,
		"User not found.",
		"Registered new user bob.",
		"Now acting as bob.",
		"Now acting as alice.",
		"Task assigned to bob.",
		"Now acting as bob.",
		"[1] shared",
	)
	bob, err := f.sys.FindUserByUsername("bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, task.AssignedTo)
}

func TestSession_Goals(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, "a", 1)
	require.NoError(t, f.user.TrackProgress(task.ID, 40))

	session, err := NewSession(Options{System: f.sys, User: f.user, In: strings.NewReader("15\nFitness\nrun more\n")})
	require.NoError(t, err)
	require.NoError(t, session.Run(context.Background()))
	goals := f.user.Goals()
	require.Len(t, goals, 1)

	out := f.run(t, Options{},
		"16", goals[0].ID, task.ID,
		"16", "missing", task.ID,
		"17",
		"20",
	)

	assertInOrder(t, out,
		"Task linked to goal.",
		"Goal not found.",
		"Fitness - 1 tasks, 40% done",
	)
	assert.Equal(t, "Fitness", task.ParentGoal)
}

func TestSession_ExportFiles(t *testing.T) {
	f := newFixture(t)
	f.task(t, "Prepare Report", 1)
	dir := t.TempDir()

	out := f.run(t, Options{ExportDir: dir}, "19", "csv", "19", "json", "19", "xml", "20")

	assert.Contains(t, out, "Tasks exported to "+filepath.Join(dir, "alice_tasks.csv"))
	assert.Contains(t, out, "unsupported export format")

	data, err := os.ReadFile(filepath.Join(dir, "alice_tasks.csv"))
	require.NoError(t, err)
	assertInOrder(t, string(data), "Title,Description,Due Date,Priority,Status,Progress", "Prepare Report,,2024-12-01,1,Pending,0")

	_, err = os.Stat(filepath.Join(dir, "alice_tasks.json"))
	assert.NoError(t, err)
}

func TestSession_ExportDatabase(t *testing.T) {
	f := newFixture(t)
	f.task(t, "a", 1)
	f.task(t, "b", 2)

	out := f.run(t, Options{}, "19", "db", "20")
	assert.Contains(t, out, "Database export is not configured.")

	saver := &fakeSaver{}
	out = f.run(t, Options{Saver: saver}, "19", "db", "20")
	assert.Contains(t, out, "Exported 2 tasks to the database.")
	assert.Equal(t, "alice", saver.username)
	require.Len(t, saver.saved, 2)
	assert.Equal(t, "a", saver.saved[0].Title)

	out = f.run(t, Options{Saver: &fakeSaver{err: errors.New("connection refused")}}, "19", "db", "20")
	assert.Contains(t, out, "connection refused")
}
