package cli

import (
	"context"
	"strconv"

	"github.com/gurkanbulca/taskplanner/internal/export"
	"github.com/gurkanbulca/taskplanner/internal/models"
	"github.com/gurkanbulca/taskplanner/internal/service"
)

// addTask reads every field before validating so a bad answer never leaves
// later answers to be read as menu choices.
func (s *Session) addTask(context.Context) error {
	title, err := s.prompt("Enter task title: ")
	if err != nil {
		return err
	}
	description, err := s.prompt("Enter task description: ")
	if err != nil {
		return err
	}
	dueRaw, err := s.prompt("Enter task due date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	priorityRaw, err := s.prompt("Enter task priority (1 for high, 10 for low): ")
	if err != nil {
		return err
	}
	category, err := s.prompt("Enter task category (optional): ")
	if err != nil {
		return err
	}

	due, parseErr := models.ParseDate(dueRaw)
	if parseErr != nil {
		s.fail("Invalid date, expected YYYY-MM-DD. Task not added.")
		return nil
	}
	priority, convErr := strconv.Atoi(priorityRaw)
	if convErr != nil {
		s.fail("Please enter a whole number. Task not added.")
		return nil
	}

	task, err := s.user.CreateTask(service.TaskInput{
		Title:       title,
		Description: description,
		DueDate:     due,
		Priority:    priority,
		Category:    category,
	})
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Task '%s' added successfully!\n", task.Title)
	s.printf("ID: %s\n", task.ID)
	return nil
}

func (s *Session) viewTasks(context.Context) error {
	tasks := s.user.Tasks()
	if len(tasks) == 0 {
		s.println("No tasks available.")
		return nil
	}
	s.println(titleStyle.Render("Current Tasks:"))
	s.printTasks(tasks)
	return nil
}

func (s *Session) printTasks(tasks []*models.Task) {
	for _, t := range tasks {
		s.printf("%s\n    ID: %s\n", t, t.ID)
	}
}

func (s *Session) completeTask(context.Context) error {
	id, err := s.prompt("Enter task ID to mark as complete: ")
	if err != nil {
		return err
	}
	task, err := s.user.CompleteTask(id)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Task '%s' marked as completed!\n", task.Title)
	return nil
}

func (s *Session) nextTask(context.Context) error {
	task, ok := s.user.NextTask()
	if !ok {
		s.println("No pending tasks available.")
		return nil
	}
	s.println("Next task based on priority:")
	s.printTasks([]*models.Task{task})
	return nil
}

func (s *Session) rescheduleTask(context.Context) error {
	id, err := s.prompt("Enter task ID to reschedule: ")
	if err != nil {
		return err
	}
	if _, err := s.user.GetTask(id); err != nil {
		s.report(err)
		return nil
	}
	dueRaw, err := s.prompt("Enter new due date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	due, parseErr := models.ParseDate(dueRaw)
	if parseErr != nil {
		s.fail("Invalid date, expected YYYY-MM-DD.")
		return nil
	}

	task, err := s.user.RescheduleTask(id, service.RescheduleInput{DueDate: &due})
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Task '%s' rescheduled to %s.\n", task.Title, task.DueDate.Format(models.DateLayout))
	return nil
}

func (s *Session) deleteTask(context.Context) error {
	id, err := s.prompt("Enter task ID to delete: ")
	if err != nil {
		return err
	}
	task, err := s.user.DeleteTask(id)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Task '%s' deleted.\n", task.Title)
	return nil
}

func (s *Session) startTask(context.Context) error {
	id, err := s.prompt("Enter task ID to start: ")
	if err != nil {
		return err
	}
	task, err := s.user.StartTask(id)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Task '%s' is now in progress.\n", task.Title)
	return nil
}

func (s *Session) updateProgress(context.Context) error {
	id, err := s.prompt("Enter task ID: ")
	if err != nil {
		return err
	}
	value, ok, err := s.promptInt("Enter progress (0-100): ")
	if err != nil || !ok {
		return err
	}
	if err := s.user.TrackProgress(id, value); err != nil {
		s.report(err)
		return nil
	}
	s.printf("Progress updated to %d%%.\n", value)
	return nil
}

func (s *Session) archiveTask(context.Context) error {
	id, err := s.prompt("Enter task ID to archive: ")
	if err != nil {
		return err
	}
	task, err := s.user.ArchiveTask(id)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Task '%s' archived.\n", task.Title)
	return nil
}

func (s *Session) filterTasks(context.Context) error {
	criterion, err := s.prompt("Filter by (priority/due_date/category): ")
	if err != nil {
		return err
	}
	value, err := s.prompt("Enter value: ")
	if err != nil {
		return err
	}
	tasks := s.user.FilterTasks(criterion, value)
	if len(tasks) == 0 {
		s.println("No matching tasks.")
		return nil
	}
	s.printTasks(tasks)
	return nil
}

func (s *Session) addLabel(context.Context) error {
	id, err := s.prompt("Enter task ID: ")
	if err != nil {
		return err
	}
	label, err := s.prompt("Enter label: ")
	if err != nil {
		return err
	}
	if err := s.user.AddLabel(id, label); err != nil {
		s.report(err)
		return nil
	}
	s.printf("Label '%s' added.\n", label)
	return nil
}

func (s *Session) breakDownTask(context.Context) error {
	id, err := s.prompt("Enter task ID to break down: ")
	if err != nil {
		return err
	}
	subtasks, err := s.sys.BreakDownTask(id, s.user.ID)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Created %d subtasks:\n", len(subtasks))
	s.printTasks(subtasks)
	return nil
}

func (s *Session) assignTask(context.Context) error {
	id, err := s.prompt("Enter task ID to assign: ")
	if err != nil {
		return err
	}
	username, err := s.prompt("Assign to username: ")
	if err != nil {
		return err
	}
	target, err := s.sys.FindUserByUsername(username)
	if err != nil {
		s.report(err)
		return nil
	}
	if err := s.sys.AssignTask(s.user.ID, id, target.ID); err != nil {
		s.report(err)
		return nil
	}
	s.printf("Task assigned to %s.\n", target.Username)
	return nil
}

// switchUser changes the acting user, registering the name if it is new.
func (s *Session) switchUser(context.Context) error {
	username, err := s.prompt("Enter username: ")
	if err != nil {
		return err
	}
	u, err := s.sys.FindUserByUsername(username)
	if err != nil {
		u, err = s.sys.RegisterUser(username)
		if err != nil {
			s.report(err)
			return nil
		}
		s.printf("Registered new user %s.\n", u.Username)
	}
	s.user = u
	s.printf("Now acting as %s.\n", u.Username)
	return nil
}

func (s *Session) createGoal(context.Context) error {
	title, err := s.prompt("Enter goal title: ")
	if err != nil {
		return err
	}
	description, err := s.prompt("Enter goal description: ")
	if err != nil {
		return err
	}
	goal, err := s.user.CreateGoal(title, description)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Goal '%s' created.\nID: %s\n", goal.Title, goal.ID)
	return nil
}

func (s *Session) linkGoal(context.Context) error {
	goalID, err := s.prompt("Enter goal ID: ")
	if err != nil {
		return err
	}
	taskID, err := s.prompt("Enter task ID: ")
	if err != nil {
		return err
	}
	if err := s.user.LinkTaskToGoal(goalID, taskID); err != nil {
		s.report(err)
		return nil
	}
	s.println("Task linked to goal.")
	return nil
}

func (s *Session) viewGoals(context.Context) error {
	goals := s.user.Goals()
	if len(goals) == 0 {
		s.println("No goals available.")
		return nil
	}
	for _, g := range goals {
		progress, err := s.user.GoalProgress(g.ID)
		if err != nil {
			s.report(err)
			continue
		}
		s.printf("%s - %d tasks, %d%% done\n    ID: %s\n", g.Title, len(g.TaskIDs()), progress, g.ID)
	}
	return nil
}

func (s *Session) dashboard(context.Context) error {
	d, err := s.sys.ProductivityDashboard(s.user.ID)
	if err != nil {
		s.report(err)
		return nil
	}
	s.println(titleStyle.Render("Productivity Dashboard"))
	s.printf("Completed tasks: %d\n", d.Completed)
	s.printf("Missed deadlines: %d\n", d.MissedDeadlines)
	s.printf("Active tasks: %d\n", d.ActiveTasks)
	return nil
}

func (s *Session) exportTasks(ctx context.Context) error {
	choice, err := s.prompt("Export format (csv/json/yaml/db): ")
	if err != nil {
		return err
	}
	snapshots := s.user.Snapshot()

	if choice == "db" {
		if s.saver == nil {
			s.fail("Database export is not configured.")
			return nil
		}
		if err := s.saver.SaveSnapshots(ctx, s.user.Username, snapshots); err != nil {
			s.logger.Errorf("database export for %s: %v", s.user.Username, err)
			s.report(err)
			return nil
		}
		s.printf("Exported %d tasks to the database.\n", len(snapshots))
		return nil
	}

	format, err := export.ParseFormat(choice)
	if err != nil {
		s.report(err)
		return nil
	}
	path, err := export.ToFile(s.exportDir, s.user.Username, format, snapshots)
	if err != nil {
		s.logger.Errorf("file export for %s: %v", s.user.Username, err)
		s.report(err)
		return nil
	}
	s.printf("Tasks exported to %s\n", path)
	return nil
}

func (s *Session) exit(context.Context) error {
	s.println("Exiting Task Manager. Goodbye!")
	return errExit
}
