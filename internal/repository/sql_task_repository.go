// internal/repository/sql_task_repository.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/taskplanner/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS task_snapshots (
	username         TEXT      NOT NULL,
	id               TEXT      NOT NULL,
	position         INTEGER   NOT NULL,
	title            TEXT      NOT NULL,
	description      TEXT      NOT NULL DEFAULT '',
	due_date         TEXT      NOT NULL,
	priority         INTEGER   NOT NULL,
	estimated_effort INTEGER   NOT NULL DEFAULT 0,
	category         TEXT      NOT NULL DEFAULT '',
	status           TEXT      NOT NULL,
	progress         INTEGER   NOT NULL DEFAULT 0,
	labels           TEXT      NOT NULL DEFAULT '[]',
	assigned_to      TEXT,
	parent_goal      TEXT,
	exported_at      TIMESTAMP NOT NULL,
	PRIMARY KEY (username, id)
)`

const insertSnapshot = `
INSERT INTO task_snapshots (
	username, id, position, title, description, due_date, priority,
	estimated_effort, category, status, progress, labels,
	assigned_to, parent_goal, exported_at
) VALUES (
	:username, :id, :position, :title, :description, :due_date, :priority,
	:estimated_effort, :category, :status, :progress, :labels,
	:assigned_to, :parent_goal, :exported_at
)`

// SQLTaskRepository stores exported task snapshots in a SQL table.
type SQLTaskRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSQLTaskRepository(db *sqlx.DB) *SQLTaskRepository {
	return &SQLTaskRepository{
		db:  db,
		now: time.Now,
	}
}

// EnsureSchema creates the snapshot table if it does not exist.
func (r *SQLTaskRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create task_snapshots: %w", err)
	}
	return nil
}

// SaveSnapshots replaces the stored snapshots of username with tasks in a
// single transaction.
func (r *SQLTaskRepository) SaveSnapshots(ctx context.Context, username string, tasks []models.TaskSnapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	del := tx.Rebind("DELETE FROM task_snapshots WHERE username = ?")
	if _, err := tx.ExecContext(ctx, del, username); err != nil {
		return rollback(tx, fmt.Errorf("clear snapshots for %s: %w", username, err))
	}

	exportedAt := r.now().UTC()
	for i, t := range tasks {
		row, err := toRow(username, i, t, exportedAt)
		if err != nil {
			return rollback(tx, err)
		}
		if _, err := tx.NamedExecContext(ctx, insertSnapshot, row); err != nil {
			return rollback(tx, fmt.Errorf("insert snapshot %s: %w", t.ID, err))
		}
	}

	return tx.Commit()
}

// List returns stored snapshots in export order along with the total count
// before pagination.
func (r *SQLTaskRepository) List(ctx context.Context, filter ListFilter) ([]models.TaskSnapshot, int, error) {
	var (
		where []string
		args  []any
	)
	if filter.Username != nil {
		where = append(where, "username = ?")
		args = append(args, *filter.Username)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Category != nil {
		where = append(where, "category = ?")
		args = append(args, *filter.Category)
	}
	if filter.Search != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, pattern, pattern)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	// Get total count before pagination
	var totalCount int
	countQuery := r.db.Rebind("SELECT COUNT(*) FROM task_snapshots" + clause)
	if err := r.db.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count snapshots: %w", err)
	}

	query := "SELECT * FROM task_snapshots" + clause
	switch filter.SortBy {
	case "priority":
		query += " ORDER BY priority, username, position"
	case "due_date":
		query += " ORDER BY due_date, username, position"
	default:
		query += " ORDER BY username, position"
	}

	// Apply pagination
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("query snapshots: %w", err)
	}

	out := make([]models.TaskSnapshot, 0, len(rows))
	for _, row := range rows {
		snap, err := row.toSnapshot()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, snap)
	}
	return out, totalCount, nil
}

// Helper function for transaction rollback
func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

// ListFilter narrows List. Nil fields match everything.
type ListFilter struct {
	Username *string
	Status   *models.Status
	Category *string
	Search   string
	SortBy   string
	Limit    int
	Offset   int
}

type taskRow struct {
	Username        string         `db:"username"`
	ID              string         `db:"id"`
	Position        int            `db:"position"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	DueDate         string         `db:"due_date"`
	Priority        int            `db:"priority"`
	EstimatedEffort int            `db:"estimated_effort"`
	Category        string         `db:"category"`
	Status          string         `db:"status"`
	Progress        int            `db:"progress"`
	Labels          string         `db:"labels"`
	AssignedTo      sql.NullString `db:"assigned_to"`
	ParentGoal      sql.NullString `db:"parent_goal"`
	ExportedAt      time.Time      `db:"exported_at"`
}

func toRow(username string, position int, t models.TaskSnapshot, exportedAt time.Time) (taskRow, error) {
	labels := t.Labels
	if labels == nil {
		labels = []string{}
	}
	encoded, err := json.Marshal(labels)
	if err != nil {
		return taskRow{}, fmt.Errorf("encode labels: %w", err)
	}
	return taskRow{
		Username:        username,
		ID:              t.ID,
		Position:        position,
		Title:           t.Title,
		Description:     t.Description,
		DueDate:         t.DueDate,
		Priority:        t.Priority,
		EstimatedEffort: t.EstimatedEffort,
		Category:        t.Category,
		Status:          string(t.Status),
		Progress:        t.Progress,
		Labels:          string(encoded),
		AssignedTo:      sql.NullString{String: t.AssignedTo, Valid: t.AssignedTo != ""},
		ParentGoal:      sql.NullString{String: t.ParentGoal, Valid: t.ParentGoal != ""},
		ExportedAt:      exportedAt,
	}, nil
}

func (row taskRow) toSnapshot() (models.TaskSnapshot, error) {
	var labels []string
	if err := json.Unmarshal([]byte(row.Labels), &labels); err != nil {
		return models.TaskSnapshot{}, fmt.Errorf("decode labels of %s: %w", row.ID, err)
	}
	if len(labels) == 0 {
		labels = nil
	}
	return models.TaskSnapshot{
		ID:              row.ID,
		Title:           row.Title,
		Description:     row.Description,
		DueDate:         row.DueDate,
		Priority:        row.Priority,
		EstimatedEffort: row.EstimatedEffort,
		Category:        row.Category,
		Status:          models.Status(row.Status),
		Progress:        row.Progress,
		Labels:          labels,
		AssignedTo:      row.AssignedTo.String,
		ParentGoal:      row.ParentGoal.String,
	}, nil
}
