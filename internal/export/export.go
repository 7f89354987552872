// Package export renders task snapshots to CSV, JSON and YAML files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gurkanbulca/taskplanner/internal/models"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// csvHeader is the fixed header row of CSV exports.
var csvHeader = []string{"Title", "Description", "Due Date", "Priority", "Status", "Progress"}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
}

// FileName returns "<username>_tasks.<ext>". Directory parts of username are
// dropped so the file always lands directly in the export directory.
func FileName(username string, f Format) string {
	name := filepath.Base(strings.ReplaceAll(username, `\`, "/"))
	return fmt.Sprintf("%s_tasks.%s", name, f)
}

// Write renders snapshots to w in the given format.
func Write(w io.Writer, f Format, tasks []models.TaskSnapshot) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, tasks)
	case FormatJSON:
		return WriteJSON(w, tasks)
	case FormatYAML:
		return WriteYAML(w, tasks)
	default:
		return fmt.Errorf("unsupported export format: %q", f)
	}
}

// ToFile writes the export into dir and returns the file path.
func ToFile(dir, username string, f Format, tasks []models.TaskSnapshot) (string, error) {
	f, err := ParseFormat(string(f))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(username, f))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := Write(file, f, tasks); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

func WriteCSV(w io.Writer, tasks []models.TaskSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range tasks {
		row := []string{
			t.Title,
			t.Description,
			t.DueDate,
			strconv.Itoa(t.Priority),
			t.Status.Label(),
			strconv.Itoa(t.Progress),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes an indented JSON array. An empty list is written as [].
func WriteJSON(w io.Writer, tasks []models.TaskSnapshot) error {
	if tasks == nil {
		tasks = []models.TaskSnapshot{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func WriteYAML(w io.Writer, tasks []models.TaskSnapshot) error {
	if tasks == nil {
		tasks = []models.TaskSnapshot{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
