package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Logger writes leveled lines through the standard library logger. A nil
// *Logger is valid and drops everything.
type Logger struct {
	out   *log.Logger
	file  *os.File
	debug bool
}

// New creates a logger writing to w.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{
		out:   log.New(w, "", log.LstdFlags),
		debug: debug,
	}
}

// Discard returns a logger that writes nowhere.
func Discard() *Logger {
	return New(io.Discard, false)
}

// Open appends to the log file at path, creating parent directories.
func Open(path string, debug bool) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	l := New(f, debug)
	l.file = f
	return l, nil
}

// Close releases the file handle, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) Infof(format string, args ...any) {
	l.printf("INFO", format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.printf("ERROR", format, args...)
}

// Debugf only writes when the logger was created with debug enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.debug {
		return
	}
	l.printf("DEBUG", format, args...)
}

func (l *Logger) printf(level, format string, args ...any) {
	if l == nil || l.out == nil {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}
