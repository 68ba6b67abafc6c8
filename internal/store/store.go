package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/nhle/task-insights/internal/model"
)

var (
	// ErrNotFound is returned when a task id does not exist in the store.
	ErrNotFound = errors.New("task not found")

	// ErrEmptyDescription is returned by AddTask for a blank description.
	ErrEmptyDescription = errors.New("task description must not be empty")

	// ErrInvalidPriority is returned by AddTask for an unknown priority.
	ErrInvalidPriority = errors.New("invalid task priority")
)

// TaskStore defines the persistence interface the analytics core and the
// presentation layers consume. Implementations assign ids monotonically
// and never reuse an id after deletion.
type TaskStore interface {
	// ListTasks returns every task in insertion order.
	ListTasks(ctx context.Context) ([]model.Task, error)

	// AddTask creates a task with CreatedAt set to now and Completed false.
	AddTask(
		ctx context.Context,
		description string,
		dueDate time.Time,
		priority model.Priority,
	) (model.Task, error)

	// ToggleComplete flips the completion flag of a task.
	ToggleComplete(ctx context.Context, id int64) error

	// DeleteTask removes a task permanently.
	DeleteTask(ctx context.Context, id int64) error
}

// MemoryPath selects the session-only MemoryStore in Open.
const MemoryPath = ":memory:"

// Backend is a TaskStore that owns resources released by Close.
type Backend interface {
	TaskStore
	io.Closer
}

// Open returns a MemoryStore for MemoryPath and a SQLiteStore at path
// otherwise.
func Open(path string, opts ...Option) (Backend, error) {
	if path == MemoryPath {
		return NewMemoryStore(opts...), nil
	}
	s, err := NewSQLiteStore(path, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// validateNewTask checks the fields a user supplies when adding a task.
func validateNewTask(description string, priority model.Priority) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	if !priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}
