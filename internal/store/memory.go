package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/nhle/task-insights/internal/model"
)

// MemoryStore is an in-memory TaskStore for a single session. Tasks are
// kept in a linked hash map so enumeration follows insertion order while
// lookups by id stay constant time.
type MemoryStore struct {
	mu     sync.Mutex
	tasks  *linkedhashmap.Map // int64 -> *model.Task
	nextID int64
	settings
}

// NewMemoryStore creates an empty MemoryStore. WithLocation and WithClock
// apply as they do for SQLiteStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		tasks:    linkedhashmap.New(),
		nextID:   1,
		settings: newSettings(opts),
	}
}

// Close is a no-op; the tasks are dropped with the store.
func (m *MemoryStore) Close() error { return nil }

// ListTasks returns copies of all tasks in insertion order.
func (m *MemoryStore) ListTasks(_ context.Context) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]model.Task, 0, m.tasks.Size())
	for _, v := range m.tasks.Values() {
		tasks = append(tasks, *v.(*model.Task))
	}
	return tasks, nil
}

// AddTask appends a task with the next id in sequence.
func (m *MemoryStore) AddTask(
	_ context.Context,
	description string,
	dueDate time.Time,
	priority model.Priority,
) (model.Task, error) {
	if err := validateNewTask(description, priority); err != nil {
		return model.Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task := &model.Task{
		ID:          m.nextID,
		Description: strings.TrimSpace(description),
		DueDate:     model.NewDate(dueDate.Year(), dueDate.Month(), dueDate.Day(), m.loc),
		Priority:    priority,
		CreatedAt:   m.now(),
	}
	m.nextID++
	m.tasks.Put(task.ID, task)
	return *task, nil
}

// ToggleComplete flips the completion flag of a task.
func (m *MemoryStore) ToggleComplete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.tasks.Get(id)
	if !ok {
		return fmt.Errorf("toggling task %d: %w", id, ErrNotFound)
	}
	t := v.(*model.Task)
	t.Completed = !t.Completed
	return nil
}

// DeleteTask removes a task. The id is not reused.
func (m *MemoryStore) DeleteTask(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks.Get(id); !ok {
		return fmt.Errorf("deleting task %d: %w", id, ErrNotFound)
	}
	m.tasks.Remove(id)
	return nil
}
