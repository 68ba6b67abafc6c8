package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/task-insights/internal/model"
)

// SQLiteStore implements TaskStore using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
	settings
}

// settings holds the options shared by every TaskStore implementation.
type settings struct {
	loc *time.Location
	now func() time.Time
}

// Option customizes a store.
type Option func(*settings)

// WithLocation sets the zone due dates are materialized in.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// taskRow mirrors a row of the tasks table.
type taskRow struct {
	ID          int64     `db:"id"`
	Description string    `db:"description"`
	DueDate     string    `db:"due_date"`
	Priority    string    `db:"priority"`
	CreatedAt   time.Time `db:"created_at"`
	Completed   bool      `db:"completed"`
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes
	// writes from the one owning session.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, settings: newSettings(opts)}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ListTasks returns all tasks ordered by id, which is insertion order.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, description, due_date, priority, created_at, completed
		FROM tasks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		t, err := s.toTask(r)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// GetTask retrieves a single task by id.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (model.Task, error) {
	var r taskRow
	err := s.db.GetContext(ctx, &r, `
		SELECT id, description, due_date, priority, created_at, completed
		FROM tasks WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("getting task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("getting task %d: %w", id, err)
	}
	return s.toTask(r)
}

// AddTask inserts a new task. The id comes from SQLite AUTOINCREMENT, so
// ids of deleted tasks are never handed out again.
func (s *SQLiteStore) AddTask(
	ctx context.Context,
	description string,
	dueDate time.Time,
	priority model.Priority,
) (model.Task, error) {
	if err := validateNewTask(description, priority); err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		Description: strings.TrimSpace(description),
		DueDate:     model.NewDate(dueDate.Year(), dueDate.Month(), dueDate.Day(), s.loc),
		Priority:    priority,
		CreatedAt:   s.now(),
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (description, due_date, priority, created_at, completed)
		VALUES (?, ?, ?, ?, ?)`,
		task.Description, task.DueDate.Format(model.DateLayout),
		string(task.Priority), task.CreatedAt, boolToInt(false),
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Task{}, fmt.Errorf("reading new task id: %w", err)
	}
	task.ID = id
	return task, nil
}

// ToggleComplete flips the completed flag of a task.
func (s *SQLiteStore) ToggleComplete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET completed = CASE WHEN completed = 0 THEN 1 ELSE 0 END WHERE id = ?",
		id)
	if err != nil {
		return fmt.Errorf("toggling task %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("toggling task %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteTask removes a task by id.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting task %d: %w", id, ErrNotFound)
	}
	return nil
}

// toTask converts a scanned row into a model.Task.
func (s *SQLiteStore) toTask(r taskRow) (model.Task, error) {
	due, err := model.ParseDate(r.DueDate, s.loc)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task %d: %w", r.ID, err)
	}
	return model.Task{
		ID:          r.ID,
		Description: r.Description,
		DueDate:     due,
		Priority:    model.Priority(r.Priority),
		CreatedAt:   r.CreatedAt.In(s.loc),
		Completed:   r.Completed,
	}, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
