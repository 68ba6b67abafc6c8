// Package analytics implements the productivity pipeline behind the
// dashboard: feature derivation, the completion classifier, the daily
// capacity heuristic, the greedy timetable, and per-priority statistics.
package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/nhle/task-insights/internal/model"
)

var (
	// ErrNoTasks is returned when an analysis step receives no tasks.
	ErrNoTasks = errors.New("no tasks to analyze")

	// ErrMalformedTask is returned when a task is missing a required field
	// or carries an unknown priority.
	ErrMalformedTask = errors.New("malformed task")
)

// Feature names in the order Vector and CalendarVector emit them.
var (
	DashboardFeatures = []string{"days_to_due", "priority_encoded"}
	TrainerFeatures   = []string{"days_until_due", "hour_created", "day_of_week_created", "priority_encoded"}
)

// FeatureRow is the numeric view of one task.
type FeatureRow struct {
	TaskID      int64          `json:"task_id"`
	Description string         `json:"description"`
	Priority    model.Priority `json:"priority"`

	// DaysToDue is signed: negative when the task was created after its
	// due date.
	DaysToDue       int `json:"days_to_due"`
	PriorityEncoded int `json:"priority_encoded"`

	// HourCreated and DayOfWeekCreated (Monday=0) feed the offline trainer.
	HourCreated      int `json:"hour_created"`
	DayOfWeekCreated int `json:"day_of_week_created"`

	IsCompleted int `json:"is_completed"`
}

// Vector returns the dashboard model inputs.
func (r FeatureRow) Vector() []float64 {
	return []float64{float64(r.DaysToDue), float64(r.PriorityEncoded)}
}

// CalendarVector returns the offline trainer inputs.
func (r FeatureRow) CalendarVector() []float64 {
	return []float64{
		float64(r.DaysToDue),
		float64(r.HourCreated),
		float64(r.DayOfWeekCreated),
		float64(r.PriorityEncoded),
	}
}

// FeatureBuilder derives feature rows from task records. Calendar values
// of created_at are read in Location.
type FeatureBuilder struct {
	Location *time.Location
}

// NewFeatureBuilder returns a builder for loc; nil means time.Local.
func NewFeatureBuilder(loc *time.Location) FeatureBuilder {
	if loc == nil {
		loc = time.Local
	}
	return FeatureBuilder{Location: loc}
}

// Build produces one row per task, in input order.
func (b FeatureBuilder) Build(tasks []model.Task) ([]FeatureRow, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	rows := make([]FeatureRow, 0, len(tasks))
	for _, t := range tasks {
		row, err := b.row(t)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (b FeatureBuilder) row(t model.Task) (FeatureRow, error) {
	switch {
	case t.CreatedAt.IsZero():
		return FeatureRow{}, fmt.Errorf("task %d: %w: missing created_at", t.ID, ErrMalformedTask)
	case t.DueDate.IsZero():
		return FeatureRow{}, fmt.Errorf("task %d: %w: missing due_date", t.ID, ErrMalformedTask)
	case !t.Priority.Valid():
		return FeatureRow{}, fmt.Errorf("task %d: %w: unknown priority %q", t.ID, ErrMalformedTask, t.Priority)
	}

	loc := b.Location
	if loc == nil {
		loc = time.Local
	}
	created := t.CreatedAt.In(loc)

	row := FeatureRow{
		TaskID:           t.ID,
		Description:      t.Description,
		Priority:         t.Priority,
		DaysToDue:        DaysToDue(t.DueDate, t.CreatedAt, loc),
		PriorityEncoded:  t.Priority.Code(),
		HourCreated:      created.Hour(),
		DayOfWeekCreated: (int(created.Weekday()) + 6) % 7,
	}
	if t.Completed {
		row.IsCompleted = 1
	}
	return row, nil
}

// DaysToDue counts calendar days from the creation date to the due date.
// The result is not clamped. This is not floor((due - created) / 24h): a
// task created at 15:00 and due five dates later counts 5 here where the
// timestamp floor gives 4, so the count never depends on time of day.
func DaysToDue(due, created time.Time, loc *time.Location) int {
	d := model.CalendarDate(due).Sub(model.DateOf(created, loc))
	return int(d.Hours() / 24)
}
