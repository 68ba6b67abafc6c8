package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for due dates in storage,
// forms, and CSV exports.
const DateLayout = "2006-01-02"

// Priority is the ordinal importance a user assigns to a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DefaultPriority is preselected when a task is added without one.
const DefaultPriority = PriorityLow

// Priorities lists every known priority in encoding order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority converts a label into a Priority. Matching ignores case and
// surrounding whitespace.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// Valid reports whether p is one of the three known labels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Code returns the fixed numeric encoding used as a model feature:
// Low=0, Medium=1, High=2. Unknown labels return -1.
func (p Priority) Code() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	default:
		return -1
	}
}

// Rank orders priorities for scheduling and sorting (High first).
// Unknown labels sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

func (p Priority) String() string { return string(p) }

// Task is a unit of work recorded by the user.
type Task struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"due_date" db:"-"`
	Priority    Priority  `json:"priority" db:"priority"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Completed   bool      `json:"completed" db:"completed"`
}

// DueDay returns the task's due date as a calendar date. Due dates carry no
// time component, so the date is read in the value's own location.
func (t Task) DueDay() time.Time {
	return CalendarDate(t.DueDate)
}

// DueOn reports whether the task is due on the calendar date of the
// timestamp day, evaluated in loc.
func (t Task) DueOn(day time.Time, loc *time.Location) bool {
	return t.DueDay().Equal(DateOf(day, loc))
}

// IsOverdue reports whether an incomplete task's due date is before today.
func (t Task) IsOverdue(now time.Time, loc *time.Location) bool {
	if t.Completed || t.DueDate.IsZero() {
		return false
	}
	return t.DueDay().Before(DateOf(now, loc))
}

// CalendarDate strips the time of day from t without changing zones.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to midnight of its calendar date in loc. The result
// is expressed in UTC so that date arithmetic is free of DST shifts.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDate builds a due date (midnight, no time component) in loc.
func NewDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// ParseDate parses a YYYY-MM-DD due date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
