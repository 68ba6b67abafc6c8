package tasklist

import (
	"slices"
	"strings"

	"github.com/nhle/task-insights/internal/model"
)

// SortMode selects the list ordering.
type SortMode int

const (
	// SortCreated shows the newest tasks first.
	SortCreated SortMode = iota
	// SortDue shows the earliest due dates first.
	SortDue
	// SortPriority shows High, then Medium, then Low.
	SortPriority
)

var sortModes = []SortMode{SortCreated, SortDue, SortPriority}

func (s SortMode) String() string {
	switch s {
	case SortDue:
		return "Due Date"
	case SortPriority:
		return "Priority"
	default:
		return "Creation Date"
	}
}

// Next returns the mode after s, wrapping around.
func (s SortMode) Next() SortMode {
	return sortModes[(int(s)+1)%len(sortModes)]
}

// ParseSortMode accepts "created", "due" or "priority".
func ParseSortMode(name string) (SortMode, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "created", "creation", "created_at":
		return SortCreated, true
	case "due", "due_date":
		return SortDue, true
	case "priority":
		return SortPriority, true
	}
	return SortCreated, false
}

// View is the filter and ordering applied to the loaded tasks.
type View struct {
	Sort          SortMode
	ShowCompleted bool
	Query         string
}

// Apply returns the visible tasks in display order. Every ordering is
// stable, so ties keep insertion order.
func (v View) Apply(tasks []model.Task) []model.Task {
	query := strings.ToLower(strings.TrimSpace(v.Query))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed && !v.ShowCompleted {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		out = append(out, t)
	}

	switch v.Sort {
	case SortDue:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return a.DueDay().Compare(b.DueDay())
		})
	case SortPriority:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return a.Priority.Rank() - b.Priority.Rank()
		})
	default:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return out
}
