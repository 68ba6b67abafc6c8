package analytics

import (
	"slices"
	"time"

	"github.com/nhle/task-insights/internal/model"
)

// Slot is one scheduled block of the day's timetable.
type Slot struct {
	TaskID      int64          `json:"task_id"`
	Description string         `json:"description"`
	Priority    model.Priority `json:"priority"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Minutes     int            `json:"duration_minutes"`
}

// SlotMinutes returns the time allotted to a task of priority p.
func SlotMinutes(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 60
	case model.PriorityMedium:
		return 45
	default:
		return 30
	}
}

// GenerateTimetable schedules today's incomplete tasks back to back from
// now, highest priority first. Tasks of equal priority keep their input
// order. It returns nil when nothing qualifies.
func GenerateTimetable(tasks []model.Task, now time.Time, loc *time.Location) []Slot {
	if loc == nil {
		loc = time.Local
	}

	var pending []model.Task
	for _, t := range tasks {
		if !t.Completed && t.DueOn(now, loc) {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	slices.SortStableFunc(pending, func(a, b model.Task) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})

	slots := make([]Slot, 0, len(pending))
	start := now.In(loc)
	for _, t := range pending {
		minutes := SlotMinutes(t.Priority)
		end := start.Add(time.Duration(minutes) * time.Minute)
		slots = append(slots, Slot{
			TaskID:      t.ID,
			Description: t.Description,
			Priority:    t.Priority,
			Start:       start,
			End:         end,
			Minutes:     minutes,
		})
		start = end
	}
	return slots
}
