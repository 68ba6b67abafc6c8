package analytics

import (
	"time"

	"github.com/nhle/task-insights/internal/model"
)

// MinutesPerTask is the flat effort estimate used for daily capacity,
// regardless of priority. Timetable slots use SlotMinutes instead.
const MinutesPerTask = 30

// DailyCapacity summarizes the tasks due today.
type DailyCapacity struct {
	Tasks []model.Task `json:"tasks"`

	Total     int `json:"total"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`

	// CompletionRate is a percentage in [0,100].
	CompletionRate float64 `json:"completion_rate"`

	EstimatedMinutes int  `json:"estimated_minutes"`
	RemainingHours   int  `json:"remaining_hours"`
	Feasible         bool `json:"feasible"`
}

// EstimateDailyCapacity decides whether the incomplete tasks due today fit
// in the hours left in the day. It returns nil when no task is due today.
// Today and the current hour are read in loc.
func EstimateDailyCapacity(tasks []model.Task, now time.Time, loc *time.Location) *DailyCapacity {
	if loc == nil {
		loc = time.Local
	}

	var today []model.Task
	completed := 0
	for _, t := range tasks {
		if !t.DueOn(now, loc) {
			continue
		}
		today = append(today, t)
		if t.Completed {
			completed++
		}
	}
	if len(today) == 0 {
		return nil
	}

	remaining := len(today) - completed
	hours := 24 - now.In(loc).Hour()
	minutes := remaining * MinutesPerTask

	return &DailyCapacity{
		Tasks:            today,
		Total:            len(today),
		Completed:        completed,
		Remaining:        remaining,
		CompletionRate:   float64(completed) / float64(len(today)) * 100,
		EstimatedMinutes: minutes,
		RemainingHours:   hours,
		Feasible:         minutes <= hours*60,
	}
}
