package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-insights/internal/analytics"
	"github.com/nhle/task-insights/internal/model"
)

var evening = time.Date(2025, time.March, 10, 22, 15, 0, 0, time.UTC)

func TestDailyCapacityNoTasksToday(t *testing.T) {
	tasks := []model.Task{
		task(1, model.PriorityHigh, day(9), false),
		task(2, model.PriorityLow, day(11), true),
	}
	assert.Nil(t, analytics.EstimateDailyCapacity(tasks, evening, time.UTC))
	assert.Nil(t, analytics.EstimateDailyCapacity(nil, evening, time.UTC))
}

func TestDailyCapacity(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		completed int
		wantRate  float64
		feasible  bool
	}{
		{name: "fits exactly", remaining: 4, completed: 0, wantRate: 0, feasible: true},
		{name: "too much", remaining: 5, completed: 1, wantRate: 100.0 / 6, feasible: false},
		{name: "all done", remaining: 0, completed: 2, wantRate: 100, feasible: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tasks []model.Task
			for i := 0; i < tt.remaining; i++ {
				tasks = append(tasks, task(int64(len(tasks)+1), model.PriorityHigh, day(10), false))
			}
			for i := 0; i < tt.completed; i++ {
				tasks = append(tasks, task(int64(len(tasks)+1), model.PriorityLow, day(10), true))
			}
			tasks = append(tasks, task(99, model.PriorityLow, day(12), false))

			got := analytics.EstimateDailyCapacity(tasks, evening, time.UTC)
			require.NotNil(t, got)
			assert.Equal(t, tt.remaining+tt.completed, got.Total)
			assert.Len(t, got.Tasks, got.Total)
			assert.Equal(t, tt.remaining, got.Remaining)
			assert.InDelta(t, tt.wantRate, got.CompletionRate, 1e-9)
			assert.GreaterOrEqual(t, got.CompletionRate, 0.0)
			assert.LessOrEqual(t, got.CompletionRate, 100.0)
			assert.Equal(t, tt.remaining*analytics.MinutesPerTask, got.EstimatedMinutes)
			assert.Equal(t, 2, got.RemainingHours)
			assert.Equal(t, tt.feasible, got.Feasible)
		})
	}
}

func TestDailyCapacityUsesLocation(t *testing.T) {
	// 22:15 UTC is already 01:15 on the 11th three hours east.
	plus3 := time.FixedZone("UTC+3", 3*60*60)
	tasks := []model.Task{task(1, model.PriorityHigh, day(11), false)}

	assert.Nil(t, analytics.EstimateDailyCapacity(tasks, evening, time.UTC))

	got := analytics.EstimateDailyCapacity(tasks, evening, plus3)
	require.NotNil(t, got)
	assert.Equal(t, 23, got.RemainingHours)
}

func TestTimetableOrdersByPriority(t *testing.T) {
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		task(1, model.PriorityHigh, day(10), false),
		task(2, model.PriorityLow, day(10), false),
		task(3, model.PriorityMedium, day(10), false),
	}

	slots := analytics.GenerateTimetable(tasks, start, time.UTC)
	require.Len(t, slots, 3)

	assert.Equal(t, []int64{1, 3, 2}, []int64{slots[0].TaskID, slots[1].TaskID, slots[2].TaskID})
	assert.Equal(t, []int{60, 45, 30}, []int{slots[0].Minutes, slots[1].Minutes, slots[2].Minutes})
	assert.True(t, slots[0].Start.Equal(start))
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Start.Equal(slots[i-1].End), "slot %d", i)
	}
	for _, s := range slots {
		assert.Equal(t, time.Duration(s.Minutes)*time.Minute, s.End.Sub(s.Start))
	}
}

func TestTimetableIsStableAndFiltered(t *testing.T) {
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		task(1, model.PriorityLow, day(10), false),
		task(2, model.PriorityHigh, day(10), true),
		task(3, model.PriorityLow, day(10), false),
		task(4, model.PriorityHigh, day(11), false),
		task(5, model.PriorityMedium, day(10), false),
		task(6, model.PriorityLow, day(10), false),
	}

	first := analytics.GenerateTimetable(tasks, start, time.UTC)
	second := analytics.GenerateTimetable(tasks, start, time.UTC)
	assert.Equal(t, first, second)

	ids := make([]int64, len(first))
	for i, s := range first {
		ids[i] = s.TaskID
	}
	assert.Equal(t, []int64{5, 1, 3, 6}, ids)
	assert.Equal(t, model.PriorityHigh, tasks[1].Priority, "input must not be reordered")
}

func TestTimetableEmpty(t *testing.T) {
	done := []model.Task{task(1, model.PriorityHigh, day(10), true)}
	assert.Nil(t, analytics.GenerateTimetable(done, evening, time.UTC))
	assert.Nil(t, analytics.GenerateTimetable(nil, evening, time.UTC))
}

func TestSlotMinutes(t *testing.T) {
	assert.Equal(t, 60, analytics.SlotMinutes(model.PriorityHigh))
	assert.Equal(t, 45, analytics.SlotMinutes(model.PriorityMedium))
	assert.Equal(t, 30, analytics.SlotMinutes(model.PriorityLow))
}
