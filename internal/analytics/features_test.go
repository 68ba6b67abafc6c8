package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-insights/internal/analytics"
	"github.com/nhle/task-insights/internal/model"
)

// monday is a Monday evening, late enough that a zone east of UTC is
// already on Tuesday.
var monday = time.Date(2025, time.March, 10, 23, 30, 0, 0, time.UTC)

func task(id int64, p model.Priority, due time.Time, completed bool) model.Task {
	return model.Task{
		ID:          id,
		Description: "task",
		DueDate:     due,
		Priority:    p,
		CreatedAt:   monday,
		Completed:   completed,
	}
}

func day(d int) time.Time {
	return model.NewDate(2025, time.March, d, time.UTC)
}

func TestDaysToDueIsSignedAndUnclamped(t *testing.T) {
	rows, err := analytics.NewFeatureBuilder(time.UTC).Build([]model.Task{
		task(1, model.PriorityHigh, day(15), false),
		task(2, model.PriorityLow, day(7), false),
		task(3, model.PriorityMedium, day(10), true),
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 5, rows[0].DaysToDue)
	assert.Equal(t, -3, rows[1].DaysToDue)
	assert.Equal(t, 0, rows[2].DaysToDue)
}

func TestDaysToDueIgnoresTimeOfDay(t *testing.T) {
	due := day(15)
	afternoon := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, 4, int(due.Sub(afternoon).Hours()/24))
	assert.Equal(t, 5, analytics.DaysToDue(due, afternoon, time.UTC))
	assert.Equal(t, 5, analytics.DaysToDue(due, day(10), time.UTC))
	assert.Equal(t, -3, analytics.DaysToDue(day(7), afternoon, time.UTC))
}

func TestPriorityEncodingIsFixed(t *testing.T) {
	b := analytics.NewFeatureBuilder(time.UTC)

	onlyHigh, err := b.Build([]model.Task{task(1, model.PriorityHigh, day(12), false)})
	require.NoError(t, err)
	mixed, err := b.Build([]model.Task{
		task(1, model.PriorityLow, day(12), false),
		task(2, model.PriorityHigh, day(12), false),
		task(3, model.PriorityMedium, day(12), false),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, onlyHigh[0].PriorityEncoded)
	assert.Equal(t, []int{0, 2, 1}, []int{
		mixed[0].PriorityEncoded, mixed[1].PriorityEncoded, mixed[2].PriorityEncoded,
	})
}

func TestCalendarFeaturesUseLocation(t *testing.T) {
	plus3 := time.FixedZone("UTC+3", 3*60*60)

	utc, err := analytics.NewFeatureBuilder(time.UTC).Build([]model.Task{task(1, model.PriorityLow, day(15), true)})
	require.NoError(t, err)
	east, err := analytics.NewFeatureBuilder(plus3).Build([]model.Task{task(1, model.PriorityLow, day(15), true)})
	require.NoError(t, err)

	assert.Equal(t, 23, utc[0].HourCreated)
	assert.Equal(t, 0, utc[0].DayOfWeekCreated)
	assert.Equal(t, 5, utc[0].DaysToDue)
	assert.Equal(t, 1, utc[0].IsCompleted)

	assert.Equal(t, 2, east[0].HourCreated)
	assert.Equal(t, 1, east[0].DayOfWeekCreated)
	assert.Equal(t, 4, east[0].DaysToDue)

	assert.Equal(t, []float64{5, 0}, utc[0].Vector())
	assert.Equal(t, []float64{5, 23, 0, 0}, utc[0].CalendarVector())
}

func TestBuildRejectsBadInput(t *testing.T) {
	missingCreated := task(2, model.PriorityLow, day(12), false)
	missingCreated.CreatedAt = time.Time{}
	missingDue := task(3, model.PriorityLow, time.Time{}, false)

	tests := []struct {
		name  string
		tasks []model.Task
		want  error
	}{
		{name: "empty", tasks: nil, want: analytics.ErrNoTasks},
		{name: "unknown priority", tasks: []model.Task{task(1, "Urgent", day(12), false)}, want: analytics.ErrMalformedTask},
		{name: "missing created_at", tasks: []model.Task{missingCreated}, want: analytics.ErrMalformedTask},
		{name: "missing due_date", tasks: []model.Task{missingDue}, want: analytics.ErrMalformedTask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := analytics.NewFeatureBuilder(time.UTC).Build(tt.tasks)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, rows)
		})
	}
}
