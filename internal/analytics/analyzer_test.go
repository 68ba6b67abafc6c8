package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-insights/internal/analytics"
	"github.com/nhle/task-insights/internal/logging"
	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/store"
)

func newAnalyzer(now time.Time) *analytics.Analyzer {
	return analytics.NewAnalyzer(time.UTC,
		analytics.WithClock(func() time.Time { return now }),
		analytics.WithLogger(logging.Discard()),
	)
}

func TestAnalyzeEmptyReturnsNoReport(t *testing.T) {
	report, err := newAnalyzer(evening).Analyze(nil)
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestAnalyzeMalformedReturnsError(t *testing.T) {
	report, err := newAnalyzer(evening).Analyze([]model.Task{task(1, "Someday", day(12), false)})
	require.ErrorIs(t, err, analytics.ErrMalformedTask)
	assert.Nil(t, report)
}

func TestAnalyze(t *testing.T) {
	tasks := []model.Task{
		task(1, model.PriorityHigh, day(20), true),
		task(2, model.PriorityHigh, day(18), true),
		task(3, model.PriorityMedium, day(15), true),
		task(4, model.PriorityLow, day(9), false),
		task(5, model.PriorityLow, day(8), false),
		task(6, model.PriorityMedium, day(10), false),
	}

	report, err := newAnalyzer(evening).Analyze(tasks)
	require.NoError(t, err)
	require.NotNil(t, report)

	_, err = uuid.Parse(report.RunID)
	require.NoError(t, err)
	assert.True(t, report.GeneratedAt.Equal(evening))
	assert.Equal(t, 6, report.TotalTasks)
	assert.Equal(t, 3, report.CompletedTasks)
	assert.InDelta(t, 50.0, report.CompletionRate, 1e-9)
	require.Len(t, report.Predictions, 6)

	for i, p := range report.Predictions {
		assert.Equal(t, tasks[i].ID, p.TaskID)
		assert.GreaterOrEqual(t, p.Probability, 0.0)
		assert.LessOrEqual(t, p.Probability, 1.0)
	}
	for _, p := range report.HighRisk {
		assert.Less(t, p.Probability, analytics.HighRiskThreshold)
	}

	require.Len(t, report.ByPriority, 3)
	assert.Equal(t, model.PriorityHigh, report.ByPriority[0].Priority)
	assert.Equal(t, model.PriorityMedium, report.ByPriority[1].Priority)
	assert.Equal(t, model.PriorityLow, report.ByPriority[2].Priority)
	assert.Equal(t, 1.0, report.ByPriority[0].CompletionRate)
	assert.Equal(t, 0.0, report.ByPriority[2].CompletionRate)
}

func TestAnalyzeSingleOutcome(t *testing.T) {
	tasks := []model.Task{
		task(1, model.PriorityHigh, day(12), false),
		task(2, model.PriorityLow, day(14), false),
	}

	report, err := newAnalyzer(evening).Analyze(tasks)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Len(t, report.HighRisk, 2)
	for _, p := range report.Predictions {
		assert.Equal(t, 0.0, p.Probability)
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(
		store.WithLocation(time.UTC),
		store.WithClock(func() time.Time { return monday }),
	)
	_, err := s.AddTask(ctx, "ship release", day(10), model.PriorityHigh)
	require.NoError(t, err)
	_, err = s.AddTask(ctx, "water plants", day(10), model.PriorityLow)
	require.NoError(t, err)
	done, err := s.AddTask(ctx, "book flights", day(14), model.PriorityMedium)
	require.NoError(t, err)
	require.NoError(t, s.ToggleComplete(ctx, done.ID))

	d, err := newAnalyzer(evening).Dashboard(ctx, s)
	require.NoError(t, err)

	require.NotNil(t, d.Today)
	assert.Equal(t, 2, d.Today.Total)
	assert.Equal(t, 0.0, d.Today.CompletionRate)
	assert.True(t, d.Today.Feasible)

	require.Len(t, d.Timetable, 2)
	assert.Equal(t, "ship release", d.Timetable[0].Description)
	assert.True(t, d.Timetable[0].Start.Equal(evening))

	require.NotNil(t, d.Insights)
	assert.Equal(t, 3, d.Insights.TotalTasks)
	assert.Empty(t, d.InsightsError)
}

func TestDashboardEmptyStore(t *testing.T) {
	d, err := newAnalyzer(evening).Dashboard(context.Background(), store.NewMemoryStore())
	require.NoError(t, err)
	assert.Nil(t, d.Today)
	assert.Nil(t, d.Timetable)
	assert.Nil(t, d.Insights)
	assert.Empty(t, d.InsightsError)
}
