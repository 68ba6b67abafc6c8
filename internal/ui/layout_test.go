package ui_test

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/ui"
)

func TestCountTasks(t *testing.T) {
	now := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	due := func(d int) time.Time { return model.NewDate(2025, time.March, d, time.UTC) }
	tasks := []model.Task{
		{ID: 1, DueDate: due(9)},
		{ID: 2, DueDate: due(9), Completed: true},
		{ID: 3, DueDate: due(10)},
		{ID: 4, DueDate: due(12)},
	}

	c := ui.CountTasks(tasks, now, time.UTC)

	assert.Equal(t, ui.TaskCounts{Total: 4, Done: 1, DueToday: 1, Overdue: 1}, c)
	assert.Equal(t, "4 tasks | 1 done | 1 due today | 1 overdue", c.String())
	assert.Equal(t, "0 tasks | 0 done", ui.TaskCounts{}.String())
}

func TestHeaderSpansWidth(t *testing.T) {
	l := ui.NewLayout(80, 24)
	header := l.RenderHeader("Task Insights", ui.TaskCounts{Total: 2, Done: 1})

	assert.Equal(t, 80, lipgloss.Width(header))
	assert.Contains(t, header, "Task Insights")
	assert.Contains(t, header, "2 tasks | 1 done")
}

func TestStatusBarMessageReplacesHints(t *testing.T) {
	l := ui.NewLayout(60, 24)

	assert.Contains(t, l.RenderStatusBar("q quit", ""), "q quit")

	bar := l.RenderStatusBar("q quit", "Exported 3 tasks")
	assert.Contains(t, bar, "Exported 3 tasks")
	assert.NotContains(t, bar, "q quit")

	long := l.RenderStatusBar(strings.Repeat("x", 200), "")
	assert.LessOrEqual(t, lipgloss.Width(long), 60)
}

func TestFrameSizes(t *testing.T) {
	l := ui.NewLayout(100, 30)
	assert.Equal(t, 100, l.ContentWidth())
	assert.Equal(t, 28, l.ContentHeight())
	assert.Equal(t, "h\nc\ns", l.RenderWithFrame("h", "c", "s"))

	small := ui.NewLayout(20, 5)
	assert.True(t, small.TooSmall())
	assert.Contains(t, small.RenderWithFrame("h", "c", "s"), "Terminal too small")
	assert.Equal(t, 0, ui.NewLayout(1, 1).ContentHeight())
}
