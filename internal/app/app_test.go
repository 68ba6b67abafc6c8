package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-insights/internal/analytics"
	"github.com/nhle/task-insights/internal/app"
	"github.com/nhle/task-insights/internal/logging"
	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/store"
	"github.com/nhle/task-insights/internal/ui/command"
	"github.com/nhle/task-insights/internal/ui/taskform"
	"github.com/nhle/task-insights/tests/testutil"
)

var morning = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)

func update(t *testing.T, m app.Model, msg tea.Msg) (app.Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(app.Model)
	require.True(t, ok)
	return out, cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m app.Model, cmd tea.Cmd) (app.Model, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	return update(t, m, cmd())
}

func press(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestTaskLifecycleThroughUI(t *testing.T) {
	clock := testutil.FixedClock(morning)
	s := store.NewMemoryStore(store.WithLocation(time.UTC), store.WithClock(clock))
	exportPath := filepath.Join(t.TempDir(), "tasks.csv")

	m := app.New(app.Options{
		Store:      s,
		Analyzer:   analytics.NewAnalyzer(time.UTC, analytics.WithClock(clock)),
		ExportPath: exportPath,
		Log:        logging.Discard(),
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = run(t, m, m.Init())
	assert.Contains(t, m.View(), "No tasks yet.")

	// add
	m, cmd := update(t, m, taskform.TaskSubmittedMsg{
		Description: "Call bank",
		DueDate:     model.NewDate(2025, time.March, 10, time.UTC),
		Priority:    model.PriorityHigh,
	})
	m, cmd = run(t, m, cmd)
	assert.Contains(t, m.View(), "Task #1 added successfully!")
	m, _ = run(t, m, cmd)
	assert.Contains(t, m.View(), "Call bank")
	assert.Contains(t, m.View(), "1 tasks | 0 done")

	// toggle complete
	m, cmd = update(t, m, press("x"))
	m, cmd = run(t, m, cmd)
	m, _ = run(t, m, cmd)

	tasks, err := s.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
	assert.Contains(t, m.View(), "All tasks are completed.")

	// export
	m, cmd = update(t, m, press("e"))
	m, _ = run(t, m, cmd)
	assert.Contains(t, m.View(), "Exported 1 tasks")
	assert.FileExists(t, exportPath)

	// dashboard
	m, cmd = update(t, m, press("a"))
	m, _ = run(t, m, cmd)
	view := m.View()
	assert.Contains(t, view, "Today's Tasks Overview")
	assert.Contains(t, view, "Completion Rate: 100.0%")
	assert.Contains(t, view, "No remaining tasks for today")

	// back to the list
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = run(t, m, cmd)
	assert.Contains(t, m.View(), "All tasks are completed.")
}

func TestUnknownCommandShowsStatus(t *testing.T) {
	clock := testutil.FixedClock(morning)
	m := app.New(app.Options{
		Store:    store.NewMemoryStore(store.WithClock(clock)),
		Analyzer: analytics.NewAnalyzer(time.UTC, analytics.WithClock(clock)),
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = update(t, m, press(":"))
	m, _ = update(t, m, command.CommandMsg("sort alphabetical"))

	assert.Contains(t, m.View(), `unknown sort "alphabetical"`)
}
