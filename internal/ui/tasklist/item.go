package tasklist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Description }

// Title returns the task description for the list.
func (i TaskItem) Title() string { return i.Task.Description }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	return fmt.Sprintf("Due: %s | Priority: %s | Created: %s",
		i.Task.DueDay().Format("Jan 02, 2006"),
		i.Task.Priority,
		i.Task.CreatedAt.Format("Jan 02, 2006 15:04"),
	)
}

// TaskDelegate implements list.ItemDelegate for rendering task rows.
type TaskDelegate struct {
	Location *time.Location
	Now      func() time.Time
}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a task as a title line and a detail line.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	t := ti.Task

	prefix := "○"
	if t.Completed {
		prefix = "✓"
	}
	pri := theme.PriorityStyle(t.Priority).Render(fmt.Sprintf("%-6s", t.Priority))

	title := t.Description
	if t.Completed {
		title = theme.CompletedStyle.Render(title)
	}

	due := theme.DueDateStyle.Render("Due " + t.DueDay().Format("Jan 02, 2006"))
	if d.Now != nil && t.IsOverdue(d.Now(), d.Location) {
		due += theme.OverdueStyle.Render(" OVERDUE")
	}
	created := theme.HelpStyle.Render("created " + t.CreatedAt.Format("Jan 02, 2006 15:04"))

	first := fmt.Sprintf("%s %s %s", prefix, pri, title)
	second := fmt.Sprintf("  #%d  %s  %s", t.ID, due, created)

	style := theme.ListItemStyle
	if index == m.Index() {
		style = theme.SelectedItemStyle
	}
	fmt.Fprint(w, style.Render(first+"\n"+second))
}
