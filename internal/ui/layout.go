package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/theme"
)

// Minimum terminal size the frame is drawn at.
const (
	MinWidth  = 40
	MinHeight = 10
)

// Layout holds the terminal dimensions and splits them into a one-line
// header, the content area, and a one-line status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// TooSmall reports whether the terminal is below the minimum frame size.
func (l Layout) TooSmall() bool {
	return l.Width < MinWidth || l.Height < MinHeight
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return max(l.Width, 0)
}

// ContentHeight returns the rows left between the header and status bar.
func (l Layout) ContentHeight() int {
	return max(l.Height-2, 0)
}

// TaskCounts summarizes the task set for the header.
type TaskCounts struct {
	Total    int
	Done     int
	DueToday int
	Overdue  int
}

// CountTasks tallies tasks as of now in loc.
func CountTasks(tasks []model.Task, now time.Time, loc *time.Location) TaskCounts {
	c := TaskCounts{Total: len(tasks)}
	for _, t := range tasks {
		switch {
		case t.Completed:
			c.Done++
		case t.IsOverdue(now, loc):
			c.Overdue++
		case t.DueOn(now, loc):
			c.DueToday++
		}
	}
	return c
}

// String renders the counts as plain text, omitting zero warnings.
func (c TaskCounts) String() string {
	parts := []string{fmt.Sprintf("%d tasks", c.Total), fmt.Sprintf("%d done", c.Done)}
	if c.DueToday > 0 {
		parts = append(parts, fmt.Sprintf("%d due today", c.DueToday))
	}
	if c.Overdue > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue", c.Overdue))
	}
	return strings.Join(parts, " | ")
}

// RenderHeader draws the title on the left and the task counts on the
// right, padded to the full width.
func (l Layout) RenderHeader(title string, counts TaskCounts) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Render(counts.String())
	if counts.Overdue > 0 {
		right = theme.HeaderStyle.Foreground(theme.ColorRed).Render(counts.String())
	}
	return l.fill(theme.HeaderStyle, left, right)
}

// RenderStatusBar draws the bottom bar. A non-empty message (export
// result, validation error) replaces the keyboard hints. Text wider than
// the terminal is cut off.
func (l Layout) RenderStatusBar(hints, message string) string {
	text := hints
	if message != "" {
		text = message
	}
	rendered := theme.StatusBarStyle.MaxWidth(max(l.Width, 1)).Render(text)
	return l.fill(theme.StatusBarStyle, rendered, "")
}

// fill joins left and right with a background-colored gap so the bar
// spans the whole width.
func (l Layout) fill(style lipgloss.Style, left, right string) string {
	gap := max(l.Width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderWithFrame stacks header, content, and status bar. Below the
// minimum size only a resize hint is shown.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	if l.TooSmall() {
		return fmt.Sprintf("Terminal too small (%dx%d). Resize to at least %dx%d.",
			l.Width, l.Height, MinWidth, MinHeight)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
