package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/task-insights/internal/analytics"
	"github.com/nhle/task-insights/internal/theme"
)

// ClockLayout formats timetable slot boundaries.
const ClockLayout = "03:04 PM"

// Render draws the full dashboard as plain styled text.
func Render(d *analytics.Dashboard, width int) string {
	if d == nil {
		return theme.HelpStyle.Render("Loading dashboard...")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.SectionStyle.Render("Today's Tasks Overview"),
		renderToday(d, width),
		theme.SectionStyle.Render("Task Completion Insights"),
		renderInsights(d, width),
	)
}

func renderToday(d *analytics.Dashboard, width int) string {
	if d.Today == nil {
		return theme.HelpStyle.Render("No tasks due today.")
	}
	c := d.Today

	status := theme.SuccessStyle.Render("Can Complete")
	if !c.Feasible {
		status = theme.WarningStyle.Render("May Need More Time")
	}

	lines := []string{
		fmt.Sprintf("Today's Tasks: %d (%d completed)", c.Total, c.Completed),
		fmt.Sprintf("Completion Rate: %.1f%%", c.CompletionRate),
		fmt.Sprintf("Estimated effort: %d min of %dh left", c.EstimatedMinutes, c.RemainingHours),
		"Status: " + status,
		"",
		theme.SectionStyle.UnsetMarginTop().Render("Suggested Timetable"),
	}

	if len(d.Timetable) == 0 {
		lines = append(lines, theme.HelpStyle.Render("No remaining tasks for today"))
		return strings.Join(lines, "\n")
	}

	rows := make([][]string, len(d.Timetable))
	for i, s := range d.Timetable {
		rows[i] = []string{
			s.Start.Format(ClockLayout),
			s.End.Format(ClockLayout),
			s.Description,
			s.Priority.String(),
			fmt.Sprintf("%d min", s.Minutes),
		}
	}
	t := newTable(width).
		Headers("Start", "End", "Task", "Priority", "Duration").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			if col == 3 && row >= 0 && row < len(d.Timetable) {
				return cell.Inherit(theme.PriorityStyle(d.Timetable[row].Priority))
			}
			return cell
		})

	lines = append(lines, t.String())
	return strings.Join(lines, "\n")
}

func renderInsights(d *analytics.Dashboard, width int) string {
	if d.InsightsError != "" {
		return theme.ErrorStyle.Render("Analysis failed: " + d.InsightsError)
	}
	r := d.Insights
	if r == nil {
		return theme.HelpStyle.Render("No data yet. Add tasks to see completion insights.")
	}

	lines := []string{
		fmt.Sprintf("Total Tasks: %d", r.TotalTasks),
		fmt.Sprintf("Completion Rate: %.1f%%", r.CompletionRate),
		fmt.Sprintf("High Risk Tasks: %d", len(r.HighRisk)),
	}

	if len(r.HighRisk) > 0 {
		lines = append(lines, "", theme.WarningStyle.Render("Recommendations"))
		for _, p := range r.HighRisk {
			lines = append(lines, fmt.Sprintf("  ! %s (%s priority) has a low predicted completion chance",
				p.Description, theme.PriorityStyle(p.Priority).Render(p.Priority.String())))
		}
	}

	lines = append(lines, "", priorityTable(r, width).String())
	lines = append(lines, "", theme.SectionStyle.UnsetMarginTop().Render("Days to Due vs Completion Probability"))
	lines = append(lines, scatter(r.Predictions)...)

	return strings.Join(lines, "\n")
}

func priorityTable(r *analytics.Report, width int) *table.Table {
	rows := make([][]string, 0, len(r.ByPriority))
	for _, s := range r.ByPriority {
		s = s.Rounded()
		rows = append(rows, []string{
			s.Priority.String(),
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.2f", s.CompletionRate),
			fmt.Sprintf("%.2f", s.PredictedSuccess),
		})
	}
	return newTable(width).
		Headers("Priority", "Task Count", "Completion Rate", "Predicted Success Rate").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return cell
		})
}

// scatter lists each task's days to due against its predicted probability
// with a proportional bar, ordered as the tasks were recorded.
func scatter(preds []analytics.Prediction) []string {
	const barWidth = 20
	out := make([]string, 0, len(preds))
	for _, p := range preds {
		filled := int(p.Probability*barWidth + 0.5)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		out = append(out, fmt.Sprintf("  %4d d  %s %s  %s",
			p.DaysToDue,
			theme.ProbabilityStyle(p.Probability, analytics.HighRiskThreshold).Render(bar),
			fmt.Sprintf("%.2f", p.Probability),
			p.Description,
		))
	}
	return out
}

var (
	headerCell = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Padding(0, 1)
	cell       = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(width int) *table.Table {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder))
	if width > 20 {
		t = t.Width(width - 8)
	}
	return t
}
