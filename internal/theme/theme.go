package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-insights/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// SectionStyle titles a block inside a view.
var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	MarginTop(1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps the dashboard content area.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// DueDateStyle renders due dates in list rows.
var DueDateStyle = lipgloss.NewStyle().Foreground(ColorYellow)

// OverdueStyle flags incomplete tasks past their due date.
var OverdueStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ErrorStyle renders error messages.
var ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)

// SuccessStyle renders confirmations and positive outcomes.
var SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)

// WarningStyle renders outcomes that need attention.
var WarningStyle = lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)

// CompletedStyle dims tasks that are done.
var CompletedStyle = lipgloss.NewStyle().Foreground(ColorGray).Strikethrough(true)

// PriorityColor returns the accent color for a priority.
func PriorityColor(p model.Priority) lipgloss.TerminalColor {
	switch p {
	case model.PriorityHigh:
		return ColorRed
	case model.PriorityMedium:
		return ColorOrange
	case model.PriorityLow:
		return ColorGreen
	default:
		return ColorGray
	}
}

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(PriorityColor(p))
}

// ProbabilityStyle colors a completion probability: red below the
// high-risk threshold, yellow below one half, green otherwise.
func ProbabilityStyle(p, riskThreshold float64) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch {
	case p < riskThreshold:
		return base.Foreground(ColorRed)
	case p < 0.5:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGreen)
	}
}
