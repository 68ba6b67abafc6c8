package help

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-insights/internal/analytics"
	"github.com/nhle/task-insights/internal/keys"
	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Keyboard Shortcuts")

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	helpText := m.help.View(m.keys)

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		helpText,
		theme.SectionStyle.Render("Dashboard"),
		legend(),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// legend explains the planning constants used on the dashboard.
func legend() string {
	slots := ""
	for i := len(model.Priorities) - 1; i >= 0; i-- {
		p := model.Priorities[i]
		slots += fmt.Sprintf("%s %d min  ", theme.PriorityStyle(p).Render(p.String()), analytics.SlotMinutes(p))
	}
	return theme.HelpStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("High risk: predicted completion below %.0f%%", analytics.HighRiskThreshold*100),
		fmt.Sprintf("Capacity estimate: %d min per remaining task due today", analytics.MinutesPerTask),
		"Timetable slots: "+slots,
	))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
