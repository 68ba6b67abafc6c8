package dashboard

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/task-insights/internal/analytics"
	"github.com/nhle/task-insights/internal/keys"
	"github.com/nhle/task-insights/internal/store"
	"github.com/nhle/task-insights/internal/theme"
)

// LoadedMsg carries a freshly computed dashboard.
type LoadedMsg struct {
	Dashboard *analytics.Dashboard
	Err       error
}

// CloseMsg is sent when the user leaves the dashboard.
type CloseMsg struct{}

// Model is the scrollable analytics dashboard view.
type Model struct {
	analyzer  *analytics.Analyzer
	store     store.TaskStore
	keys      *keys.KeyMap
	viewport  viewport.Model
	dashboard *analytics.Dashboard
	err       error
	loading   bool
	width     int
	height    int
}

// New creates a dashboard view.
func New(a *analytics.Analyzer, s store.TaskStore, k *keys.KeyMap, width, height int) Model {
	return Model{
		analyzer: a,
		store:    s,
		keys:     k,
		viewport: viewport.New(width, height),
		width:    width,
		height:   height,
	}
}

// Load starts a fresh analysis run.
func (m *Model) Load() tea.Cmd {
	m.loading = true
	m.setContent()
	a, s := m.analyzer, m.store
	return func() tea.Msg {
		d, err := a.Dashboard(context.Background(), s)
		return LoadedMsg{Dashboard: d, Err: err}
	}
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		m.dashboard, m.err = msg.Dashboard, msg.Err
		m.setContent()
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return CloseMsg{} }
		case key.Matches(msg, m.keys.Refresh):
			cmd := m.Load()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Dashboard returns the last loaded dashboard, if any.
func (m Model) Dashboard() *analytics.Dashboard {
	return m.dashboard
}

// View renders the dashboard.
func (m Model) View() string {
	return m.viewport.View()
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.setContent()
}

func (m *Model) setContent() {
	switch {
	case m.loading:
		m.viewport.SetContent(theme.HelpStyle.Render("Analyzing tasks..."))
	case m.err != nil:
		m.viewport.SetContent(theme.ErrorStyle.Render("Could not build dashboard: " + m.err.Error()))
	default:
		m.viewport.SetContent(theme.PanelStyle.Width(m.width - 4).Render(Render(m.dashboard, m.width)))
	}
}
