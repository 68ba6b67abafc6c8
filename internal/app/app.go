package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nhle/task-insights/internal/analytics"
	"github.com/nhle/task-insights/internal/keys"
	"github.com/nhle/task-insights/internal/logging"
	"github.com/nhle/task-insights/internal/store"
	"github.com/nhle/task-insights/internal/theme"
	"github.com/nhle/task-insights/internal/ui"
	"github.com/nhle/task-insights/internal/ui/command"
	"github.com/nhle/task-insights/internal/ui/dashboard"
	helpview "github.com/nhle/task-insights/internal/ui/help"
	"github.com/nhle/task-insights/internal/ui/taskform"
	"github.com/nhle/task-insights/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewForm
	ViewDashboard
	ViewHelp
	ViewCommand
)

// Options configures the root model.
type Options struct {
	Store      store.TaskStore
	Analyzer   *analytics.Analyzer
	ExportPath string
	Log        *logrus.Entry
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.TaskStore
	analyzer     *analytics.Analyzer
	exportPath   string
	log          *logrus.Entry
	keys         *keys.KeyMap
	taskList     tasklist.Model
	form         taskform.Model
	dashboard    dashboard.Model
	helpView     helpview.Model
	commandView  command.Model
	ready        bool

	// status is a one-shot message shown in place of the key hints.
	status string
}

// New creates a new root application model.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	a := opts.Analyzer
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	return Model{
		currentView: ViewList,
		store:       opts.Store,
		analyzer:    a,
		exportPath:  opts.ExportPath,
		log:         log,
		keys:        k,
		taskList:    tasklist.New(opts.Store, k, a.Location(), a.Now, 80, 24),
		form:        taskform.New(a.Location(), 80, 24),
		dashboard:   dashboard.New(a, opts.Store, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
}

// Init returns the initial command to load tasks.
func (m Model) Init() tea.Cmd {
	return m.taskList.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.form.SetSize(contentWidth, contentHeight)
		m.dashboard.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case tasklist.TasksLoadedMsg:
		if msg.Err != nil {
			m.log.WithError(msg.Err).Error("loading tasks")
			m.status = theme.ErrorStyle.Render("Could not load tasks: " + msg.Err.Error())
		}
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case taskform.TaskSubmittedMsg:
		m.currentView = ViewList
		return m, m.addTask(msg)

	case taskform.FormCancelMsg:
		m.currentView = ViewList
		return m, nil

	case taskAddedMsg:
		if msg.err != nil {
			m.status = theme.ErrorStyle.Render("Could not add task: " + msg.err.Error())
			return m, nil
		}
		m.status = theme.SuccessStyle.Render(fmt.Sprintf("Task #%d added successfully!", msg.task.ID))
		return m, m.taskList.LoadTasks()

	case taskChangedMsg:
		if msg.err != nil {
			m.status = theme.ErrorStyle.Render(fmt.Sprintf("Could not %s task #%d: %s", msg.op, msg.id, msg.err))
			return m, nil
		}
		return m, m.taskList.LoadTasks()

	case exportedMsg:
		if msg.err != nil {
			m.status = theme.ErrorStyle.Render("Export failed: " + msg.err.Error())
			return m, nil
		}
		m.status = theme.SuccessStyle.Render(fmt.Sprintf("Exported %d tasks to %s", msg.count, msg.path))
		return m, nil

	case dashboard.LoadedMsg:
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)
		return m, cmd

	case dashboard.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Typing into the form or the search box must not trigger shortcuts.
		if m.currentView == ViewForm || (m.currentView == ViewList && m.taskList.Searching()) {
			break
		}
		m.status = ""
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes shortcuts that switch views or act on the
// selected task.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Help) && m.currentView != ViewCommand:
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command) && m.currentView != ViewCommand:
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.Back) && (m.currentView == ViewHelp || m.currentView == ViewCommand):
		m.currentView = m.previousView
		return m, nil, true
	}

	if m.currentView != ViewList {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Add):
		cmd := m.openForm()
		return m, cmd, true

	case key.Matches(msg, m.keys.Dashboard):
		cmd := m.openDashboard()
		return m, cmd, true

	case key.Matches(msg, m.keys.Export):
		return m, m.export(m.exportPath), true

	case key.Matches(msg, m.keys.Refresh):
		return m, m.taskList.LoadTasks(), true

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.taskList.SelectedTask(); ok {
			return m, m.toggleTask(t.ID), true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.taskList.SelectedTask(); ok {
			return m, m.deleteTask(t.ID), true
		}
		return m, nil, true
	}

	return m, nil, false
}

func (m *Model) openForm() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewForm
	return m.form.Start(m.analyzer.Now())
}

func (m *Model) openDashboard() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewDashboard
	return m.dashboard.Load()
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Task Insights", m.headerCounts())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.status)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewForm:
		return m.form.View()
	case ViewDashboard:
		return m.dashboard.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// headerCounts tallies the loaded tasks for the header.
func (m Model) headerCounts() ui.TaskCounts {
	return ui.CountTasks(m.taskList.Tasks(), m.analyzer.Now(), m.analyzer.Location())
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewForm:
		return "enter next/submit | shift+tab back | esc cancel"
	case ViewDashboard:
		return "j/k scroll | r re-run | esc back"
	default:
		if m.taskList.Searching() {
			return "enter apply search | esc clear"
		}
		return "q quit | ? help | n add | x done | d delete | a dashboard | e export | " + m.taskList.Summary()
	}
}
