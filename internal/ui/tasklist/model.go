package tasklist

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-insights/internal/keys"
	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/store"
	"github.com/nhle/task-insights/internal/theme"
)

// TasksLoadedMsg is sent when tasks have been loaded from the store.
type TasksLoadedMsg struct {
	Tasks []model.Task
	Err   error
}

// Model is the main task list view component.
type Model struct {
	list        list.Model
	store       store.TaskStore
	keys        *keys.KeyMap
	tasks       []model.Task
	view        View
	loadErr     error
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new task list model. Overdue flags are evaluated with now
// in loc.
func New(s store.TaskStore, k *keys.KeyMap, loc *time.Location, now func() time.Time, width, height int) Model {
	delegate := TaskDelegate{Location: loc, Now: now}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Your Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		store:       s,
		keys:        k,
		view:        View{Sort: SortCreated},
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.loadErr = msg.Err
		if msg.Err == nil {
			m.tasks = msg.Tasks
		}
		cmd := m.refresh()
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.view.Query = m.searchInput.Value()
		cmd := m.refresh()
		return m, cmd

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.view.Query = ""
		cmd := m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.CycleSort):
		m.view.Sort = m.view.Sort.Next()
		cmd := m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.ShowCompleted):
		cmd := m.ToggleShowCompleted()
		return m, cmd
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// refresh rebuilds the list items from the loaded tasks and view.
func (m *Model) refresh() tea.Cmd {
	visible := m.view.Apply(m.tasks)
	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = TaskItem{Task: t}
	}
	m.list.Title = fmt.Sprintf("Your Tasks · sorted by %s", m.view.Sort)
	return m.list.SetItems(items)
}

// ToggleShowCompleted shows or hides completed tasks.
func (m *Model) ToggleShowCompleted() tea.Cmd {
	m.view.ShowCompleted = !m.view.ShowCompleted
	return m.refresh()
}

// SetShowCompleted shows or hides completed tasks.
func (m *Model) SetShowCompleted(show bool) tea.Cmd {
	m.view.ShowCompleted = show
	return m.refresh()
}

// SetSort changes the list ordering.
func (m *Model) SetSort(mode SortMode) tea.Cmd {
	m.view.Sort = mode
	return m.refresh()
}

// SelectedTask returns the focused task, if any.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Tasks returns every loaded task in insertion order, including hidden ones.
func (m Model) Tasks() []model.Task {
	return m.tasks
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Summary describes the active view options for the status bar.
func (m Model) Summary() string {
	shown := "hiding completed"
	if m.view.ShowCompleted {
		shown = "showing completed"
	}
	s := fmt.Sprintf("sort: %s | %s", m.view.Sort, shown)
	if m.view.Query != "" {
		s += fmt.Sprintf(" | search: %q", m.view.Query)
	}
	return s
}

// View renders the task list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.loadErr != nil:
		return style.Render(theme.ErrorStyle.Render("Could not load tasks: " + m.loadErr.Error()))
	case len(m.tasks) == 0:
		return style.Render("No tasks yet.\n\nPress n to add one.")
	case m.view.Query != "":
		return style.Render("No matching tasks.\nPress / then esc to clear the search.")
	default:
		return style.Render("All tasks are completed.\nPress c to show completed tasks.")
	}
}

// LoadTasks returns a tea.Cmd that reads every task from the store.
func (m Model) LoadTasks() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		tasks, err := s.ListTasks(context.Background())
		return TasksLoadedMsg{Tasks: tasks, Err: err}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
