package taskform

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/theme"
)

// TaskSubmittedMsg is dispatched when the user submits a valid task.
type TaskSubmittedMsg struct {
	Description string
	DueDate     time.Time
	Priority    model.Priority
}

// FormCancelMsg is dispatched when the user cancels the form.
type FormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	description string
	dueDate     string
	priority    model.Priority
}

// Model is the Bubble Tea model for the add-task form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	loc    *time.Location
	width  int
	height int
}

// New creates a new task form. Due dates are read in loc.
func New(loc *time.Location, width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.DefaultPriority},
		loc:    loc,
		width:  width,
		height: height,
	}
}

// Start resets the form with the due date defaulting to today.
func (m *Model) Start(today time.Time) tea.Cmd {
	m.fb.description = ""
	m.fb.dueDate = today.In(m.loc).Format(model.DateLayout)
	m.fb.priority = model.DefaultPriority
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.handleSubmit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return FormCancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Add New Task") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m *Model) buildForm() *huh.Form {
	opts := make([]huh.Option[model.Priority], 0, len(model.Priorities))
	for _, p := range model.Priorities {
		opts = append(opts, huh.NewOption(p.String(), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task Description").
				Placeholder("What needs to be done?").
				Value(&m.fb.description).
				Validate(validateDescription),
			huh.NewInput().
				Title("Due Date").
				Placeholder(model.DateLayout).
				Value(&m.fb.dueDate).
				Validate(m.validateDate),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(opts...).
				Value(&m.fb.priority),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	due, err := model.ParseDate(m.fb.dueDate, m.loc)
	if err != nil {
		// validateDate already rejected bad input
		return func() tea.Msg { return FormCancelMsg{} }
	}
	msg := TaskSubmittedMsg{
		Description: strings.TrimSpace(m.fb.description),
		DueDate:     due,
		Priority:    m.fb.priority,
	}
	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateDescription(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("description is required")
	}
	return nil
}

func (m Model) validateDate(s string) error {
	if _, err := model.ParseDate(s, m.loc); err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
