package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/task-insights/internal/dataset"
	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/ui/command"
	"github.com/nhle/task-insights/internal/ui/taskform"
	"github.com/nhle/task-insights/internal/ui/tasklist"
)

// taskAddedMsg is sent after a task is persisted.
type taskAddedMsg struct {
	task model.Task
	err  error
}

// taskChangedMsg is sent after a toggle or delete.
type taskChangedMsg struct {
	op  string
	id  int64
	err error
}

// exportedMsg is sent after a CSV export.
type exportedMsg struct {
	path  string
	count int
	err   error
}

// addTask persists a task submitted through the form.
func (m *Model) addTask(msg taskform.TaskSubmittedMsg) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		task, err := s.AddTask(context.Background(), msg.Description, msg.DueDate, msg.Priority)
		return taskAddedMsg{task: task, err: err}
	}
}

// toggleTask flips the completion flag of a task.
func (m *Model) toggleTask(id int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.ToggleComplete(context.Background(), id)
		return taskChangedMsg{op: "toggle", id: id, err: err}
	}
}

// deleteTask removes a task from the store.
func (m *Model) deleteTask(id int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteTask(context.Background(), id)
		return taskChangedMsg{op: "delete", id: id, err: err}
	}
}

// export writes every task to path as CSV.
func (m *Model) export(path string) tea.Cmd {
	s, loc := m.store, m.analyzer.Location()
	return func() tea.Msg {
		tasks, err := s.ListTasks(context.Background())
		if err != nil {
			return exportedMsg{path: path, err: err}
		}
		if len(tasks) == 0 {
			return exportedMsg{path: path, err: fmt.Errorf("no tasks to export")}
		}
		if err := dataset.WriteFile(path, tasks, loc); err != nil {
			return exportedMsg{path: path, err: err}
		}
		return exportedMsg{path: path, count: len(tasks)}
	}
}

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(cmd command.CommandMsg) tea.Cmd {
	args := cmd.Args()
	switch cmd.Name() {
	case "refresh":
		return m.taskList.LoadTasks()
	case "quit", "q":
		return tea.Quit
	case "add", "new":
		return m.openForm()
	case "analyze", "dashboard":
		return m.openDashboard()
	case "export":
		path := m.exportPath
		if args != "" {
			path = args
		}
		return m.export(path)
	case "sort":
		mode, ok := tasklist.ParseSortMode(args)
		if !ok {
			m.status = fmt.Sprintf("unknown sort %q: use created, due or priority", args)
			return nil
		}
		return m.taskList.SetSort(mode)
	case "completed":
		switch strings.ToLower(args) {
		case "show":
			return m.taskList.SetShowCompleted(true)
		case "hide":
			return m.taskList.SetShowCompleted(false)
		default:
			return m.taskList.ToggleShowCompleted()
		}
	default:
		m.status = fmt.Sprintf("unknown command %q", string(cmd))
		return nil
	}
}
