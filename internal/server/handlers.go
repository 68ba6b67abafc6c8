package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/task-insights/internal/dataset"
	"github.com/nhle/task-insights/internal/model"
)

type taskRequest struct {
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
}

// handleListTasks returns every task in insertion order.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// handleCreateTask adds a task. due_date defaults to today.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	loc := s.analyzer.Location()
	due := s.analyzer.Now()
	if req.DueDate != "" {
		parsed, err := model.ParseDate(req.DueDate, loc)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		due = parsed
	}

	priority := model.DefaultPriority
	if req.Priority != "" {
		p, err := model.ParsePriority(req.Priority)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		priority = p
	}

	task, err := s.store.AddTask(c.Request.Context(), req.Description, due, priority)
	if err != nil {
		s.respondError(c, storeStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// handleToggleTask flips a task's completion flag.
func (s *Server) handleToggleTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.ToggleComplete(c.Request.Context(), id); err != nil {
		s.respondError(c, storeStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "toggled"})
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteTask(c.Request.Context(), id); err != nil {
		s.respondError(c, storeStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// handleAnalysis runs the completion analysis. An empty task set yields a
// null report.
func (s *Server) handleAnalysis(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	report, err := s.analyzer.Analyze(tasks)
	if err != nil {
		s.respondError(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// handleToday returns the capacity estimate and timetable.
func (s *Server) handleToday(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	capacity, slots := s.analyzer.Today(tasks)
	c.JSON(http.StatusOK, gin.H{"capacity": capacity, "timetable": slots})
}

// handleDashboard returns everything the dashboard shows.
func (s *Server) handleDashboard(c *gin.Context) {
	d, err := s.analyzer.Dashboard(c.Request.Context(), s.store)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// handleExport streams the task set as the trainer's CSV.
func (s *Server) handleExport(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if len(tasks) == 0 {
		s.respondError(c, http.StatusNotFound, errors.New("no tasks to export"))
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dataset.DefaultFile))
	c.Status(http.StatusOK)
	if err := dataset.Write(c.Writer, tasks, s.analyzer.Location()); err != nil {
		s.log.WithError(err).Warn("csv export interrupted")
	}
}
