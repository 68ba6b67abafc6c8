package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/task-insights/internal/metrics"
	"github.com/nhle/task-insights/internal/model"
)

// Instrumented wraps a TaskStore, counting and logging every mutation.
type Instrumented struct {
	TaskStore
	log *logrus.Entry
}

// Instrument wraps s.
func Instrument(s TaskStore, log *logrus.Entry) *Instrumented {
	return &Instrumented{TaskStore: s, log: log}
}

func (s *Instrumented) AddTask(
	ctx context.Context,
	description string,
	dueDate time.Time,
	priority model.Priority,
) (model.Task, error) {
	task, err := s.TaskStore.AddTask(ctx, description, dueDate, priority)
	s.record("add", task.ID, err)
	return task, err
}

func (s *Instrumented) ToggleComplete(ctx context.Context, id int64) error {
	err := s.TaskStore.ToggleComplete(ctx, id)
	s.record("toggle", id, err)
	return err
}

func (s *Instrumented) DeleteTask(ctx context.Context, id int64) error {
	err := s.TaskStore.DeleteTask(ctx, id)
	s.record("delete", id, err)
	return err
}

func (s *Instrumented) record(op string, id int64, err error) {
	metrics.TaskMutations.WithLabelValues(op, metrics.Result(err)).Inc()
	entry := s.log.WithFields(logrus.Fields{"op": op, "task_id": id})
	if err != nil {
		entry.WithError(err).Warn("task mutation failed")
		return
	}
	entry.Debug("task mutated")
}
