// Package dataset reads and writes the task CSV consumed by the offline
// trainer.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/task-insights/internal/model"
)

// DefaultFile is the export file name the trainer reads.
const DefaultFile = "tasks_dataset.csv"

// TimestampLayout is how created_at is written: wall time in the export
// zone with its UTC offset, trailing fractional zeros dropped. The offset
// keeps times inside a DST fall-back hour unambiguous.
const TimestampLayout = "2006-01-02 15:04:05.999999-07:00"

// zonelessLayout is the wall-time form without an offset, read in loc.
const zonelessLayout = "2006-01-02 15:04:05.999999"

// Header lists the CSV columns in write order.
var Header = []string{"id", "description", "due_date", "priority", "created_at", "completed"}

// timestampLayouts are tried in order when parsing created_at.
var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02 15:04:05.999999999Z07:00",
	zonelessLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	model.DateLayout,
}

// Write encodes tasks as CSV. Timestamps are rendered in loc.
func Write(w io.Writer, tasks []model.Task, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, t := range tasks {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Description,
			t.DueDay().Format(model.DateLayout),
			string(t.Priority),
			t.CreatedAt.In(loc).Format(TimestampLayout),
			formatBool(t.Completed),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing task %d: %w", t.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteFile writes tasks to path, creating parent directories.
func WriteFile(path string, tasks []model.Task, loc *time.Location) (err error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return Write(f, tasks, loc)
}

// Read decodes tasks from CSV. Columns are matched by header name, so
// extra columns and any column order are accepted. Zone-less timestamps
// and due dates are read in loc.
func Read(r io.Reader, loc *time.Location) ([]model.Task, error) {
	if loc == nil {
		loc = time.Local
	}
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range Header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("reading csv: missing column %q", name)
		}
	}

	var tasks []model.Task
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		t, err := parseRecord(record, cols, loc)
		if err != nil {
			return nil, fmt.Errorf("parsing csv line %d: %w", line, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// ReadFile reads tasks from the CSV file at path.
func ReadFile(path string, loc *time.Location) ([]model.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, loc)
}

func parseRecord(record []string, cols map[string]int, loc *time.Location) (model.Task, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[cols[name]])
	}

	id, err := strconv.ParseInt(field("id"), 10, 64)
	if err != nil {
		return model.Task{}, fmt.Errorf("id: %w", err)
	}
	due, err := parseTimestamp(field("due_date"), loc)
	if err != nil {
		return model.Task{}, fmt.Errorf("due_date: %w", err)
	}
	priority, err := model.ParsePriority(field("priority"))
	if err != nil {
		return model.Task{}, fmt.Errorf("priority: %w", err)
	}
	created, err := parseTimestamp(field("created_at"), loc)
	if err != nil {
		return model.Task{}, fmt.Errorf("created_at: %w", err)
	}
	completed, err := strconv.ParseBool(field("completed"))
	if err != nil {
		return model.Task{}, fmt.Errorf("completed: %w", err)
	}

	return model.Task{
		ID:          id,
		Description: record[cols["description"]],
		DueDate:     model.NewDate(due.Year(), due.Month(), due.Day(), loc),
		Priority:    priority,
		CreatedAt:   created,
		Completed:   completed,
	}, nil
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
