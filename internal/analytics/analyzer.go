package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nhle/task-insights/internal/metrics"
	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/store"
)

// Report is the outcome of one completion analysis over a task set.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`

	// CompletionRate is a percentage in [0,100].
	CompletionRate float64 `json:"completion_rate"`

	Predictions []Prediction    `json:"predictions"`
	HighRisk    []Prediction    `json:"high_risk"`
	ByPriority  []PriorityStats `json:"by_priority"`
}

// Dashboard combines today's capacity, the timetable, and the completion
// analysis. Today and Timetable are nil when nothing is due today;
// Insights is nil when there are no tasks or the analysis failed.
type Dashboard struct {
	Today         *DailyCapacity `json:"today"`
	Timetable     []Slot         `json:"timetable"`
	Insights      *Report        `json:"insights"`
	InsightsError string         `json:"insights_error,omitempty"`
}

// Analyzer runs the analytics pipeline. Every call refits the model from
// scratch; nothing is shared between calls.
type Analyzer struct {
	loc    *time.Location
	forest ForestConfig
	now    func() time.Time
	log    *logrus.Entry
}

// AnalyzerOption customizes an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) { a.now = now }
}

// WithLogger sets the logger used for analysis failures.
func WithLogger(log *logrus.Entry) AnalyzerOption {
	return func(a *Analyzer) { a.log = log }
}

// WithForestConfig overrides the classifier configuration.
func WithForestConfig(cfg ForestConfig) AnalyzerOption {
	return func(a *Analyzer) { a.forest = cfg }
}

// NewAnalyzer returns an Analyzer evaluating dates in loc (nil means
// time.Local).
func NewAnalyzer(loc *time.Location, opts ...AnalyzerOption) *Analyzer {
	if loc == nil {
		loc = time.Local
	}
	a := &Analyzer{
		loc:    loc,
		forest: DefaultForestConfig(),
		now:    time.Now,
		log:    logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Location returns the zone "today" is evaluated in.
func (a *Analyzer) Location() *time.Location { return a.loc }

// Now returns the analyzer's current time in its location.
func (a *Analyzer) Now() time.Time { return a.now().In(a.loc) }

// Analyze fits a fresh completion model on tasks and scores each of them.
// It returns a nil report and nil error when tasks is empty.
func (a *Analyzer) Analyze(tasks []model.Task) (*Report, error) {
	runID := uuid.NewString()
	log := a.log.WithField("run_id", runID)

	if len(tasks) == 0 {
		metrics.AnalysisRuns.WithLabelValues("empty").Inc()
		log.Debug("analysis skipped: no tasks")
		return nil, nil
	}

	report, err := a.analyze(runID, tasks)
	if err != nil {
		metrics.AnalysisRuns.WithLabelValues("error").Inc()
		log.WithError(err).Error("analysis failed")
		return nil, fmt.Errorf("analysis %s: %w", runID, err)
	}

	metrics.AnalysisRuns.WithLabelValues("ok").Inc()
	log.WithFields(logrus.Fields{
		"tasks":     report.TotalTasks,
		"high_risk": len(report.HighRisk),
	}).Info("analysis completed")
	return report, nil
}

func (a *Analyzer) analyze(runID string, tasks []model.Task) (*Report, error) {
	rows, err := NewFeatureBuilder(a.loc).Build(tasks)
	if err != nil {
		return nil, fmt.Errorf("building features: %w", err)
	}

	m := NewCompletionModel(NewFeatureBuilder(a.loc), a.forest)
	start := time.Now()
	if err := m.FitRows(rows); err != nil {
		return nil, err
	}
	metrics.ModelFitSeconds.Observe(time.Since(start).Seconds())

	probs, err := m.PredictRows(rows)
	if err != nil {
		return nil, fmt.Errorf("predicting: %w", err)
	}
	preds, err := Pair(rows, probs)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, r := range rows {
		completed += r.IsCompleted
	}

	return &Report{
		RunID:          runID,
		GeneratedAt:    a.Now(),
		TotalTasks:     len(rows),
		CompletedTasks: completed,
		CompletionRate: float64(completed) / float64(len(rows)) * 100,
		Predictions:    preds,
		HighRisk:       HighRisk(preds),
		ByPriority:     Aggregate(preds),
	}, nil
}

// Today returns the capacity estimate and timetable for the current day.
func (a *Analyzer) Today(tasks []model.Task) (*DailyCapacity, []Slot) {
	now := a.Now()
	return EstimateDailyCapacity(tasks, now, a.loc), GenerateTimetable(tasks, now, a.loc)
}

// Dashboard loads every task from s and runs the full pipeline. Only a
// store failure is returned as an error; an analysis failure is reported
// in InsightsError so the rest of the dashboard stays usable.
func (a *Analyzer) Dashboard(ctx context.Context, s store.TaskStore) (*Dashboard, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	d := &Dashboard{}
	d.Today, d.Timetable = a.Today(tasks)
	d.Insights, err = a.Analyze(tasks)
	if err != nil {
		d.InsightsError = err.Error()
	}
	return d, nil
}
