package analytics

import (
	"errors"
	"fmt"

	"github.com/nhle/task-insights/internal/model"
)

// ErrNotFitted is returned when predicting with a model that has not been
// trained.
var ErrNotFitted = errors.New("model has not been fitted")

// CompletionModel predicts the probability that a task gets completed from
// its days-to-due and encoded priority.
type CompletionModel struct {
	builder FeatureBuilder
	config  ForestConfig
	forest  *Forest
}

// NewCompletionModel returns an unfitted model.
func NewCompletionModel(builder FeatureBuilder, cfg ForestConfig) *CompletionModel {
	return &CompletionModel{builder: builder, config: cfg}
}

// Fit trains the model on tasks with their completion flag as target.
// A task set with a single outcome yields a model that always predicts
// that outcome.
func (m *CompletionModel) Fit(tasks []model.Task) error {
	rows, err := m.builder.Build(tasks)
	if err != nil {
		return fmt.Errorf("building features: %w", err)
	}
	return m.FitRows(rows)
}

// FitRows trains the model on prebuilt feature rows.
func (m *CompletionModel) FitRows(rows []FeatureRow) error {
	if len(rows) == 0 {
		return ErrNoSamples
	}
	x := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, r := range rows {
		x[i] = r.Vector()
		y[i] = r.IsCompleted
	}

	forest, err := FitForest(x, y, m.config)
	if err != nil {
		return fmt.Errorf("fitting completion model: %w", err)
	}
	m.forest = forest
	return nil
}

// PredictProba returns a completion probability in [0,1] per task.
func (m *CompletionModel) PredictProba(tasks []model.Task) ([]float64, error) {
	rows, err := m.builder.Build(tasks)
	if err != nil {
		return nil, fmt.Errorf("building features: %w", err)
	}
	return m.PredictRows(rows)
}

// PredictRows returns a completion probability per feature row.
func (m *CompletionModel) PredictRows(rows []FeatureRow) ([]float64, error) {
	if m.forest == nil {
		return nil, ErrNotFitted
	}
	x := make([][]float64, len(rows))
	for i, r := range rows {
		x[i] = r.Vector()
	}
	return m.forest.PredictProba(x)
}

// Fitted reports whether Fit has succeeded.
func (m *CompletionModel) Fitted() bool {
	return m.forest != nil
}
