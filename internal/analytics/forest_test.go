package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-insights/internal/analytics"
)

// separable returns samples labelled 1 exactly when the first feature
// exceeds 5.
func separable() ([][]float64, []int) {
	var x [][]float64
	var y []int
	for d := -5; d <= 15; d++ {
		for p := 0; p < 3; p++ {
			x = append(x, []float64{float64(d), float64(p)})
			label := 0
			if d > 5 {
				label = 1
			}
			y = append(y, label)
		}
	}
	return x, y
}

func TestForestLearnsSeparableData(t *testing.T) {
	x, y := separable()
	f, err := analytics.FitForest(x, y, analytics.DefaultForestConfig())
	require.NoError(t, err)
	require.Len(t, f.Trees, 100)

	probs, err := f.PredictProba([][]float64{{-4, 1}, {14, 1}})
	require.NoError(t, err)
	assert.Less(t, probs[0], 0.5)
	assert.Greater(t, probs[1], 0.5)

	labels, err := f.Predict([][]float64{{-4, 1}, {14, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, labels)
}

func TestForestIsDeterministic(t *testing.T) {
	x, y := separable()
	y[3], y[40] = 1-y[3], 1-y[40]

	a, err := analytics.FitForest(x, y, analytics.DefaultForestConfig())
	require.NoError(t, err)
	b, err := analytics.FitForest(x, y, analytics.DefaultForestConfig())
	require.NoError(t, err)

	pa, err := a.PredictProba(x)
	require.NoError(t, err)
	pb, err := b.PredictProba(x)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)

	for _, p := range pa {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestForestSingleClassIsDegenerate(t *testing.T) {
	x := [][]float64{{1, 0}, {2, 1}, {3, 2}}

	ones, err := analytics.FitForest(x, []int{1, 1, 1}, analytics.DefaultForestConfig())
	require.NoError(t, err)
	probs, err := ones.PredictProba(append(x, []float64{-10, 2}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1}, probs)

	zeros, err := analytics.FitForest(x, []int{0, 0, 0}, analytics.DefaultForestConfig())
	require.NoError(t, err)
	probs, err = zeros.PredictProba(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, probs)
}

func TestForestRejectsBadInput(t *testing.T) {
	cfg := analytics.DefaultForestConfig()

	_, err := analytics.FitForest(nil, nil, cfg)
	require.ErrorIs(t, err, analytics.ErrNoSamples)

	_, err = analytics.FitForest([][]float64{{1, 2}, {1}}, []int{0, 1}, cfg)
	require.Error(t, err)

	_, err = analytics.FitForest([][]float64{{1}}, []int{0, 1}, cfg)
	require.Error(t, err)

	_, err = analytics.FitForest([][]float64{{1}}, []int{2}, cfg)
	require.Error(t, err)

	f, err := analytics.FitForest([][]float64{{1, 2}}, []int{1}, cfg)
	require.NoError(t, err)
	_, err = f.PredictProba([][]float64{{1}})
	require.Error(t, err)
}

func TestCompletionModelRequiresFit(t *testing.T) {
	m := analytics.NewCompletionModel(analytics.NewFeatureBuilder(nil), analytics.DefaultForestConfig())
	assert.False(t, m.Fitted())

	_, err := m.PredictRows([]analytics.FeatureRow{{DaysToDue: 1}})
	require.ErrorIs(t, err, analytics.ErrNotFitted)

	require.ErrorIs(t, m.FitRows(nil), analytics.ErrNoSamples)
}
