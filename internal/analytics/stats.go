package analytics

import (
	"fmt"
	"math"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/nhle/task-insights/internal/model"
)

// HighRiskThreshold is the completion probability below which a task is
// reported as high risk.
const HighRiskThreshold = 0.3

// Prediction pairs a feature row with its predicted completion probability.
type Prediction struct {
	FeatureRow
	Probability float64 `json:"probability"`
}

// PriorityStats summarizes the tasks of one priority.
type PriorityStats struct {
	Priority model.Priority `json:"priority"`
	Count    int            `json:"task_count"`

	// CompletionRate is the mean of is_completed, in [0,1].
	CompletionRate float64 `json:"completion_rate"`

	// PredictedSuccess is the mean predicted probability, in [0,1].
	PredictedSuccess float64 `json:"predicted_success_rate"`
}

// Rounded returns a copy with rates rounded to two decimals for display.
func (s PriorityStats) Rounded() PriorityStats {
	s.CompletionRate = Round(s.CompletionRate, 2)
	s.PredictedSuccess = Round(s.PredictedSuccess, 2)
	return s
}

type accumulator struct {
	priority  model.Priority
	count     int
	completed int
	probSum   float64
}

func (a *accumulator) stats() PriorityStats {
	return PriorityStats{
		Priority:         a.priority,
		Count:            a.count,
		CompletionRate:   float64(a.completed) / float64(a.count),
		PredictedSuccess: a.probSum / float64(a.count),
	}
}

// Aggregate groups predictions by priority. Groups are returned High,
// Medium, Low, and only priorities that occur are included.
func Aggregate(preds []Prediction) []PriorityStats {
	groups := treemap.NewWithIntComparator()
	for _, p := range preds {
		rank := p.Priority.Rank()
		v, ok := groups.Get(rank)
		if !ok {
			v = &accumulator{priority: p.Priority}
			groups.Put(rank, v)
		}
		acc := v.(*accumulator)
		acc.count++
		acc.completed += p.IsCompleted
		acc.probSum += p.Probability
	}

	out := make([]PriorityStats, 0, groups.Size())
	for _, v := range groups.Values() {
		out = append(out, v.(*accumulator).stats())
	}
	return out
}

// HighRisk returns the predictions with probability strictly below
// HighRiskThreshold, in input order.
func HighRisk(preds []Prediction) []Prediction {
	var risky []Prediction
	for _, p := range preds {
		if p.Probability < HighRiskThreshold {
			risky = append(risky, p)
		}
	}
	return risky
}

// Pair zips feature rows with their probabilities.
func Pair(rows []FeatureRow, probs []float64) ([]Prediction, error) {
	if len(rows) != len(probs) {
		return nil, fmt.Errorf("pairing predictions: %d rows but %d probabilities", len(rows), len(probs))
	}
	preds := make([]Prediction, len(rows))
	for i := range rows {
		preds[i] = Prediction{FeatureRow: rows[i], Probability: probs[i]}
	}
	return preds, nil
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
