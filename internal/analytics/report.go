package analytics

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ClassMetrics holds precision, recall and F1 for one label or average.
type ClassMetrics struct {
	Label     string  `yaml:"label" json:"label"`
	Precision float64 `yaml:"precision" json:"precision"`
	Recall    float64 `yaml:"recall" json:"recall"`
	F1        float64 `yaml:"f1" json:"f1"`
	Support   int     `yaml:"support" json:"support"`
}

// ClassificationReport is the evaluation summary of a classifier on a
// held-out set. Undefined ratios are reported as zero.
type ClassificationReport struct {
	Classes     []ClassMetrics `yaml:"classes" json:"classes"`
	Accuracy    float64        `yaml:"accuracy" json:"accuracy"`
	MacroAvg    ClassMetrics   `yaml:"macro_avg" json:"macro_avg"`
	WeightedAvg ClassMetrics   `yaml:"weighted_avg" json:"weighted_avg"`
}

// NewClassificationReport compares true and predicted labels. The report
// covers every label seen in either slice.
func NewClassificationReport(yTrue, yPred []int) (ClassificationReport, error) {
	if len(yTrue) != len(yPred) {
		return ClassificationReport{}, fmt.Errorf("classification report: %d true labels but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return ClassificationReport{}, ErrNoSamples
	}

	var labels []int
	for _, l := range append(slices.Clone(yTrue), yPred...) {
		if !slices.Contains(labels, l) {
			labels = append(labels, l)
		}
	}
	slices.Sort(labels)

	var report ClassificationReport
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	report.Accuracy = float64(correct) / float64(len(yTrue))

	total := len(yTrue)
	report.MacroAvg.Label = "macro avg"
	report.WeightedAvg.Label = "weighted avg"
	for _, l := range labels {
		var tp, fp, fn int
		for i := range yTrue {
			switch {
			case yTrue[i] == l && yPred[i] == l:
				tp++
			case yTrue[i] != l && yPred[i] == l:
				fp++
			case yTrue[i] == l && yPred[i] != l:
				fn++
			}
		}
		m := ClassMetrics{
			Label:     strconv.Itoa(l),
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes = append(report.Classes, m)

		k := float64(len(labels))
		w := float64(m.Support) / float64(total)
		report.MacroAvg.Precision += m.Precision / k
		report.MacroAvg.Recall += m.Recall / k
		report.MacroAvg.F1 += m.F1 / k
		report.WeightedAvg.Precision += m.Precision * w
		report.WeightedAvg.Recall += m.Recall * w
		report.WeightedAvg.F1 += m.F1 * w
	}
	report.MacroAvg.Support = total
	report.WeightedAvg.Support = total
	return report, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// String renders the report as an aligned text table.
func (r ClassificationReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%12s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		writeMetricsLine(&b, c)
	}
	b.WriteString("\n")
	support := r.MacroAvg.Support
	fmt.Fprintf(&b, "%12s %10s %10s %10.2f %10d\n", "accuracy", "", "", r.Accuracy, support)
	writeMetricsLine(&b, r.MacroAvg)
	writeMetricsLine(&b, r.WeightedAvg)
	return b.String()
}

func writeMetricsLine(b *strings.Builder, m ClassMetrics) {
	fmt.Fprintf(b, "%12s %10.2f %10.2f %10.2f %10d\n", m.Label, m.Precision, m.Recall, m.F1, m.Support)
}
