// Package trainer is the offline training pipeline: it reads the exported
// task CSV, fits the completion classifier on a stratified split, prints
// an evaluation report, and writes the model with a YAML manifest.
package trainer

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	yaml "github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nhle/task-insights/internal/analytics"
	"github.com/nhle/task-insights/internal/dataset"
	"github.com/nhle/task-insights/internal/metrics"
)

const (
	ModelFile    = "task_completion_model.gob"
	ManifestFile = "task_completion_model.yaml"

	TestFraction = 0.2
	Seed         = 42
	NumTrees     = 100
)

// Artifact is the serialized model.
type Artifact struct {
	Features []string
	Forest   analytics.Forest
}

// Manifest describes a trained artifact.
type Manifest struct {
	ID           string                         `yaml:"id"`
	CreatedAt    string                         `yaml:"created_at"`
	Dataset      string                         `yaml:"dataset"`
	Artifact     string                         `yaml:"artifact"`
	Features     []string                       `yaml:"features"`
	Estimators   int                            `yaml:"n_estimators"`
	Seed         int64                          `yaml:"random_state"`
	TestFraction float64                        `yaml:"test_size"`
	TrainSamples int                            `yaml:"train_samples"`
	TestSamples  int                            `yaml:"test_samples"`
	Report       analytics.ClassificationReport `yaml:"report"`
}

// Options locate the inputs and outputs of a run. Dir holds the dataset
// and receives the artifacts.
type Options struct {
	Dir      string
	Location *time.Location
	Now      func() time.Time
	Out      io.Writer
	Log      *logrus.Entry
}

// Result is what a successful run produced.
type Result struct {
	Manifest     Manifest
	ModelPath    string
	ManifestPath string
}

// Run trains and evaluates the classifier on Dir's dataset.
func Run(opts Options) (*Result, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}

	datasetPath := filepath.Join(opts.Dir, dataset.DefaultFile)
	tasks, err := dataset.ReadFile(datasetPath, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	rows, err := analytics.NewFeatureBuilder(opts.Location).Build(tasks)
	if err != nil {
		return nil, fmt.Errorf("building features: %w", err)
	}

	x := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, r := range rows {
		x[i] = r.CalendarVector()
		y[i] = r.IsCompleted
	}

	split, err := analytics.StratifiedSplit(y, TestFraction, Seed)
	if err != nil {
		return nil, err
	}
	trainX, trainY := subset(x, y, split.Train)
	testX, testY := subset(x, y, split.Test)

	log := opts.Log.WithFields(logrus.Fields{
		"samples": len(rows),
		"train":   len(split.Train),
		"test":    len(split.Test),
	})
	log.Info("training completion model")

	start := time.Now()
	forest, err := analytics.FitForest(trainX, trainY, analytics.ForestConfig{NumTrees: NumTrees, Seed: Seed})
	if err != nil {
		return nil, err
	}
	metrics.ModelFitSeconds.Observe(time.Since(start).Seconds())

	pred, err := forest.Predict(testX)
	if err != nil {
		return nil, fmt.Errorf("evaluating: %w", err)
	}
	report, err := analytics.NewClassificationReport(testY, pred)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(opts.Out, report.String())

	res := &Result{
		ModelPath:    filepath.Join(opts.Dir, ModelFile),
		ManifestPath: filepath.Join(opts.Dir, ManifestFile),
		Manifest: Manifest{
			ID:           uuid.NewString(),
			CreatedAt:    opts.Now().Format(time.RFC3339),
			Dataset:      dataset.DefaultFile,
			Artifact:     ModelFile,
			Features:     analytics.TrainerFeatures,
			Estimators:   NumTrees,
			Seed:         Seed,
			TestFraction: TestFraction,
			TrainSamples: len(split.Train),
			TestSamples:  len(split.Test),
			Report:       report,
		},
	}

	if err := SaveModel(res.ModelPath, Artifact{Features: analytics.TrainerFeatures, Forest: *forest}); err != nil {
		return nil, err
	}
	if err := WriteManifest(res.ManifestPath, res.Manifest); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"manifest_id": res.Manifest.ID,
		"accuracy":    report.Accuracy,
		"model":       res.ModelPath,
	}).Info("model saved")
	return res, nil
}

func subset(x [][]float64, y []int, idx []int) ([][]float64, []int) {
	sx := make([][]float64, len(idx))
	sy := make([]int, len(idx))
	for i, j := range idx {
		sx[i] = x[j]
		sy[i] = y[j]
	}
	return sx, sy
}

// SaveModel writes a with encoding/gob.
func SaveModel(path string, a Artifact) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating model file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing model file: %w", cerr)
		}
	}()
	if err := gob.NewEncoder(f).Encode(a); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	return nil
}

// LoadModel reads an artifact written by SaveModel.
func LoadModel(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model file: %w", err)
	}
	defer f.Close()

	var a Artifact
	if err := gob.NewDecoder(f).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	return &a, nil
}

// WriteManifest writes m as YAML.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}
