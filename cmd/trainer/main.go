package main

import (
	"fmt"
	"os"

	"github.com/nhle/task-insights/internal/logging"
	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/trainer"
)

// The trainer takes no flags: it reads tasks_dataset.csv from the working
// directory and writes the model artifacts next to it.
func main() {
	log := logging.New("trainer", "info", os.Stderr)

	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}
	loc, err := cfg.Analytics.Location()
	if err != nil {
		log.WithError(err).Fatal("resolving timezone")
	}

	res, err := trainer.Run(trainer.Options{
		Dir:      ".",
		Location: loc,
		Out:      os.Stdout,
		Log:      log,
	})
	if err != nil {
		log.WithError(err).Fatal("training failed")
	}

	fmt.Printf("Model saved to %s\n", res.ModelPath)
	fmt.Printf("Manifest saved to %s\n", res.ManifestPath)
}
