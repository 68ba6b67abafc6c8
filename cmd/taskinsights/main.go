package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/nhle/task-insights/internal/analytics"
	"github.com/nhle/task-insights/internal/app"
	"github.com/nhle/task-insights/internal/credential"
	"github.com/nhle/task-insights/internal/dataset"
	"github.com/nhle/task-insights/internal/logging"
	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/server"
	"github.com/nhle/task-insights/internal/store"
)

const usage = `Usage: taskinsights [flags] [command]

Commands:
  (none)        open the interactive task tracker
  serve         run the local JSON API
  export [path] write all tasks to a CSV file
  init-config   write the default configuration file
  token         print a bearer token for the API

Flags:
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "taskinsights:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("taskinsights", flag.ContinueOnError)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to the YAML config file")
	dbPath := fs.String("db", "", "path to the SQLite task database, or :memory: for a session-only store (overrides config)")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	command := fs.Arg(0)
	switch command {
	case "init-config":
		if err := model.SaveConfig(*configPath, cfg); err != nil {
			return err
		}
		fmt.Println("wrote", *configPath)
		return nil
	case "token":
		return printToken()
	}

	loc, err := cfg.Analytics.Location()
	if err != nil {
		return err
	}

	var log *logrus.Entry
	if command == "" {
		var closer io.Closer
		log, closer, err = logging.NewFile("taskinsights", cfg.Log.Level, cfg.Log.File)
		if err != nil {
			return err
		}
		defer closer.Close()
	} else {
		log = logging.New("taskinsights", cfg.Log.Level, os.Stderr)
	}

	db, err := store.Open(cfg.Database.Path, store.WithLocation(loc))
	if err != nil {
		return err
	}
	defer db.Close()
	tasks := store.Instrument(db, log.WithField("component", "store"))

	analyzer := analytics.NewAnalyzer(loc, analytics.WithLogger(log.WithField("component", "analytics")))

	switch command {
	case "":
		return runUI(tasks, analyzer, cfg, log)
	case "serve":
		return serve(tasks, analyzer, cfg, log)
	case "export":
		path := cfg.Export.Path
		if p := fs.Arg(1); p != "" {
			path = p
		}
		return export(tasks, path, loc)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runUI(s store.TaskStore, a *analytics.Analyzer, cfg *model.AppConfig, log *logrus.Entry) error {
	m := app.New(app.Options{
		Store:      s,
		Analyzer:   a,
		ExportPath: cfg.Export.Path,
		Log:        log,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running terminal ui: %w", err)
	}
	return nil
}

func serve(s store.TaskStore, a *analytics.Analyzer, cfg *model.AppConfig, log *logrus.Entry) error {
	key, err := signingKey()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(s, a, log.WithField("component", "server"), server.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SigningKey:     key,
	})
	return srv.Run(ctx)
}

func export(s store.TaskStore, path string, loc *time.Location) error {
	tasks, err := s.ListTasks(context.Background())
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return errors.New("no tasks to export")
	}
	if err := dataset.WriteFile(path, tasks, loc); err != nil {
		return err
	}
	fmt.Printf("exported %d tasks to %s\n", len(tasks), path)
	return nil
}

func printToken() error {
	key, err := signingKey()
	if err != nil {
		return err
	}
	token, err := server.IssueToken(key, "local", time.Now())
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func signingKey() ([]byte, error) {
	vault, err := credential.Open()
	if err != nil {
		return nil, err
	}
	return vault.SigningKey()
}
