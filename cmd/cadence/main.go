package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexanderramin/cadence/internal/cli"
	"github.com/alexanderramin/cadence/internal/config"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := &cli.App{
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	root := cli.NewRootCmd(app)
	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.cadence/config.yaml)")

	// Services are wired only once a command actually runs, so help and
	// completion never touch the database.
	var rt *resources
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		var err error
		rt, err = wire(configPath, app)
		return err
	}

	root.SetArgs(args)
	err := root.Execute()
	if rt != nil {
		err = errors.Join(err, rt.close())
	}
	return err
}

// resources holds what must be released after the command finishes.
type resources struct {
	database *sql.DB
	logger   *zap.Logger
	registry *prometheus.Registry
	textfile string
}

func wire(configPath string, app *cli.App) (*resources, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	rt := &resources{database: database, logger: logger}

	var observers []service.UseCaseObserver
	if cfg.Log.UseCases {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}
	if cfg.Metrics.Textfile != "" {
		rt.registry = prometheus.NewRegistry()
		rt.textfile = cfg.Metrics.Textfile
		metrics, err := service.NewMetricsUseCaseObserver(rt.registry)
		if err != nil {
			return nil, errors.Join(err, rt.close())
		}
		observers = append(observers, metrics)
	}

	// Wire repositories
	planRepo := repository.NewSQLitePlanRepo(database)
	categoryRepo := repository.NewSQLiteCategoryRepo(database)
	tagRepo := repository.NewSQLiteTagRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	opts := service.Options{
		MaxWindowDays: cfg.MaxWindowDays,
		AgendaWorkers: cfg.AgendaWorkers,
	}

	app.Plans = service.NewPlanService(planRepo, categoryRepo, uow, opts, observers...)
	app.Categories = service.NewCategoryService(categoryRepo, uow, opts, observers...)
	app.Tags = service.NewTagService(tagRepo, planRepo, uow, opts, observers...)
	app.Agenda = service.NewAgendaService(planRepo, opts, observers...)

	logger.Debug("cadence ready",
		zap.String("db_path", cfg.DBPath),
		zap.Int("max_window_days", cfg.MaxWindowDays),
		zap.Bool("metrics", rt.registry != nil))
	return rt, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.DisableStacktrace = true
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

func (rt *resources) close() error {
	var errs []error
	if rt.registry != nil {
		if err := prometheus.WriteToTextfile(rt.textfile, rt.registry); err != nil {
			errs = append(errs, fmt.Errorf("writing metrics: %w", err))
		}
	}
	if err := rt.database.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}
	// Sync on a console stderr fails on some platforms; nothing is buffered.
	_ = rt.logger.Sync()
	return errors.Join(errs...)
}
