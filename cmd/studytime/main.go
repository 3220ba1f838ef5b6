package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/studytime/internal/behavior"
	"github.com/alexanderramin/studytime/internal/cli"
	"github.com/alexanderramin/studytime/internal/cli/formatter"
	"github.com/alexanderramin/studytime/internal/config"
	"github.com/alexanderramin/studytime/internal/db"
	"github.com/alexanderramin/studytime/internal/repository"
	"github.com/alexanderramin/studytime/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := cfg.NewLogger(os.Stderr)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	records := repository.NewSQLiteStudyTimeRepo(database)
	var limits repository.DailyLimitRepo = repository.NewSQLiteDailyLimitRepo(database, cfg.Policy.DailyLimitSeconds)

	// The Redis limit cache is optional.
	if cfg.RedisURL != "" {
		client, err := db.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer client.Close()
		limits = repository.NewCachedDailyLimitRepo(limits, client, cfg.LimitCacheTTL, logger)
	}

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewSlogUseCaseObserver(logger)

	// Wire services
	app := &cli.App{
		StudyTime: service.NewStudyTimeService(cfg.Policy, service.StudyTimeDeps{
			Records: records,
			Limits:  limits,
			UoW:     uow,
			Signals: behavior.NewExtractor(behavior.Config{
				ContinuityGapSeconds: cfg.Policy.ContinuityGapSeconds,
			}),
			Location: cfg.Location,
			Workers:  cfg.BatchWorkers,
		}, observer),
		Limits:   service.NewLimitService(limits, observer),
		Location: cfg.Location,
	}

	// Style output only on a terminal.
	fd := os.Stdout.Fd()
	formatter.SetPlain(!isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd))

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
