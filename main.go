package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/example/wordlebot/internal/answer"
	"github.com/example/wordlebot/internal/award"
	"github.com/example/wordlebot/internal/bot"
	"github.com/example/wordlebot/internal/config"
	"github.com/example/wordlebot/internal/database"
	"github.com/example/wordlebot/internal/metrics"
	"github.com/example/wordlebot/internal/scheduler"
	"github.com/example/wordlebot/internal/submission"
)

func main() {
	app := &cli.App{
		Name:  "wordlebot",
		Usage: "record Wordle results shared in Telegram",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "start the bot",
				Action: run,
			},
			{
				Name:   "migrate",
				Usage:  "create the database schema and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

func migrate(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Schema is up to date", zap.String("driver", cfg.Database.Driver))
	return nil
}

func run(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Подключаемся к базе данных
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	users := database.NewUserRepository(db)
	results := database.NewResultRepository(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	if !cfg.Award.Enabled() {
		logger.Warn("Award service is not configured, awards will be skipped")
	}

	service := submission.NewService(
		users,
		results,
		answer.NewClient(cfg.Answer),
		award.NewReporter(cfg.Award),
		m,
		logger.Named("submission"),
	)

	b, err := bot.New(cfg.Telegram, service, results, logger.Named("bot"))
	if err != nil {
		return err
	}

	if cfg.Scheduler.Enabled {
		s := scheduler.New(users, b, cfg.Scheduler.ReminderHour, m, logger.Named("scheduler"))
		if err := s.Start(); err != nil {
			return err
		}
		defer s.Stop()
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Address != "" {
		g.Go(func() error {
			return metrics.Serve(ctx, cfg.Metrics.Address, metrics.NewRouter(registry, results, logger), logger)
		})
	}

	g.Go(func() error {
		logger.Info("Bot started. Press Ctrl+C to stop.")
		return b.Start(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("Bot stopped successfully")
	return nil
}
