package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"PinFlow/internal/config"
	"PinFlow/internal/domain"
	"PinFlow/internal/infrastructure/analytics"
	"PinFlow/internal/infrastructure/imagegen"
	"PinFlow/internal/infrastructure/pinterest"
	"PinFlow/internal/infrastructure/scheduler"
	"PinFlow/internal/infrastructure/storage"
	"PinFlow/internal/infrastructure/trends"
	"PinFlow/internal/logging"
	"PinFlow/internal/strategy"
	"PinFlow/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	db       *sql.DB
	posting  *pinterest.Client
	pipeline *usecase.Pipeline
	log      *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var db *sql.DB
	if cfg.Database.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = opened
	}

	repo := storage.NewPostgresRepository(db)
	tracker := analytics.NewPostgresTracker(db, logging.Component(baseLogger, "analytics"))

	if db != nil {
		schemaCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(schemaCtx); err != nil {
			return nil, fmt.Errorf("strategy schema: %w", err)
		}
		if err := tracker.EnsureSchema(schemaCtx); err != nil {
			return nil, fmt.Errorf("performance schema: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	trendSource := trends.NewScraper(cfg.Trends.URL, rng, logging.Component(baseLogger, "trends"))

	planner := strategy.NewPlanner(cfg, strategy.PlannerDeps{
		Repository: repo,
		Analytics:  tracker,
		Trends:     trendSource,
		Rand:       rng,
		Logger:     logging.Component(baseLogger, "planner"),
	})

	store, err := imagegen.NewArtifactStore(cfg.ImageGen.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("artifact store: %w", err)
	}

	registry := imagegen.NewRegistry()
	registry.Register(imagegen.NewOpenAIClient(cfg.ImageGen.OpenAIKey, store))
	registry.Register(imagegen.NewStabilityClient(cfg.ImageGen.StabilityKey, store))

	provider, err := registry.Resolve(cfg.ImageGen.Provider)
	if err != nil {
		return nil, fmt.Errorf("resolve image provider: %w", err)
	}

	posting := pinterest.NewClient(cfg.Pinterest, cfg.Boards, logging.Component(baseLogger, "pinterest"))

	pipeline := usecase.NewPipeline(cfg, usecase.PipelineDeps{
		Planner:    planner,
		Images:     provider,
		Posting:    posting,
		Repository: repo,
		Analytics:  tracker,
		Logger:     logging.Component(baseLogger, "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		db:       db,
		posting:  posting,
		pipeline: pipeline,
		log:      baseLogger,
	}, nil
}

// RunScheduled starts the time-of-day scheduler and blocks until the
// context is cancelled or a termination signal arrives.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver := scheduler.NewTimesScheduler(a.cfg.Posting.Times, a.cfg.Posting.Location())
	runner := usecase.NewScheduler(driver, a.pipeline, logging.Component(a.log, "scheduler"))

	if a.cfg.Posting.RunInitialPost {
		if err := a.pipeline.RunDaily(ctx); err != nil {
			a.log.Error("initial run", "error", err)
		}
	}

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.log.Info("scheduler running", "times", a.cfg.Posting.Times)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case <-signals:
		a.log.Info("shutdown signal received")
	}

	return runner.Stop(context.Background())
}

// PostOnce runs a single posting workflow immediately.
func (a *Application) PostOnce(ctx context.Context) error {
	return a.pipeline.PostOnce(ctx)
}

// Batch stages content for the next n days.
func (a *Application) Batch(ctx context.Context, n int) error {
	if n <= 0 {
		n = a.cfg.Posting.BatchSize
	}
	return a.pipeline.RunBatch(ctx, n)
}

// EnsureBoards bootstraps the configured default boards.
func (a *Application) EnsureBoards(ctx context.Context) (map[string]string, error) {
	return a.posting.EnsureBoards(ctx)
}

// Report fetches and logs the weekly aggregate.
func (a *Application) Report(ctx context.Context) (domain.WeeklyReport, error) {
	return a.pipeline.WeeklyReport(ctx)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
