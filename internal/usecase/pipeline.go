package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"PinFlow/internal/config"
	"PinFlow/internal/domain"
	"PinFlow/internal/ports"
	"PinFlow/internal/strategy"
)

// Batch generation paces provider calls to stay friendly with external
// rate limits; one item every two seconds.
var batchPace = rate.Every(2 * time.Second)

// PipelineDeps wires all driven adapters into the posting workflow.
type PipelineDeps struct {
	Planner    *strategy.Planner
	Images     ports.ImageGenerator
	Posting    ports.PostingClient
	Repository ports.StrategyRepository
	Analytics  ports.AnalyticsStore
	Logger     *slog.Logger
}

// Pipeline implements the generate-and-post workflow.
type Pipeline struct {
	cfg       config.Config
	planner   *strategy.Planner
	images    ports.ImageGenerator
	posting   ports.PostingClient
	repo      ports.StrategyRepository
	analytics ports.AnalyticsStore
	limiter   *rate.Limiter
	log       *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(cfg config.Config, deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		planner:   deps.Planner,
		images:    deps.Images,
		posting:   deps.Posting,
		repo:      deps.Repository,
		analytics: deps.Analytics,
		limiter:   rate.NewLimiter(batchPace, 1),
		log:       logger,
	}
}

// RunDaily executes one scheduled automation run: check the cadence gate,
// post once, then stage batch content when enabled.
func (p *Pipeline) RunDaily(ctx context.Context) error {
	if p.planner == nil {
		return nil
	}

	if !p.planner.ShouldPostToday(ctx) {
		p.log.Info("cadence gate closed, skipping run")
		return nil
	}

	if err := p.PostOnce(ctx); err != nil {
		return err
	}

	if p.cfg.Posting.BatchEnabled {
		if err := p.RunBatch(ctx, p.cfg.Posting.BatchSize); err != nil {
			p.log.Warn("batch generation", "error", err)
		}
	}

	return nil
}

// PostOnce runs the full workflow for today: strategy, image, publish,
// tracking. Content-side failures degrade inside the planner; only image
// generation and publishing report hard failure upward.
func (p *Pipeline) PostOnce(ctx context.Context) error {
	strat, prepared := p.planner.DailyStrategy(ctx)
	p.log.Info("content strategy", "niche", strat.Niche, "theme", strat.Theme)

	imagePath := ""
	if prepared != nil {
		imagePath = prepared.ImagePath
	}
	if imagePath == "" {
		artifact, err := p.generateImage(ctx, strat)
		if err != nil {
			return fmt.Errorf("generate image: %w", err)
		}
		imagePath = artifact.Path
	}

	boardID := strat.BoardID
	if boardID == "" && p.posting != nil {
		id, err := p.posting.ResolveBoardID(ctx, strat.BoardName)
		if err != nil {
			return fmt.Errorf("resolve board: %w", err)
		}
		boardID = id
	}

	if p.posting == nil {
		return fmt.Errorf("posting client not configured")
	}

	pin, err := p.posting.Publish(ctx, imagePath, boardID, strat)
	if err != nil {
		return fmt.Errorf("publish pin: %w", err)
	}
	p.log.Info("pin published", "pin_id", pin.ID, "url", pin.URL)

	if prepared != nil && p.repo != nil {
		if err := p.repo.MarkConsumed(ctx, prepared.ID); err != nil {
			p.log.Warn("mark prepared consumed", "id", prepared.ID, "error", err)
		}
	}

	if p.analytics != nil {
		if err := p.analytics.RecordPublished(ctx, pin.ID, strat); err != nil {
			p.log.Warn("record published", "pin_id", pin.ID, "error", err)
		}
	}

	return nil
}

// RunBatch pre-generates strategies and images for the next n days and
// stages them as prepared content. Item failures are logged and skipped;
// cancellation between items stops the batch.
func (p *Pipeline) RunBatch(ctx context.Context, n int) error {
	if p.planner == nil || n <= 0 {
		return nil
	}

	strategies := p.planner.BatchStrategies(ctx, n)
	staged := 0
	for i, strat := range strategies {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("batch cancelled: %w", err)
		}

		p.log.Info("staging batch content", "index", i+1, "total", len(strategies), "date", strat.Date)

		artifact, err := p.generateImage(ctx, strat)
		if err != nil {
			p.log.Warn("batch image generation", "date", strat.Date, "error", err)
			continue
		}

		if p.repo != nil {
			if err := p.repo.SavePrepared(ctx, strat, artifact.Path); err != nil {
				p.log.Warn("save prepared content", "date", strat.Date, "error", err)
				continue
			}
		}
		staged++
	}

	p.log.Info("batch generation complete", "staged", staged, "requested", n)
	return nil
}

// WeeklyReport fetches and logs the weekly aggregate.
func (p *Pipeline) WeeklyReport(ctx context.Context) (domain.WeeklyReport, error) {
	if p.analytics == nil {
		return domain.WeeklyReport{}, fmt.Errorf("analytics store not configured")
	}
	report, err := p.analytics.WeeklyReport(ctx, time.Now())
	if err != nil {
		return domain.WeeklyReport{}, fmt.Errorf("weekly report: %w", err)
	}

	p.log.Info("weekly report",
		"pins", report.PinsPublished,
		"impressions", report.Impressions,
		"saves", report.Saves,
		"outbound_clicks", report.OutboundClicks,
		"top_niche", report.TopNiche)
	return report, nil
}

func (p *Pipeline) generateImage(ctx context.Context, strat domain.Strategy) (domain.Artifact, error) {
	if p.images == nil {
		return domain.Artifact{}, fmt.Errorf("image generator not configured")
	}
	size := p.cfg.SizeFor(strat.Dimensions)
	return p.images.Generate(ctx, strat.Prompt, strat.Style, size.Width, size.Height)
}
