package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"PinFlow/internal/config"
	"PinFlow/internal/domain"
	"PinFlow/internal/ports"
)

const (
	rankingWindow  = 30 * 24 * time.Hour
	recencyWindow  = 7 * 24 * time.Hour
	dateLayout     = "2006-01-02"
	trendingSample = 3
)

// PlannerDeps wires the stores and sources the planner reads from.
type PlannerDeps struct {
	Repository ports.StrategyRepository
	Analytics  ports.AnalyticsStore
	Trends     ports.TrendSource
	Rand       *rand.Rand
	Logger     *slog.Logger
	Now        func() time.Time
}

// Planner synthesizes daily content strategies and enforces cadence policy.
type Planner struct {
	cfg       config.Config
	repo      ports.StrategyRepository
	analytics ports.AnalyticsStore
	trends    ports.TrendSource
	rng       *rand.Rand
	log       *slog.Logger
	now       func() time.Time
}

// NewPlanner constructs the strategy planner.
func NewPlanner(cfg config.Config, deps PlannerDeps) *Planner {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Planner{
		cfg:       cfg,
		repo:      deps.Repository,
		analytics: deps.Analytics,
		trends:    deps.Trends,
		rng:       rng,
		log:       logger,
		now:       now,
	}
}

// DailyStrategy returns today's content plan. A staged PreparedContent row
// for today wins and is returned verbatim (the second return value carries
// it so the publisher can mark it consumed). Otherwise a fresh strategy is
// synthesized and persisted; persistence failures are logged and the
// strategy is still returned for immediate use.
func (p *Planner) DailyStrategy(ctx context.Context) (domain.Strategy, *domain.PreparedContent) {
	today := p.today()
	date := today.Format(dateLayout)

	if p.repo != nil {
		prepared, err := p.repo.LoadPrepared(ctx, date)
		if err != nil {
			p.log.Warn("load prepared content", "date", date, "error", err)
		} else if prepared != nil {
			p.log.Info("using prepared content", "date", date, "niche", prepared.Strategy.Niche)
			return prepared.Strategy, prepared
		}
	}

	strat, err := p.generateFor(ctx, today)
	if err != nil {
		p.log.Error("generate strategy", "date", date, "error", err)
		return p.Fallback(today), nil
	}

	if p.repo != nil {
		if err := p.repo.SaveStrategy(ctx, strat); err != nil {
			p.log.Warn("save strategy", "date", date, "error", err)
		}
	}

	return strat, nil
}

// ShouldPostToday is the cadence gate: false on weekends when skip-weekends
// is set, false once today's strategy count reaches the daily cap. It does
// not gate DailyStrategy itself; callers decide, and batch generation
// deliberately bypasses it.
func (p *Planner) ShouldPostToday(ctx context.Context) bool {
	today := p.today()

	if p.cfg.Posting.SkipWeekends {
		switch today.Weekday() {
		case time.Saturday, time.Sunday:
			p.log.Info("skipping weekend post", "weekday", today.Weekday().String())
			return false
		}
	}

	if p.repo == nil {
		return true
	}

	date := today.Format(dateLayout)
	count, err := p.repo.CountForDate(ctx, date)
	if err != nil {
		p.log.Warn("count posts for date", "date", date, "error", err)
		return true
	}
	if count >= p.cfg.Posting.PostsPerDay {
		p.log.Info("daily post limit reached", "count", count, "limit", p.cfg.Posting.PostsPerDay)
		return false
	}

	return true
}

// BatchStrategies generates n independent strategies for the next n future
// dates. They are not persisted as daily strategies; staging them as
// prepared content is the caller's decision.
func (p *Planner) BatchStrategies(ctx context.Context, n int) []domain.Strategy {
	strategies := make([]domain.Strategy, 0, n)
	for i := 1; i <= n; i++ {
		day := p.today().AddDate(0, 0, i)
		strat, err := p.generateFor(ctx, day)
		if err != nil {
			p.log.Error("generate batch strategy", "date", day.Format(dateLayout), "error", err)
			strat = p.Fallback(day)
		}
		strategies = append(strategies, strat)
	}
	return strategies
}

func (p *Planner) generateFor(ctx context.Context, day time.Time) (domain.Strategy, error) {
	niches := p.cfg.NicheNames()
	if len(niches) == 0 {
		return domain.Strategy{}, fmt.Errorf("no niches configured")
	}

	ranked := p.rankedNiches(ctx)
	recent := p.recentNicheCounts(ctx)
	seasonal := SeasonalTheme(day, p.rng)
	trending := p.trendingKeywords(ctx)

	niche := SelectNiche(niches, ranked, recent, p.rng)
	nicheCfg := p.cfg.GetNiche(niche)

	theme := BuildTheme(nicheCfg.Themes, seasonal, trending, p.rng)
	keywords := BuildKeywords(nicheCfg.Hashtags, theme, trending)

	strat := domain.Strategy{
		Date:        day.Format(dateLayout),
		Niche:       niche,
		Theme:       theme,
		Keywords:    keywords,
		Prompt:      BuildPrompt(nicheCfg.PromptTemplates, theme, p.rng),
		Title:       BuildTitle(theme, p.rng),
		Description: BuildDescription(theme, niche, keywords, p.rng),
		BoardName:   SelectBoard(nicheCfg.Boards, p.cfg.DefaultBoardNames(), p.rng),
		Style:       SelectStyle(niche, seasonal, p.rng),
		Dimensions:  SelectDimensions(niche),
		WebsiteLink: TrackingLink(p.cfg.Website.URL, niche, theme, day),
		AltText:     BuildAltText(theme, keywords),
		Hashtags:    BuildHashtags(nicheCfg.Hashtags, keywords),
		PostingTime: PostingTime(niche, p.cfg.Posting.Times, p.rng),
	}

	p.log.Info("strategy generated", "date", strat.Date, "niche", niche, "theme", theme)
	return strat, nil
}

// Fallback is the fixed, fully-populated strategy returned when synthesis
// fails, so downstream publishing always receives a valid shape.
func (p *Planner) Fallback(day time.Time) domain.Strategy {
	board := "Daily Inspiration"
	if names := p.cfg.DefaultBoardNames(); len(names) > 0 {
		board = names[0]
	}
	return domain.Strategy{
		Date:        day.Format(dateLayout),
		Niche:       "lifestyle",
		Theme:       "daily inspiration",
		Keywords:    []string{"#inspiration", "#lifestyle", "#pinterest"},
		Prompt:      "Beautiful daily inspiration, pinterest aesthetic, high quality",
		Title:       "Daily Inspiration Ideas",
		Description: "Beautiful inspiration for your day. Save this pin! #inspiration #lifestyle",
		BoardName:   board,
		Style:       "standard",
		Dimensions:  domain.DimensionStandard,
		WebsiteLink: p.cfg.Website.URL,
		AltText:     "Daily inspiration pinterest pin",
		Hashtags:    []string{"#inspiration", "#lifestyle", "#pinterest"},
		PostingTime: "15:00",
	}
}

func (p *Planner) rankedNiches(ctx context.Context) []string {
	if p.analytics == nil {
		return nil
	}
	ranked, err := p.analytics.RankNiches(ctx, rankingWindow)
	if err != nil {
		// No signal, not an error: selection falls back to uniform.
		p.log.Warn("rank niches", "error", err)
		return nil
	}
	return ranked
}

func (p *Planner) recentNicheCounts(ctx context.Context) map[string]int {
	if p.repo == nil {
		return nil
	}
	since := p.now().Add(-recencyWindow)
	counts, err := p.repo.RecentNicheCounts(ctx, since)
	if err != nil {
		p.log.Warn("recent niche counts", "error", err)
		return nil
	}
	return counts
}

func (p *Planner) trendingKeywords(ctx context.Context) []string {
	if p.trends == nil {
		return nil
	}
	return p.trends.Sample(ctx, trendingSample)
}

func (p *Planner) today() time.Time {
	return p.now().In(p.cfg.Posting.Location())
}
