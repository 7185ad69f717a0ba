package strategy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"
	"unicode/utf8"

	"PinFlow/internal/config"
	"PinFlow/internal/domain"
)

type stubRepository struct {
	prepared    *domain.PreparedContent
	preparedErr error
	saved       []domain.Strategy
	saveErr     error
	count       int
	countErr    error
	recent      map[string]int
}

func (s *stubRepository) SaveStrategy(_ context.Context, strat domain.Strategy) error {
	s.saved = append(s.saved, strat)
	return s.saveErr
}

func (s *stubRepository) LoadPrepared(context.Context, string) (*domain.PreparedContent, error) {
	return s.prepared, s.preparedErr
}

func (s *stubRepository) SavePrepared(context.Context, domain.Strategy, string) error {
	return nil
}

func (s *stubRepository) MarkConsumed(context.Context, int64) error { return nil }

func (s *stubRepository) CountForDate(context.Context, string) (int, error) {
	return s.count, s.countErr
}

func (s *stubRepository) RecentNicheCounts(context.Context, time.Time) (map[string]int, error) {
	return s.recent, nil
}

type stubAnalytics struct {
	ranked []string
	err    error
}

func (s *stubAnalytics) RecordPublished(context.Context, string, domain.Strategy) error {
	return nil
}

func (s *stubAnalytics) RankNiches(context.Context, time.Duration) ([]string, error) {
	return s.ranked, s.err
}

func (s *stubAnalytics) WeeklyReport(context.Context, time.Time) (domain.WeeklyReport, error) {
	return domain.WeeklyReport{}, nil
}

type stubTrends struct {
	terms []string
}

func (s *stubTrends) Sample(_ context.Context, n int) []string {
	if n > len(s.terms) {
		n = len(s.terms)
	}
	return s.terms[:n]
}

func testConfig() config.Config {
	return config.Config{
		Website: config.WebsiteConfig{URL: "https://example.com"},
		Posting: config.PostingConfig{
			Times:       []string{"10:00", "18:00"},
			PostsPerDay: 3,
		},
		Niches: []config.NicheConfig{
			{
				Name:            "wellness",
				Themes:          []string{"morning routines", "self care"},
				PromptTemplates: []string{"Calming {theme} scene, soft light"},
				Hashtags:        []string{"#wellness", "#selfcare"},
				Boards:          []string{"Wellness Journey"},
			},
			{
				Name:     "food",
				Themes:   []string{"easy dinners"},
				Hashtags: []string{"#food", "#recipes"},
			},
		},
		Boards: []config.BoardConfig{{Name: "Daily Inspiration"}},
	}
}

func testPlanner(cfg config.Config, deps PlannerDeps) *Planner {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(40))
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Now == nil {
		// A Wednesday.
		deps.Now = func() time.Time {
			return time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)
		}
	}
	return NewPlanner(cfg, deps)
}

func TestDailyStrategyReusesPreparedContent(t *testing.T) {
	t.Parallel()

	staged := &domain.PreparedContent{
		ID: 7,
		Strategy: domain.Strategy{
			Date:  "2026-03-11",
			Niche: "food",
			Theme: "easy dinners",
			Title: "Easy Dinners You Will Love",
		},
		ImagePath: "/content/ai_image_staged.png",
		Status:    domain.StatusReady,
	}
	repo := &stubRepository{prepared: staged}
	p := testPlanner(testConfig(), PlannerDeps{Repository: repo})

	strat, prepared := p.DailyStrategy(context.Background())

	if prepared == nil || prepared.ID != 7 {
		t.Fatal("staged content should be returned alongside the strategy")
	}
	if strat.Niche != "food" || strat.Title != "Easy Dinners You Will Love" {
		t.Errorf("staged strategy should be returned verbatim, got %+v", strat)
	}
	if len(repo.saved) != 0 {
		t.Error("reusing staged content must not persist a new strategy")
	}
}

func TestDailyStrategySynthesizesAndPersists(t *testing.T) {
	t.Parallel()

	repo := &stubRepository{}
	p := testPlanner(testConfig(), PlannerDeps{
		Repository: repo,
		Analytics:  &stubAnalytics{ranked: []string{"wellness"}},
		Trends:     &stubTrends{terms: []string{"minimalism", "slow living"}},
	})

	strat, prepared := p.DailyStrategy(context.Background())

	if prepared != nil {
		t.Error("no staged content exists, prepared must be nil")
	}
	if strat.Date != "2026-03-11" {
		t.Errorf("strategy date = %q", strat.Date)
	}
	if strat.Niche != "wellness" && strat.Niche != "food" {
		t.Errorf("niche %q not in the configured set", strat.Niche)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one persisted strategy, got %d", len(repo.saved))
	}

	assertStrategyShape(t, strat)
}

func TestDailyStrategyToleratesPersistenceFailure(t *testing.T) {
	t.Parallel()

	repo := &stubRepository{
		preparedErr: fmt.Errorf("connection refused"),
		saveErr:     fmt.Errorf("connection refused"),
	}
	p := testPlanner(testConfig(), PlannerDeps{Repository: repo})

	strat, _ := p.DailyStrategy(context.Background())
	if strat.Niche == "" {
		t.Error("strategy must be usable even when persistence fails")
	}
}

func TestDailyStrategyFallsBackWithoutNiches(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Niches = nil
	p := testPlanner(cfg, PlannerDeps{Repository: &stubRepository{}})

	strat, prepared := p.DailyStrategy(context.Background())
	if prepared != nil {
		t.Error("fallback never carries staged content")
	}
	if strat.Niche != "lifestyle" {
		t.Errorf("fallback niche = %q, want lifestyle", strat.Niche)
	}
	assertStrategyShape(t, strat)
}

func TestShouldPostToday(t *testing.T) {
	t.Parallel()

	wednesday := func() time.Time {
		return time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)
	}
	saturday := func() time.Time {
		return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name         string
		now          func() time.Time
		skipWeekends bool
		count        int
		countErr     error
		want         bool
	}{
		{name: "weekday under the cap", now: wednesday, count: 0, want: true},
		{name: "weekday one below the cap", now: wednesday, count: 2, want: true},
		{name: "weekday at the cap", now: wednesday, count: 3, want: false},
		{name: "weekday over the cap", now: wednesday, count: 5, want: false},
		{name: "weekend with skip enabled", now: saturday, skipWeekends: true, count: 0, want: false},
		{name: "weekend without skip", now: saturday, count: 0, want: true},
		{name: "count failure posts anyway", now: wednesday, countErr: fmt.Errorf("timeout"), want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			cfg.Posting.SkipWeekends = tt.skipWeekends
			repo := &stubRepository{count: tt.count, countErr: tt.countErr}
			p := testPlanner(cfg, PlannerDeps{Repository: repo, Now: tt.now})

			if got := p.ShouldPostToday(context.Background()); got != tt.want {
				t.Errorf("ShouldPostToday() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBatchStrategiesCoverFutureDates(t *testing.T) {
	t.Parallel()

	p := testPlanner(testConfig(), PlannerDeps{Repository: &stubRepository{}})

	strategies := p.BatchStrategies(context.Background(), 3)
	if len(strategies) != 3 {
		t.Fatalf("expected 3 strategies, got %d", len(strategies))
	}

	wantDates := []string{"2026-03-12", "2026-03-13", "2026-03-14"}
	for i, strat := range strategies {
		if strat.Date != wantDates[i] {
			t.Errorf("strategy %d date = %q, want %q", i, strat.Date, wantDates[i])
		}
		assertStrategyShape(t, strat)
	}
}

func assertStrategyShape(t *testing.T, strat domain.Strategy) {
	t.Helper()

	if utf8.RuneCountInString(strat.Title) == 0 || utf8.RuneCountInString(strat.Title) > 100 {
		t.Errorf("title length out of range: %q", strat.Title)
	}
	if utf8.RuneCountInString(strat.Description) == 0 || utf8.RuneCountInString(strat.Description) > 500 {
		t.Errorf("description length out of range: %q", strat.Description)
	}
	if utf8.RuneCountInString(strat.AltText) > 500 {
		t.Errorf("alt text too long: %q", strat.AltText)
	}
	if len(strat.Keywords) == 0 || len(strat.Keywords) > 8 {
		t.Errorf("keyword count out of range: %v", strat.Keywords)
	}
	if len(strat.Hashtags) == 0 || len(strat.Hashtags) > 10 {
		t.Errorf("hashtag count out of range: %v", strat.Hashtags)
	}
	if strat.Prompt == "" {
		t.Error("prompt must not be empty")
	}
	if strat.BoardName == "" {
		t.Error("board name must not be empty")
	}
	if strat.Dimensions == "" {
		t.Error("dimension class must not be empty")
	}
	if strat.PostingTime == "" {
		t.Error("posting time must not be empty")
	}
}
