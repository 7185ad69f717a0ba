package ports

import (
	"context"
	"time"

	"PinFlow/internal/domain"
)

// ImageGenerator produces a pin image from a prompt via an external provider.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, style string, width, height int) (domain.Artifact, error)
}

// PostingClient publishes pins and manages boards on the platform.
type PostingClient interface {
	Publish(ctx context.Context, imagePath, boardID string, strategy domain.Strategy) (domain.PinResult, error)
	// ResolveBoardID returns the platform identifier for a board name,
	// or an empty string when no such board exists.
	ResolveBoardID(ctx context.Context, boardName string) (string, error)
	EnsureBoards(ctx context.Context) (map[string]string, error)
}

// StrategyRepository persists strategies and staged content.
type StrategyRepository interface {
	SaveStrategy(ctx context.Context, strategy domain.Strategy) error
	LoadPrepared(ctx context.Context, date string) (*domain.PreparedContent, error)
	SavePrepared(ctx context.Context, strategy domain.Strategy, imagePath string) error
	MarkConsumed(ctx context.Context, id int64) error
	CountForDate(ctx context.Context, date string) (int, error)
	RecentNicheCounts(ctx context.Context, since time.Time) (map[string]int, error)
}

// AnalyticsStore records publish outcomes and ranks niches by engagement.
type AnalyticsStore interface {
	RecordPublished(ctx context.Context, pinID string, strategy domain.Strategy) error
	RankNiches(ctx context.Context, window time.Duration) ([]string, error)
	WeeklyReport(ctx context.Context, now time.Time) (domain.WeeklyReport, error)
}

// TrendSource supplies trending keywords for theme generation.
type TrendSource interface {
	Sample(ctx context.Context, n int) []string
}

// Scheduler controls when the posting workflow executes.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
