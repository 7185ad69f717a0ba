package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"PinFlow/internal/domain"
	"PinFlow/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const rankingLimit = 5

// PostgresTracker records publish outcomes and aggregates engagement.
type PostgresTracker struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

var _ ports.AnalyticsStore = (*PostgresTracker)(nil)

// NewPostgresTracker wires a sql.DB implementation.
func NewPostgresTracker(db *sql.DB, logger *slog.Logger) *PostgresTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTracker{db: db, log: logger, now: time.Now}
}

// EnsureSchema creates the performance table when it does not exist yet.
func (t *PostgresTracker) EnsureSchema(ctx context.Context) error {
	if t.db == nil {
		return nil
	}

	const stmt = `CREATE TABLE IF NOT EXISTS content_performance (
		id BIGSERIAL PRIMARY KEY,
		pin_id TEXT NOT NULL,
		niche TEXT NOT NULL,
		theme TEXT,
		keywords TEXT[],
		board_name TEXT,
		style TEXT,
		engagement_rate DOUBLE PRECISION,
		total_impressions BIGINT,
		total_saves BIGINT,
		total_outbound_clicks BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

	if _, err := t.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	return nil
}

// RecordPublished starts tracking a freshly published pin.
func (t *PostgresTracker) RecordPublished(ctx context.Context, pinID string, s domain.Strategy) error {
	if t.db == nil {
		return nil
	}

	query, args, err := psql.Insert("content_performance").
		Columns("pin_id", "niche", "theme", "keywords", "board_name", "style").
		Values(pinID, s.Niche, s.Theme, pq.StringArray(s.Keywords), s.BoardName, s.Style).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert performance row: %w", err)
	}

	t.log.Info("tracking pin", "pin_id", pinID, "niche", s.Niche)
	return nil
}

// RankNiches returns niches ordered by average engagement rate over the
// window, best first. Niches with no recorded engagement are excluded
// entirely; an empty result means "no signal", and any storage error is
// reported as an empty ranking for the same reason.
func (t *PostgresTracker) RankNiches(ctx context.Context, window time.Duration) ([]string, error) {
	if t.db == nil {
		return nil, nil
	}

	since := t.now().Add(-window)
	query, args, err := psql.Select("niche", "AVG(engagement_rate)").
		From("content_performance").
		Where(sq.Gt{"created_at": since}).
		Where("engagement_rate IS NOT NULL").
		GroupBy("niche").
		OrderBy("AVG(engagement_rate) DESC").
		Limit(rankingLimit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ranking: %w", err)
	}

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ranking: %w", err)
	}
	defer rows.Close()

	var ranked []string
	for rows.Next() {
		var (
			niche string
			avg   float64
		)
		if err := rows.Scan(&niche, &avg); err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		ranked = append(ranked, niche)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return ranked, nil
}

// WeeklyReport aggregates the last seven days of published pins.
func (t *PostgresTracker) WeeklyReport(ctx context.Context, now time.Time) (domain.WeeklyReport, error) {
	report := domain.WeeklyReport{From: now.AddDate(0, 0, -7), To: now}
	if t.db == nil {
		return report, nil
	}

	query, args, err := psql.Select(
		"COUNT(*)",
		"COALESCE(SUM(total_impressions), 0)",
		"COALESCE(SUM(total_saves), 0)",
		"COALESCE(SUM(total_outbound_clicks), 0)").
		From("content_performance").
		Where(sq.Gt{"created_at": report.From}).
		ToSql()
	if err != nil {
		return report, fmt.Errorf("build totals: %w", err)
	}

	row := t.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&report.PinsPublished, &report.Impressions,
		&report.Saves, &report.OutboundClicks); err != nil {
		return report, fmt.Errorf("scan totals: %w", err)
	}

	topQuery, topArgs, err := psql.Select("niche").
		From("content_performance").
		Where(sq.Gt{"created_at": report.From}).
		GroupBy("niche").
		OrderBy("COUNT(*) DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return report, fmt.Errorf("build top niche: %w", err)
	}

	if err := t.db.QueryRowContext(ctx, topQuery, topArgs...).Scan(&report.TopNiche); err != nil && err != sql.ErrNoRows {
		return report, fmt.Errorf("scan top niche: %w", err)
	}

	return report, nil
}
