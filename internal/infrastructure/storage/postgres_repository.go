package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"PinFlow/internal/domain"
	"PinFlow/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists strategies and prepared content into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.StrategyRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the strategy tables when they do not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS content_strategies (
			id BIGSERIAL PRIMARY KEY,
			date TEXT NOT NULL,
			niche TEXT NOT NULL,
			theme TEXT NOT NULL,
			keywords TEXT[],
			prompt TEXT,
			title TEXT,
			description TEXT,
			board_name TEXT,
			style TEXT,
			dimensions TEXT,
			website_link TEXT,
			alt_text TEXT,
			hashtags TEXT[],
			posting_time TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS prepared_content (
			id BIGSERIAL PRIMARY KEY,
			strategy_data JSONB NOT NULL,
			image_path TEXT NOT NULL,
			scheduled_date TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'ready',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prepared_content_date
			ON prepared_content (scheduled_date, status)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// SaveStrategy inserts the daily strategy row.
func (r *PostgresRepository) SaveStrategy(ctx context.Context, s domain.Strategy) error {
	if r.db == nil {
		return nil
	}

	query, args, err := psql.Insert("content_strategies").
		Columns("date", "niche", "theme", "keywords", "prompt", "title",
			"description", "board_name", "style", "dimensions",
			"website_link", "alt_text", "hashtags", "posting_time").
		Values(s.Date, s.Niche, s.Theme, pq.StringArray(s.Keywords), s.Prompt, s.Title,
			s.Description, s.BoardName, s.Style, string(s.Dimensions),
			s.WebsiteLink, s.AltText, pq.StringArray(s.Hashtags), s.PostingTime).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert strategy: %w", err)
	}

	return nil
}

// LoadPrepared returns the oldest ready prepared-content row for the date,
// or nil when none is staged.
func (r *PostgresRepository) LoadPrepared(ctx context.Context, date string) (*domain.PreparedContent, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := psql.Select("id", "strategy_data", "image_path", "scheduled_date", "status", "created_at").
		From("prepared_content").
		Where(sq.Eq{"scheduled_date": date, "status": string(domain.StatusReady)}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var (
		prepared domain.PreparedContent
		raw      []byte
		status   string
	)
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&prepared.ID, &raw, &prepared.ImagePath,
		&prepared.ScheduledDate, &status, &prepared.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan prepared: %w", err)
	}

	if err := json.Unmarshal(raw, &prepared.Strategy); err != nil {
		return nil, fmt.Errorf("decode strategy: %w", err)
	}
	prepared.Status = domain.PreparedStatus(status)

	return &prepared, nil
}

// SavePrepared stages a strategy with its generated image for a future date.
func (r *PostgresRepository) SavePrepared(ctx context.Context, s domain.Strategy, imagePath string) error {
	if r.db == nil {
		return nil
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode strategy: %w", err)
	}

	query, args, err := psql.Insert("prepared_content").
		Columns("strategy_data", "image_path", "scheduled_date", "status").
		Values(raw, imagePath, s.Date, string(domain.StatusReady)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert prepared: %w", err)
	}

	return nil
}

// MarkConsumed transitions a prepared-content row to consumed.
func (r *PostgresRepository) MarkConsumed(ctx context.Context, id int64) error {
	if r.db == nil {
		return nil
	}

	query, args, err := psql.Update("prepared_content").
		Set("status", string(domain.StatusConsumed)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark consumed: %w", err)
	}

	return nil
}

// CountForDate counts strategies already created for a calendar date.
func (r *PostgresRepository) CountForDate(ctx context.Context, date string) (int, error) {
	if r.db == nil {
		return 0, nil
	}

	query, args, err := psql.Select("COUNT(*)").
		From("content_strategies").
		Where(sq.Eq{"date": date}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count strategies: %w", err)
	}

	return count, nil
}

// RecentNicheCounts returns per-niche usage counts for strategies created
// since the given moment.
func (r *PostgresRepository) RecentNicheCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	if r.db == nil {
		return map[string]int{}, nil
	}

	query, args, err := psql.Select("niche", "COUNT(*)").
		From("content_strategies").
		Where(sq.Gt{"created_at": since}).
		GroupBy("niche").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build group count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent niches: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			niche string
			n     int
		)
		if err := rows.Scan(&niche, &n); err != nil {
			return nil, fmt.Errorf("scan niche count: %w", err)
		}
		counts[niche] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return counts, nil
}
