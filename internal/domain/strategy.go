package domain

import "time"

// DimensionClass is an aspect-ratio category for generated images.
type DimensionClass string

const (
	DimensionStandard DimensionClass = "standard" // 2:3 pin ratio
	DimensionSquare   DimensionClass = "square"
	DimensionStory    DimensionClass = "story"
)

// Strategy is one day's fully-composed, publishable content plan.
type Strategy struct {
	Date        string         `json:"date"` // YYYY-MM-DD
	Niche       string         `json:"niche"`
	Theme       string         `json:"theme"`
	Keywords    []string       `json:"keywords"`
	Prompt      string         `json:"prompt"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	BoardName   string         `json:"board_name"`
	BoardID     string         `json:"board_id,omitempty"`
	Style       string         `json:"style"`
	Dimensions  DimensionClass `json:"dimensions"`
	WebsiteLink string         `json:"website_link"`
	AltText     string         `json:"alt_text"`
	Hashtags    []string       `json:"hashtags"`
	PostingTime string         `json:"optimal_posting_time"`
}

// PreparedStatus enumerates staged-content lifecycle milestones.
type PreparedStatus string

const (
	StatusReady    PreparedStatus = "ready"
	StatusConsumed PreparedStatus = "consumed"
)

// PreparedContent is a strategy staged ahead of its target date together
// with an already-generated image artifact.
type PreparedContent struct {
	ID            int64
	Strategy      Strategy
	ImagePath     string
	ScheduledDate string
	Status        PreparedStatus
	CreatedAt     time.Time
}

// Artifact references a generated image on disk.
type Artifact struct {
	Path     string
	Provider string
	Prompt   string
	Width    int
	Height   int
}

// PinResult identifies a pin created on the platform.
type PinResult struct {
	ID      string
	URL     string
	BoardID string
}

// PerformanceRecord is a historical engagement outcome for a niche,
// written by the analytics side and read-only for selection.
type PerformanceRecord struct {
	Niche          string
	EngagementRate float64
}

// WeeklyReport aggregates the last seven days of published pins.
type WeeklyReport struct {
	From           time.Time
	To             time.Time
	PinsPublished  int
	Impressions    int64
	Saves          int64
	OutboundClicks int64
	TopNiche       string
}
