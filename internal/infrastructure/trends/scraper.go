package trends

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"PinFlow/internal/ports"
)

// Terms with these selectors cover the trend listings this bot targets.
const termSelector = ".trend-term, .trend-item a, li.trend"

const maxTermLen = 40

var staticKeywords = []string{
	"minimalist", "cozy", "aesthetic", "mindful", "sustainable", "wellness", "productivity",
}

// Scraper pulls trending keywords from a trends page, falling back to a
// static list when the page is unavailable or unconfigured.
type Scraper struct {
	url        string
	httpClient *http.Client
	rng        *rand.Rand
	log        *slog.Logger
}

var _ ports.TrendSource = (*Scraper)(nil)

// NewScraper builds a trend source for the given page URL. An empty URL
// means the static keyword list is used directly.
func NewScraper(url string, rng *rand.Rand, logger *slog.Logger) *Scraper {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		rng:        rng,
		log:        logger,
	}
}

// Sample returns up to n random trending keywords.
func (s *Scraper) Sample(ctx context.Context, n int) []string {
	keywords := s.keywords(ctx)
	if n > len(keywords) {
		n = len(keywords)
	}

	picks := s.rng.Perm(len(keywords))[:n]
	sample := make([]string, 0, n)
	for _, i := range picks {
		sample = append(sample, keywords[i])
	}
	return sample
}

func (s *Scraper) keywords(ctx context.Context) []string {
	if s.url == "" {
		return staticKeywords
	}

	scraped, err := s.scrape(ctx)
	if err != nil {
		s.log.Warn("scrape trends", "url", s.url, "error", err)
		return staticKeywords
	}
	if len(scraped) == 0 {
		return staticKeywords
	}
	return scraped
}

func (s *Scraper) scrape(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	seen := make(map[string]bool)
	var terms []string
	doc.Find(termSelector).Each(func(_ int, sel *goquery.Selection) {
		term := normalizeTerm(sel.Text())
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	})

	return terms, nil
}

func normalizeTerm(raw string) string {
	term := strings.ToLower(strings.TrimSpace(raw))
	term = strings.Trim(term, "#")
	if term == "" || len(term) > maxTermLen {
		return ""
	}
	return term
}
