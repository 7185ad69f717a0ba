package strategy

import (
	"math/rand"
	"net/url"
	"strings"
	"time"

	"PinFlow/internal/domain"
)

var nicheStyles = map[string][]string{
	"lifestyle":    {"bright", "minimal", "cozy"},
	"home_decor":   {"elegant", "modern", "cozy"},
	"wellness":     {"peaceful", "natural", "soft"},
	"fashion":      {"stylish", "trendy", "elegant"},
	"food":         {"appetizing", "rustic", "bright"},
	"travel":       {"adventurous", "scenic", "vibrant"},
	"productivity": {"clean", "organized", "modern"},
	"diy":          {"creative", "rustic", "colorful"},
	"inspiration":  {"uplifting", "bright", "motivational"},
	"quotes":       {"elegant", "minimal", "inspiring"},
}

var seasonalStyles = map[string][]string{
	"winter": {"cozy", "warm", "festive"},
	"summer": {"bright", "vibrant", "fresh"},
	"spring": {"fresh", "pastel", "blooming"},
	"fall":   {"warm", "rustic", "cozy"},
}

var nicheDimensions = map[string]domain.DimensionClass{
	"lifestyle":    domain.DimensionStandard,
	"home_decor":   domain.DimensionStandard,
	"wellness":     domain.DimensionStandard,
	"fashion":      domain.DimensionStandard,
	"food":         domain.DimensionSquare,
	"travel":       domain.DimensionStandard,
	"productivity": domain.DimensionStandard,
	"diy":          domain.DimensionStandard,
	"inspiration":  domain.DimensionStory,
	"quotes":       domain.DimensionStory,
}

var nichePostingTimes = map[string]string{
	"lifestyle":    "15:00",
	"home_decor":   "20:00",
	"wellness":     "09:00",
	"fashion":      "15:00",
	"food":         "12:00",
	"travel":       "20:00",
	"productivity": "09:00",
	"diy":          "15:00",
	"inspiration":  "09:00",
	"quotes":       "09:00",
}

// SelectBoard picks a board from the niche's preferred boards plus the
// global defaults.
func SelectBoard(nicheBoards, defaultBoards []string, rng *rand.Rand) string {
	candidates := make([]string, 0, len(nicheBoards)+len(defaultBoards))
	candidates = append(candidates, nicheBoards...)
	candidates = append(candidates, defaultBoards...)
	if len(candidates) == 0 {
		return "Daily Inspiration"
	}
	return candidates[rng.Intn(len(candidates))]
}

// SelectStyle picks a visual style for the niche, extended with seasonal
// style words when the seasonal theme names a season.
func SelectStyle(niche, seasonal string, rng *rand.Rand) string {
	styles, ok := nicheStyles[niche]
	if !ok {
		styles = []string{"standard", "bright", "elegant"}
	}

	candidates := append([]string(nil), styles...)
	if seasonal != "" {
		lower := strings.ToLower(seasonal)
		for season, extra := range seasonalStyles {
			if strings.Contains(lower, season) {
				candidates = append(candidates, extra...)
			}
		}
	}

	return candidates[rng.Intn(len(candidates))]
}

// SelectDimensions is a static lookup from niche to dimension class.
func SelectDimensions(niche string) domain.DimensionClass {
	if class, ok := nicheDimensions[niche]; ok {
		return class
	}
	return domain.DimensionStandard
}

// TrackingLink appends UTM parameters encoding niche, theme, and date to
// the website URL.
func TrackingLink(baseURL, niche, theme string, now time.Time) string {
	params := url.Values{}
	params.Set("utm_source", "pinterest")
	params.Set("utm_medium", "social")
	params.Set("utm_campaign", "pinterest_automation")
	params.Set("utm_content", niche+"_"+strings.ReplaceAll(theme, " ", "_"))
	params.Set("utm_term", now.Format("20060102"))

	return baseURL + "?" + params.Encode()
}

// PostingTime returns the preferred time-of-day for the niche, drawing one
// of the configured times when the niche has no entry.
func PostingTime(niche string, configured []string, rng *rand.Rand) string {
	if t, ok := nichePostingTimes[niche]; ok {
		return t
	}
	if len(configured) == 0 {
		return "15:00"
	}
	return configured[rng.Intn(len(configured))]
}
