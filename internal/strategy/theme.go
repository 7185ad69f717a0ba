package strategy

import (
	"math/rand"
	"strings"
)

const maxKeywords = 8

var genericThemes = []string{"inspiration", "lifestyle", "creativity"}

// BuildTheme composes the creative angle for a strategy: one of the niche's
// candidate themes, optionally (30%) prefixed with the seasonal word and
// independently (20%) prefixed with a trending keyword.
func BuildTheme(themes []string, seasonal string, trending []string, rng *rand.Rand) string {
	if len(themes) == 0 {
		themes = genericThemes
	}

	theme := themes[rng.Intn(len(themes))]
	if seasonal != "" && rng.Float64() < 0.3 {
		theme = seasonal + " " + theme
	}
	if len(trending) > 0 && rng.Float64() < 0.2 {
		theme = trending[rng.Intn(len(trending))] + " " + theme
	}

	return strings.TrimSpace(theme)
}

// BuildKeywords merges the niche's hashtags, the theme's words, and up to
// three trending keywords into a deduplicated set capped at eight entries.
func BuildKeywords(nicheTags []string, theme string, trending []string) []string {
	if len(trending) > 3 {
		trending = trending[:3]
	}

	seen := make(map[string]bool)
	keywords := make([]string, 0, maxKeywords)
	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[kw] || len(keywords) >= maxKeywords {
			return
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}

	for _, tag := range nicheTags {
		add(tag)
	}
	for _, word := range strings.Fields(strings.ToLower(theme)) {
		add(word)
	}
	for _, kw := range trending {
		add(kw)
	}

	if len(keywords) == 0 {
		return []string{"#inspiration", "#lifestyle", "#pinterest"}
	}
	return keywords
}
