package strategy

import (
	"math/rand"
	"strings"
	"testing"
)

var wellnessThemes = []string{"mindfulness", "yoga practice", "healthy habits", "meditation", "mental health"}

func TestBuildThemeComposition(t *testing.T) {
	t.Parallel()

	trending := []string{"mindful", "cozy", "sustainable"}
	rng := rand.New(rand.NewSource(10))

	const trials = 10000
	seasonalHits, trendingHits := 0, 0
	for i := 0; i < trials; i++ {
		theme := BuildTheme(wellnessThemes, "hygge", trending, rng)

		rest := theme
		for _, kw := range trending {
			if strings.HasPrefix(rest, kw+" ") {
				rest = strings.TrimPrefix(rest, kw+" ")
				trendingHits++
				break
			}
		}
		if strings.HasPrefix(rest, "hygge ") {
			rest = strings.TrimPrefix(rest, "hygge ")
			seasonalHits++
		}

		found := false
		for _, candidate := range wellnessThemes {
			if rest == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("theme %q does not reduce to a wellness candidate", theme)
		}
	}

	seasonalRatio := float64(seasonalHits) / trials
	if seasonalRatio < 0.25 || seasonalRatio > 0.35 {
		t.Errorf("seasonal prefix rate %.3f outside expected 0.30 band", seasonalRatio)
	}
	trendingRatio := float64(trendingHits) / trials
	if trendingRatio < 0.15 || trendingRatio > 0.25 {
		t.Errorf("trending prefix rate %.3f outside expected 0.20 band", trendingRatio)
	}
}

func TestBuildThemeFallsBackToGenericThemes(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	theme := BuildTheme(nil, "", nil, rng)
	if theme == "" {
		t.Fatal("theme must never be empty")
	}
}

func TestBuildKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tags     []string
		theme    string
		trending []string
		wantMax  int
	}{
		{"full inputs", []string{"#wellness", "#selfcare", "#mindfulness", "#health", "#zen"}, "hygge mindfulness", []string{"mindful", "cozy", "sustainable", "extra"}, 8},
		{"dedupes", []string{"#a", "#a", "#a"}, "a a a", []string{"a"}, 8},
		{"empty inputs", nil, "", nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildKeywords(tt.tags, tt.theme, tt.trending)

			if len(got) == 0 {
				t.Fatal("keywords must never be empty")
			}
			if len(got) > tt.wantMax {
				t.Errorf("got %d keywords, cap is %d", len(got), tt.wantMax)
			}

			seen := map[string]bool{}
			for _, kw := range got {
				if seen[kw] {
					t.Errorf("duplicate keyword %q", kw)
				}
				seen[kw] = true
			}
		})
	}
}

func TestBuildKeywordsLimitsTrending(t *testing.T) {
	t.Parallel()

	trending := []string{"one", "two", "three", "four", "five"}
	got := BuildKeywords(nil, "", trending)

	for _, kw := range got {
		if kw == "four" || kw == "five" {
			t.Errorf("keyword %q beyond the first three trending entries", kw)
		}
	}
}
