package strategy

import (
	"math/rand"
	"time"
)

// Season is one of the four calendar seasons.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
)

var seasonalWords = map[Season][]string{
	SeasonWinter: {"cozy", "hygge", "winter wellness", "holiday"},
	SeasonSpring: {"fresh start", "spring cleaning", "renewal", "blooming"},
	SeasonSummer: {"summer vibes", "vacation", "outdoor living", "bright"},
	SeasonFall:   {"autumn", "cozy home", "harvest", "warm colors"},
}

// SeasonFor maps a calendar month to its season.
func SeasonFor(month time.Month) Season {
	switch month {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonFall
	}
}

// SeasonalTheme draws one seasonal word for the given moment.
func SeasonalTheme(now time.Time, rng *rand.Rand) string {
	words := seasonalWords[SeasonFor(now.Month())]
	if len(words) == 0 {
		return ""
	}
	return words[rng.Intn(len(words))]
}
