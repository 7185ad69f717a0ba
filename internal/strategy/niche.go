package strategy

import "math/rand"

// SelectNiche performs a weighted random draw over the configured niches.
//
// Every niche starts at weight 1. Ranking boosts the top performers (x3 for
// the top 3, x2 for the top 5) while the recency penalty divides by
// (recent uses + 1), so a hot niche used three times this week still yields
// to a quiet one. With no ranking signal the draw is uniform.
func SelectNiche(all, ranked []string, recent map[string]int, rng *rand.Rand) string {
	if len(all) == 0 {
		return ""
	}

	if len(ranked) == 0 {
		return all[rng.Intn(len(all))]
	}

	top3 := make(map[string]bool, 3)
	top5 := make(map[string]bool, 5)
	for i, niche := range ranked {
		if i < 3 {
			top3[niche] = true
		}
		if i < 5 {
			top5[niche] = true
		}
	}

	weights := make([]float64, len(all))
	var total float64
	for i, niche := range all {
		w := 1.0
		switch {
		case top3[niche]:
			w *= 3
		case top5[niche]:
			w *= 2
		}
		if used := recent[niche]; used > 0 {
			w /= float64(used + 1)
		}
		weights[i] = w
		total += w
	}

	draw := rng.Float64() * total
	for i, w := range weights {
		draw -= w
		if draw < 0 {
			return all[i]
		}
	}
	return all[len(all)-1]
}
