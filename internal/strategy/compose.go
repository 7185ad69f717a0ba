package strategy

import (
	"fmt"
	"math/rand"
	"strings"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
	maxAltTextLen     = 500
	maxHashtags       = 10
)

var promptEnhancements = []string{
	"pinterest aesthetic",
	"vertical composition",
	"bright and airy",
	"clean composition",
	"eye-catching",
	"shareable content",
}

var titleTemplates = []string{
	"%s Ideas That Will Transform Your Life",
	"Stunning %s Inspiration You Need to See",
	"%s Secrets for a Better Lifestyle",
	"The Ultimate %s Guide",
	"%s Tips That Actually Work",
	"Beautiful %s Ideas to Try Today",
	"%s Inspiration for Your Pinterest Board",
}

var ctaPhrases = []string{
	"Visit our website for more inspiration!",
	"Click the link for the full guide!",
	"Save this pin and follow for more ideas!",
	"Get more tips on our website!",
}

var genericHashtags = []string{"#pinterest", "#inspiration", "#ideas", "#lifestyle"}

// BuildPrompt expands a niche prompt template with the theme and appends two
// randomly sampled enhancement phrases. With no templates configured it
// degrades to a fixed template rather than failing the strategy.
func BuildPrompt(templates []string, theme string, rng *rand.Rand) string {
	if len(templates) == 0 {
		return fmt.Sprintf("Beautiful %s inspiration, pinterest style, high quality", theme)
	}

	template := templates[rng.Intn(len(templates))]
	prompt := strings.ReplaceAll(template, "{theme}", theme)

	picks := rng.Perm(len(promptEnhancements))[:2]
	return fmt.Sprintf("%s, %s, %s", prompt, promptEnhancements[picks[0]], promptEnhancements[picks[1]])
}

// BuildTitle renders one of the fixed title templates with the title-cased
// theme, hard-truncated to the platform limit.
func BuildTitle(theme string, rng *rand.Rand) string {
	if theme == "" {
		return "Daily Inspiration Ideas"
	}
	template := titleTemplates[rng.Intn(len(titleTemplates))]
	return truncate(fmt.Sprintf(template, titleCase(theme)), maxTitleLen)
}

// BuildDescription renders a description template, appends the first five
// keywords as hashtags and one call-to-action, truncated to the limit.
func BuildDescription(theme, niche string, keywords []string, rng *rand.Rand) string {
	if theme == "" || niche == "" {
		return truncate(fmt.Sprintf("Beautiful %s inspiration. Visit our website for more ideas! %s",
			theme, strings.Join(firstN(keywords, 3), " ")), maxDescriptionLen)
	}

	templates := []string{
		fmt.Sprintf("Discover amazing %s ideas that will inspire your %s journey. Save this pin for daily motivation and share with friends who love %s!", theme, niche, theme),
		fmt.Sprintf("Looking for %s inspiration? This beautiful collection of %s ideas is perfect for your Pinterest boards. Click to see more!", theme, niche),
		fmt.Sprintf("Transform your life with these %s ideas. Perfect %s inspiration for anyone looking to create something beautiful.", theme, niche),
		fmt.Sprintf("Get inspired with these stunning %s ideas. Save this pin to your %s board and visit our website for more inspiration!", theme, niche),
	}

	description := templates[rng.Intn(len(templates))]
	description += "\n\n" + strings.Join(firstN(keywords, 5), " ")
	description += " " + ctaPhrases[rng.Intn(len(ctaPhrases))]

	return truncate(description, maxDescriptionLen)
}

// BuildAltText renders accessibility text describing the pin.
func BuildAltText(theme string, keywords []string) string {
	if theme == "" {
		return "Daily inspiration pinterest pin"
	}
	alt := fmt.Sprintf("Pinterest pin showing %s inspiration with %s",
		theme, strings.Join(firstN(keywords, 3), ", "))
	return truncate(alt, maxAltTextLen)
}

// BuildHashtags merges niche hashtags, keywords re-prefixed with '#', and
// the generic platform hashtags, deduplicated and capped at ten.
func BuildHashtags(nicheTags, keywords []string) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0, maxHashtags)
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "#" || seen[tag] || len(tags) >= maxHashtags {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	for _, tag := range nicheTags {
		add(tag)
	}
	for _, kw := range keywords {
		add("#" + strings.ReplaceAll(kw, "#", ""))
	}
	for _, tag := range genericHashtags {
		add(tag)
	}

	if len(tags) == 0 {
		return []string{"#pinterest", "#inspiration", "#ideas"}
	}
	return tags
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}
