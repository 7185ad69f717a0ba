package imagegen

var styleEnhancements = map[string]string{
	"standard":  "high quality, professional photography, pinterest style, clean composition",
	"lifestyle": "lifestyle photography, bright and airy, instagram worthy, pinterest aesthetic",
	"artistic":  "artistic composition, creative design, visually striking, pinterest trending",
	"minimal":   "minimalist design, clean aesthetic, simple composition, modern style",
}

// enhancePrompt decorates the raw prompt with style-specific phrasing and
// the platform-wide composition hints.
func enhancePrompt(prompt, style string) string {
	enhancement, ok := styleEnhancements[style]
	if !ok {
		enhancement = styleEnhancements["standard"]
	}
	return prompt + ", " + enhancement + ", vertical composition, eye-catching, shareable content"
}
