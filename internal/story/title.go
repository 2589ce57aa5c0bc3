package story

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultTitle replaces titles that sanitise to nothing useful.
const DefaultTitle = "The Adventure Begins"

var (
	numberedPrefix = regexp.MustCompile(`^\d+\.\s?`)
	bulletPrefix   = regexp.MustCompile(`^[-*]\s`)
	letteredPrefix = regexp.MustCompile(`^[A-Z]\.\s`)
)

// SanitizeTitle cleans a model-produced title: list markers are removed,
// only the first line and the first alternative are kept, and a fallback is
// used when fewer than two characters remain.
func SanitizeTitle(raw string) string {
	title := numberedPrefix.ReplaceAllString(raw, "")
	title = bulletPrefix.ReplaceAllString(title, "")
	title = letteredPrefix.ReplaceAllString(title, "")
	title = cutAt(title, "\n")
	title = cutAt(title, " - ")
	title = cutAt(title, " or ")
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < 2 {
		return DefaultTitle
	}
	return title
}

func cutAt(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before
}

// Recap shortens previous story content for continuation prompts.
func Recap(content string) string {
	const limit = 200
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
