package story

import "strings"

// ParagraphSeparator splits story content into paragraphs.
const ParagraphSeparator = "\n\n"

// SplitParagraphs splits content on blank-line separators and drops
// segments that are empty or whitespace only. Segments are not trimmed.
func SplitParagraphs(content string) []string {
	paragraphs := []string{}
	for _, segment := range strings.Split(content, ParagraphSeparator) {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		paragraphs = append(paragraphs, segment)
	}
	return paragraphs
}

// JoinParagraphs is the inverse of SplitParagraphs for its own output.
func JoinParagraphs(paragraphs []string) string {
	return strings.Join(paragraphs, ParagraphSeparator)
}
