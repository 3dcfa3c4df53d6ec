package domain

import (
	"strings"
)

// NormalizeWord prepares a headword for grouping and lookup: surrounding
// whitespace trimmed, lowercased, and runs of spaces or underscores
// collapsed into one space (WordNet writes multiword lemmas with '_').
func NormalizeWord(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' || r == '_' {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
