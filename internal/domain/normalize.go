package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// NormalizeText prepares text for keyword comparison:
//   - trims leading/trailing whitespace
//   - applies Unicode case folding
//   - compresses any run of whitespace into a single space
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = cases.Fold().String(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteByte(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
