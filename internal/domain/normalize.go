package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText prepares a vocabulary field for alignment and storage:
//   - trims leading/trailing whitespace, ideographic space included
//   - composes to Unicode NFC, so a kana followed by a combining
//     (han)dakuten becomes the single voiced kana
//   - compresses runs of whitespace into one ASCII space
//
// Case is preserved: romaji and glosses are written back as given.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)

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
