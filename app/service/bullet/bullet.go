// Package bullet turns raw model output into clean list items.
package bullet

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/elliotchance/pie/v2"
)

const (
	glyphs         = "-•*‧"
	emphasisMarker = "*"
)

// Dash glyphs, "1." style numbering or CJK numerals followed by "、".
var markerRe = regexp.MustCompile(`^([-•*‧]|\d+\.|[一二三四五六七八九十]+、)`)

func IsBulletLine(line string) bool {
	return markerRe.MatchString(strings.TrimLeftFunc(line, unicode.IsSpace))
}

// CleanPoint strips leading glyph markers, removes every "*" and trims.
// Numbering such as "1." or "一、" is kept as part of the point.
func CleanPoint(line string) string {
	text := strings.TrimLeftFunc(line, unicode.IsSpace)
	for text != "" {
		r, size := utf8.DecodeRuneInString(text)
		if !strings.ContainsRune(glyphs, r) {
			break
		}
		text = strings.TrimLeftFunc(text[size:], unicode.IsSpace)
	}

	return StripEmphasis(text)
}

// StripEmphasis removes every "*" from text and trims it.
func StripEmphasis(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, emphasisMarker, ""))
}

// ExtractPoints keeps the bullet lines of text in their original order and
// cleans each of them.
func ExtractPoints(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	points := pie.Map(pie.Filter(lines, IsBulletLine), CleanPoint)
	if points == nil {
		return []string{}
	}

	return points
}
