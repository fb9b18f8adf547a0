package svg

import (
	"bytes"
	"encoding/xml"
	"unicode/utf8"
)

// charWidthRatio approximates the advance width of a sans-serif glyph as a
// fraction of the font size.
const charWidthRatio = 0.55

// truncate shortens s with a trailing ".." so it fits width at fontSize.
func truncate(s string, width, fontSize float64) string {
	maxChars := max(3, int(width/(fontSize*charWidthRatio)))
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	r := []rune(s)
	return string(r[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
