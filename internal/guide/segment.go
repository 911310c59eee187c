// Package guide turns the recognized text of a strategy-guide PDF into
// export rows.
//
// The text is cut into segments at "Gym Battle <n>" and "Before Gym"
// headings. Each segment body is scanned for wild encounter entries such as
//
//	Zigzagoon (Lv.3-5, Routes around Rustboro City)
//
// and gym team entries such as
//
//	Geodude (Lv.12: HP 30, Atk 35, Def 40, Spd 20)
//
// All patterns are heuristics tuned to guide-book phrasing. OCR noise makes
// them miss, and a miss is never an error: it only yields empty fields.
package guide

import (
	"regexp"
	"strings"
)

// FallbackHeading is the heading of the single segment produced when the
// text contains no recognizable heading.
const FallbackHeading = "Full Text"

// headingPattern matches a section keyword, optionally followed on the same
// line by a capitalized name of at most two words and a colon
// ("Before Gym Roxanne:", "Gym Battle 8 Tate Liza:"). Any other text after
// the keyword stays in the body.
var headingPattern = regexp.MustCompile(
	`(?i)(?:gym\s*battle\s*\d+|before\s*gym)` +
		`(?:[ \t]+((?-i:[A-Z][a-z'’\-]+(?:[ \t][A-Z][a-z'’\-]+)?))[ \t]*:)?`,
)

// Segment is one (heading, body) slice of a document's raw text.
type Segment struct {
	Heading string
	Body    string

	// Start is the offset of the heading match in the source text and
	// BodyStart the offset where Body begins. Start is -1 for the fallback
	// segment, whose heading does not occur in the text.
	Start     int
	BodyStart int
}

// Split cuts text into segments at section headings. Text before the first heading
// belongs to no segment. Without any heading the whole text becomes one
// FallbackHeading segment.
func Split(text string) []Segment {
	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{
			Heading:   FallbackHeading,
			Body:      text,
			Start:     -1,
			BodyStart: 0,
		}}
	}

	segments := make([]Segment, 0, len(matches))
	for i, m := range matches {
		headingEnd := m[1]
		if m[3] >= 0 {
			// drop the colon that closes a titled heading
			headingEnd = m[3]
		}

		bodyEnd := len(text)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}

		segments = append(segments, Segment{
			Heading:   strings.TrimSpace(text[m[0]:headingEnd]),
			Body:      text[m[1]:bodyEnd],
			Start:     m[0],
			BodyStart: m[1],
		})
	}
	return segments
}
