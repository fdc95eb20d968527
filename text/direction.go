package text

import (
	"golang.org/x/text/unicode/bidi"
)

// Direction represents the reading direction of text.
// It is used to tag lines for bidirectional text (bidi) handling.
type Direction int

const (
	// LTR (left-to-right) for Latin, Cyrillic, CJK in modern usage, etc.
	LTR Direction = iota
	// RTL (right-to-left) for Arabic, Hebrew, etc.
	RTL
	// TTB (top-to-bottom) for vertical writing modes.
	TTB
	// Mixed for text carrying strong characters of both directions.
	Mixed
	// Neutral for text with no strong directional characters.
	Neutral
)

// String returns the direction's serialized name ("ltr", "rtl", "ttb",
// "mixed", or "neutral").
func (d Direction) String() string {
	switch d {
	case LTR:
		return "ltr"
	case RTL:
		return "rtl"
	case TTB:
		return "ttb"
	case Mixed:
		return "mixed"
	case Neutral:
		return "neutral"
	default:
		return "ltr"
	}
}

// DirectionFromString parses a serialized direction name. Unknown names map
// to LTR, the default reading direction.
func DirectionFromString(s string) Direction {
	switch s {
	case "rtl":
		return RTL
	case "ttb":
		return TTB
	case "mixed":
		return Mixed
	case "neutral":
		return Neutral
	default:
		return LTR
	}
}

// DetectDirection analyzes a string and returns its dominant reading
// direction based on Unicode bidi character classes. Strong LTR and RTL
// characters are counted; text with both kinds is Mixed, text with neither
// is Neutral. Vertical layout cannot be inferred from characters alone, so
// TTB is never returned here.
func DetectDirection(text string) Direction {
	if text == "" {
		return Neutral
	}

	ltrCount := 0
	rtlCount := 0

	for _, r := range text {
		switch GetCharDirection(r) {
		case LTR:
			ltrCount++
		case RTL:
			rtlCount++
		}
	}

	switch {
	case ltrCount == 0 && rtlCount == 0:
		return Neutral
	case ltrCount > 0 && rtlCount > 0:
		return Mixed
	case rtlCount > ltrCount:
		return RTL
	default:
		return LTR
	}
}

// GetCharDirection returns the inherent direction of a single character.
// Strong left-to-right classes return LTR, the right-to-left classes
// (including Arabic letters) return RTL, and everything else (digits,
// punctuation, whitespace, symbols) is Neutral.
func GetCharDirection(r rune) Direction {
	props, _ := bidi.LookupRune(r)

	switch props.Class() {
	case bidi.L:
		return LTR
	case bidi.R, bidi.AL:
		return RTL
	default:
		return Neutral
	}
}
