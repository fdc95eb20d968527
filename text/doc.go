// Package text provides character-level text analysis helpers.
//
// # Reading Direction
//
// The package supports bidirectional text with the [Direction] type:
//
//   - LTR - left-to-right (Latin, CJK, etc.)
//   - RTL - right-to-left (Arabic, Hebrew, etc.)
//   - TTB - top-to-bottom vertical layout
//   - Mixed - both strong directions present
//   - Neutral - no strong directional characters (numbers, punctuation)
//
// The [DetectDirection] function analyzes a string and returns its dominant
// direction based on Unicode bidi character classes; [GetCharDirection] does
// the same for a single character. Directions serialize to lowercase names
// ("ltr", "rtl", ...) via [Direction.String] and [DirectionFromString].
package text
