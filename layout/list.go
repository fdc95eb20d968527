package layout

import (
	"regexp"
	"strconv"
	"strings"
)

// ListType represents the kind of list marker detected
type ListType int

const (
	ListNone     ListType = iota
	ListBullet            // Bullet points (•, -, *, etc.)
	ListNumbered          // Numbered (1., 2., 3.)
	ListLettered          // Lettered (a., b., c. or A., B., C.)
	ListRoman             // Roman numerals (i., ii., iii. or I., II., III.)
	ListCheckbox          // Checkbox lists (☐, ☑, ✓)
)

// String returns a string representation of the list type
func (t ListType) String() string {
	switch t {
	case ListBullet:
		return "bullet"
	case ListNumbered:
		return "numbered"
	case ListLettered:
		return "lettered"
	case ListRoman:
		return "roman"
	case ListCheckbox:
		return "checkbox"
	default:
		return "none"
	}
}

// ListMarkerInfo describes a detected list marker.
type ListMarkerInfo struct {
	// Type is the kind of list marker
	Type ListType

	// Marker is the literal marker text ("•", "1.", "a)", etc.)
	Marker string

	// Level is the nesting level derived from indentation (0 = top level)
	Level int

	// SequenceNum is the position in the sequence for numbered and
	// lettered lists, 0 when inapplicable
	SequenceNum int
}

// IsList returns true when a marker was detected.
func (info ListMarkerInfo) IsList() bool {
	return info.Type != ListNone
}

// Marker patterns. A marker is the first whitespace-delimited token of a
// line; the patterns must consume it entirely.
var (
	numberedMarkerRe = regexp.MustCompile(`^\d+[.)]$`)
	letteredMarkerRe = regexp.MustCompile(`^[a-zA-Z][.)]$`)
	romanMarkerRe    = regexp.MustCompile(`^[ivxIVX]+[.)]$`)
	leadingDigitsRe  = regexp.MustCompile(`^\d+`)
)

var bulletMarkers = map[rune]bool{
	'•': true, '●': true, '○': true, '◦': true,
	'▪': true, '▫': true, '-': true, '*': true,
	'–': true, '—': true,
}

var checkboxMarkers = map[rune]bool{
	'☐': true, '☑': true, '☒': true,
	'□': true, '■': true, '✓': true, '✗': true,
}

// indentPerLevel is the indentation step that advances one nesting level,
// roughly half an inch.
const indentPerLevel = 36.0

// DetectListMarker examines a line for a leading list marker. Single-rune
// bullet and checkbox markers are checked first, then numbered, lettered
// and roman markers as the line's first whitespace-delimited token. The
// nesting level comes from the line's indentation.
func DetectListMarker(line *Line) ListMarkerInfo {
	trimmed := strings.TrimSpace(line.Text())
	if trimmed == "" {
		return ListMarkerInfo{}
	}

	level := int(line.XStart() / indentPerLevel)
	runes := []rune(trimmed)

	if bulletMarkers[runes[0]] {
		return ListMarkerInfo{
			Type:   ListBullet,
			Marker: string(runes[0]),
			Level:  level,
		}
	}

	if checkboxMarkers[runes[0]] {
		return ListMarkerInfo{
			Type:   ListCheckbox,
			Marker: string(runes[0]),
			Level:  level,
		}
	}

	marker := strings.Fields(trimmed)[0]

	if numberedMarkerRe.MatchString(marker) {
		seq, _ := strconv.Atoi(leadingDigitsRe.FindString(marker))
		return ListMarkerInfo{
			Type:        ListNumbered,
			Marker:      marker,
			Level:       level,
			SequenceNum: seq,
		}
	}

	if letteredMarkerRe.MatchString(marker) {
		letter := strings.ToLower(marker)[0]
		return ListMarkerInfo{
			Type:        ListLettered,
			Marker:      marker,
			Level:       level,
			SequenceNum: int(letter-'a') + 1,
		}
	}

	if romanMarkerRe.MatchString(marker) {
		return ListMarkerInfo{
			Type:   ListRoman,
			Marker: marker,
			Level:  level,
		}
	}

	return ListMarkerInfo{}
}
