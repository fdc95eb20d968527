package model

import (
	"fmt"
	"strings"
)

// Font descriptor flag bits as reported by text extractors. Bit 6 marks
// bold in some producers; name-based detection covers the rest.
const (
	FontFlagSerif  = 0x10
	FontFlagScript = 0x20
	FontFlagBold   = 0x40
)

// GlyphRun is a raw run of text as delivered by a text source, before
// normalization into a Span. Field values come straight from the extractor
// and may be incomplete.
type GlyphRun struct {
	// Text is the run's Unicode text.
	Text string

	// BBox is the run's bounding box in page coordinates.
	BBox BBox

	// Origin is the text origin of the first glyph. A zero origin is
	// replaced with the baseline start derived from the bbox.
	Origin Point

	// Font is the font name as reported, possibly with a subset prefix.
	Font string

	// Size is the font size in points.
	Size float64

	// Flags holds the extractor's font descriptor flag bits.
	Flags int

	// Color is the fill color packed as an integer, red in the low byte.
	Color int

	// CharBoxes holds per-character bounding boxes when available.
	CharBoxes []BBox

	// CharSpacing and WordSpacing are the spacing parameters in effect.
	CharSpacing float64
	WordSpacing float64

	// Descender is the font descender as a fraction of the size. Zero
	// falls back to the default.
	Descender float64

	// Confidence is the recognition confidence from 0 to 1. Zero means
	// unreported and is treated as full confidence.
	Confidence float64
}

// NewSpanFromGlyphRun converts a raw glyph run into a normalized span on the
// given page. Bold and italic are detected from the flag bits and the font
// name; when neither signal fires the attributes stay unknown.
func NewSpanFromGlyphRun(run GlyphRun, pageNum int) *Span {
	color := fmt.Sprintf("#%02x%02x%02x",
		run.Color&0xFF, (run.Color>>8)&0xFF, (run.Color>>16)&0xFF)

	origin := run.Origin
	if origin == (Point{}) {
		origin = Point{X: run.BBox.X0, Y: run.BBox.Y1}
	}

	var charWidths []float64
	if len(run.CharBoxes) > 0 {
		charWidths = make([]float64, len(run.CharBoxes))
		for i, cb := range run.CharBoxes {
			charWidths[i] = cb.Width()
		}
	}

	bold, italic := detectWeight(run.Font, run.Flags)

	return NewSpan(Span{
		Text:        run.Text,
		Font:        run.Font,
		Size:        run.Size,
		Color:       color,
		BBox:        run.BBox,
		Origin:      origin,
		PageNum:     pageNum,
		CharWidths:  charWidths,
		CharSpacing: run.CharSpacing,
		WordSpacing: run.WordSpacing,
		Descender:   run.Descender,
		Bold:        bold,
		Italic:      italic,
		Confidence:  run.Confidence,
	})
}

func detectWeight(font string, flags int) (bold, italic Flag) {
	name := strings.ToLower(BaseFontName(font))

	if flags&FontFlagBold != 0 {
		bold = FlagYes
	}
	for _, ind := range []string{"bold", "-b", "_b", "heavy", "black"} {
		if strings.Contains(name, ind) {
			bold = FlagYes
			break
		}
	}

	for _, ind := range []string{"italic", "oblique", "-i", "_i"} {
		if strings.Contains(name, ind) {
			italic = FlagYes
			break
		}
	}

	return bold, italic
}
