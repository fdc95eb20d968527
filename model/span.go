package model

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// Flag is a tri-state boolean for style attributes that may be unknown.
// The zero value is FlagUnknown.
type Flag int

const (
	// FlagUnknown means the attribute could not be determined.
	FlagUnknown Flag = iota
	// FlagNo means the attribute is known to be absent.
	FlagNo
	// FlagYes means the attribute is known to be present.
	FlagYes
)

// Bool returns the flag as a plain boolean, treating unknown as false.
func (f Flag) Bool() bool {
	return f == FlagYes
}

// FlagFromBool converts a boolean into a definite flag value.
func FlagFromBool(b bool) Flag {
	if b {
		return FlagYes
	}
	return FlagNo
}

// RenderMode is the PDF text rendering mode (Tr operator), values 0 to 7.
type RenderMode int

const (
	RenderFill RenderMode = iota
	RenderStroke
	RenderFillStroke
	RenderInvisible
	RenderFillClip
	RenderStrokeClip
	RenderFillStrokeClip
	RenderClip
)

var renderModeNames = [...]string{
	"fill", "stroke", "fill_stroke", "invisible",
	"fill_clip", "stroke_clip", "fill_stroke_clip", "clip",
}

// String returns the render mode name. Out-of-range values report as fill.
func (r RenderMode) String() string {
	if r < RenderFill || r > RenderClip {
		return renderModeNames[RenderFill]
	}
	return renderModeNames[r]
}

// RenderModeFromString parses a render mode name. Unknown names map to
// RenderFill.
func RenderModeFromString(s string) RenderMode {
	for i, name := range renderModeNames {
		if name == s {
			return RenderMode(i)
		}
	}
	return RenderFill
}

// IsVisible returns false for render modes that draw no glyph outlines.
func (r RenderMode) IsVisible() bool {
	return r != RenderInvisible && r != RenderClip
}

// FontEmbedding describes how a span's font is embedded in the document.
type FontEmbedding int

const (
	EmbeddingUnknown FontEmbedding = iota
	EmbeddingNone
	EmbeddingFull
	EmbeddingSubset
)

var fontEmbeddingNames = [...]string{
	"unknown", "not_embedded", "fully_embedded", "subset",
}

// String returns the embedding status name.
func (e FontEmbedding) String() string {
	if e < EmbeddingUnknown || e > EmbeddingSubset {
		return fontEmbeddingNames[EmbeddingUnknown]
	}
	return fontEmbeddingNames[e]
}

// FontEmbeddingFromString parses an embedding status name. Unknown names map
// to EmbeddingUnknown.
func FontEmbeddingFromString(s string) FontEmbedding {
	for i, name := range fontEmbeddingNames {
		if name == s {
			return FontEmbedding(i)
		}
	}
	return EmbeddingUnknown
}

// Default values applied by NewSpan when the corresponding field is unset.
const (
	DefaultFont      = "Helvetica"
	DefaultFontSize  = 12.0
	DefaultColor     = "#000000"
	DefaultDescender = -0.2
)

// Span is a run of text sharing one font, size and set of graphics state
// parameters. Spans are the atomic unit of text layout; lines and paragraphs
// are built from them and never subdivide them.
type Span struct {
	// ID uniquely identifies the span. Derived from content when created
	// through NewSpan, so identical inputs produce identical IDs.
	ID string

	// Text is the span's Unicode text content.
	Text string

	// Font is the PostScript font name, including any subset prefix.
	Font string

	// Size is the font size in points.
	Size float64

	// Color is the fill color as a #rrggbb hex string.
	Color string

	// BBox is the span's bounding box in page coordinates.
	BBox BBox

	// Origin is the text origin of the first glyph.
	Origin Point

	// Baseline is the Y coordinate of the text baseline.
	Baseline float64

	// PageNum is the zero-based page number the span belongs to.
	PageNum int

	// CharWidths holds the advance width of each character in Text.
	// May be empty when per-character metrics are unavailable.
	CharWidths []float64

	// CharSpacing is the character spacing (Tc) in effect.
	CharSpacing float64

	// WordSpacing is the word spacing (Tw) in effect.
	WordSpacing float64

	// HorizontalScaling is the horizontal scaling (Tz) as a percentage.
	HorizontalScaling float64

	// Rise is the text rise (Ts). Positive values indicate superscripts,
	// negative values subscripts.
	Rise float64

	// RenderMode is the text rendering mode in effect.
	RenderMode RenderMode

	// Opacity is the fill opacity from 0 to 1.
	Opacity float64

	// CTM is the current transformation matrix in effect.
	CTM Matrix

	// Bold reports whether the span is bold, when known.
	Bold Flag

	// Italic reports whether the span is italic, when known.
	Italic Flag

	// Embedding describes how the font is embedded.
	Embedding FontEmbedding

	// Descender is the font descender as a fraction of the font size.
	Descender float64

	// TotalWidth is the sum of CharWidths, or the bbox width when no
	// per-character metrics exist.
	TotalWidth float64

	// Superscript and Subscript are derived from Rise.
	Superscript bool
	Subscript   bool

	// Confidence is the recognition confidence from 0 to 1. Spans from
	// native text extraction carry 1; OCR sources report lower values.
	Confidence float64
}

// NewSpan normalizes a span and fills in derived fields. Missing font, size
// and color get default values, the baseline is computed from the bounding
// box and descender when unset, superscript and subscript are derived from
// the rise, and a deterministic content-based ID is assigned.
func NewSpan(s Span) *Span {
	if s.Font == "" {
		s.Font = DefaultFont
	}
	if s.Size <= 0 {
		s.Size = DefaultFontSize
	}
	if s.Color == "" {
		s.Color = DefaultColor
	}
	if s.Opacity == 0 {
		s.Opacity = 1.0
	}
	if s.HorizontalScaling == 0 {
		s.HorizontalScaling = 100.0
	}
	if s.Confidence == 0 {
		s.Confidence = 1.0
	}
	if s.Descender == 0 {
		s.Descender = DefaultDescender
	}
	if s.CTM.IsZero() {
		s.CTM = Identity()
	}

	if s.Rise > 0 {
		s.Superscript = true
	} else if s.Rise < 0 {
		s.Subscript = true
	}

	if s.Baseline == 0 {
		s.Baseline = s.BBox.Y1 + s.Descender*s.Size
	}

	if len(s.CharWidths) > 0 {
		total := 0.0
		for _, w := range s.CharWidths {
			total += w
		}
		s.TotalWidth = total
	} else if s.TotalWidth == 0 {
		s.TotalWidth = s.BBox.Width()
	}

	if s.Embedding == EmbeddingUnknown && IsSubsetFontName(s.Font) {
		s.Embedding = EmbeddingSubset
	}

	if s.ID == "" {
		s.ID = spanID(&s)
	}

	return &s
}

// EmptySpan returns a normalized span with no text, useful as a template
// when synthesizing content.
func EmptySpan() *Span {
	return NewSpan(Span{})
}

func spanID(s *Span) string {
	content := fmt.Sprintf("%s|%s|%.2f|%d|%.2f|%.2f|%.2f|%.2f",
		s.Text, s.Font, s.Size, s.PageNum,
		s.BBox.X0, s.BBox.Y0, s.BBox.X1, s.BBox.Y1)
	sum := md5.Sum([]byte(content))
	return "span_" + hex.EncodeToString(sum[:])[:8]
}

// IsSubsetFontName reports whether a font name carries a subset prefix of
// six uppercase letters followed by a plus sign, e.g. "ABCDEF+Times".
func IsSubsetFontName(name string) bool {
	if len(name) < 8 || name[6] != '+' {
		return false
	}
	for _, r := range name[:6] {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// BaseFontName strips any subset prefix from the font name.
func BaseFontName(name string) string {
	if IsSubsetFontName(name) {
		return name[7:]
	}
	return name
}

// Width returns the span's bounding box width.
func (s *Span) Width() float64 {
	return s.BBox.Width()
}

// Height returns the span's bounding box height.
func (s *Span) Height() float64 {
	return s.BBox.Height()
}

// Center returns the center of the span's bounding box.
func (s *Span) Center() Point {
	return s.BBox.Center()
}

// IsSubsetFont reports whether the span's font name carries a subset prefix.
func (s *Span) IsSubsetFont() bool {
	return IsSubsetFontName(s.Font)
}

// IsEmbeddedFont reports whether the font is embedded in any form.
func (s *Span) IsEmbeddedFont() bool {
	return s.Embedding == EmbeddingFull || s.Embedding == EmbeddingSubset
}

// HasTransformation reports whether a non-identity CTM is in effect.
func (s *Span) HasTransformation() bool {
	return !s.CTM.IsIdentity()
}

// HasCustomSpacing reports whether non-default character or word spacing,
// scaling or rise is in effect.
func (s *Span) HasCustomSpacing() bool {
	return s.CharSpacing != 0 || s.WordSpacing != 0 ||
		s.HorizontalScaling != 100.0 || s.Rise != 0
}

// AverageCharWidth returns the mean character advance width. Falls back to
// bbox width over character count when per-character metrics are missing.
func (s *Span) AverageCharWidth() float64 {
	if len(s.CharWidths) > 0 {
		return s.TotalWidth / float64(len(s.CharWidths))
	}
	n := len([]rune(s.Text))
	if n == 0 {
		return 0
	}
	return s.BBox.Width() / float64(n)
}

// StyleSummary returns a short human-readable description of the span's
// visual style.
func (s *Span) StyleSummary() string {
	parts := []string{fmt.Sprintf("%s %.1fpt", s.Font, s.Size)}

	if s.Bold == FlagYes {
		parts = append(parts, "bold")
	}
	if s.Italic == FlagYes {
		parts = append(parts, "italic")
	}
	if s.Superscript {
		parts = append(parts, "superscript")
	}
	if s.Subscript {
		parts = append(parts, "subscript")
	}
	if s.Color != DefaultColor {
		parts = append(parts, s.Color)
	}

	return strings.Join(parts, ", ")
}

// SpacingSummary returns a short description of any custom spacing in
// effect, or "default" when there is none.
func (s *Span) SpacingSummary() string {
	if !s.HasCustomSpacing() {
		return "default"
	}

	var parts []string
	if s.CharSpacing != 0 {
		parts = append(parts, fmt.Sprintf("char %.2f", s.CharSpacing))
	}
	if s.WordSpacing != 0 {
		parts = append(parts, fmt.Sprintf("word %.2f", s.WordSpacing))
	}
	if s.HorizontalScaling != 100.0 {
		parts = append(parts, fmt.Sprintf("scale %.0f%%", s.HorizontalScaling))
	}
	if s.Rise != 0 {
		parts = append(parts, fmt.Sprintf("rise %.2f", s.Rise))
	}

	return strings.Join(parts, ", ")
}

// HasSameStyle reports whether two spans share font, size (within half a
// point), color and weight attributes.
func (s *Span) HasSameStyle(other *Span) bool {
	if other == nil {
		return false
	}
	return s.Font == other.Font &&
		absFloat(s.Size-other.Size) < 0.5 &&
		s.Color == other.Color &&
		s.Bold == other.Bold &&
		s.Italic == other.Italic
}

// HasSameSpacing reports whether two spans share spacing parameters within
// a small tolerance.
func (s *Span) HasSameSpacing(other *Span) bool {
	if other == nil {
		return false
	}
	const tol = 0.1
	return absFloat(s.CharSpacing-other.CharSpacing) < tol &&
		absFloat(s.WordSpacing-other.WordSpacing) < tol &&
		absFloat(s.HorizontalScaling-other.HorizontalScaling) < tol &&
		absFloat(s.Rise-other.Rise) < tol
}

// IsOnSameBaseline reports whether two spans sit on the same baseline
// within the given tolerance. A tolerance of 0 uses the default of 2
// points.
func (s *Span) IsOnSameBaseline(other *Span, tolerance float64) bool {
	if other == nil {
		return false
	}
	if tolerance <= 0 {
		tolerance = 2.0
	}
	return absFloat(s.Baseline-other.Baseline) <= tolerance
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
