package layout

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/reflow/model"
	"github.com/tsawler/reflow/text"
)

// LineAlignment represents the horizontal alignment of a line
type LineAlignment int

const (
	AlignUnknown LineAlignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustified
)

// String returns a string representation of the alignment
func (a LineAlignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustified:
		return "justified"
	default:
		return "unknown"
	}
}

// Line represents a single line of text on a page, composed of one or more
// spans that share approximately the same baseline. Spans are kept sorted
// left to right.
type Line struct {
	// Spans are the spans that make up this line (sorted by X position)
	Spans []*model.Span

	// PageNum is the zero-based page number
	PageNum int

	// ID uniquely identifies the line, derived from page, baseline and text
	ID string

	// Baseline is the mean baseline Y of the spans
	Baseline float64

	// Direction is the detected reading direction
	Direction text.Direction
}

// NewLine creates a line from a group of spans. The spans are sorted by X
// position, the baseline is the mean of the span baselines, and the reading
// direction is detected from the assembled text (defaulting to LTR for
// direction-neutral content).
func NewLine(spans []*model.Span, pageNum int) *Line {
	line := &Line{
		Spans:   spans,
		PageNum: pageNum,
	}

	line.sortSpans()
	line.RecalculateBaseline()

	if dir := text.DetectDirection(line.Text()); dir != text.Neutral {
		line.Direction = dir
	} else {
		line.Direction = text.LTR
	}

	line.ID = line.generateID()
	return line
}

func (line *Line) sortSpans() {
	sort.SliceStable(line.Spans, func(i, j int) bool {
		return line.Spans[i].BBox.X0 < line.Spans[j].BBox.X0
	})
}

// RecalculateBaseline recomputes the mean baseline from the current spans.
func (line *Line) RecalculateBaseline() {
	if len(line.Spans) == 0 {
		line.Baseline = 0
		return
	}

	total := 0.0
	for _, s := range line.Spans {
		total += s.Baseline
	}
	line.Baseline = total / float64(len(line.Spans))
}

func (line *Line) generateID() string {
	t := line.Text()
	if len(t) > 20 {
		t = t[:20]
	}
	content := fmt.Sprintf("%d:%.2f:%s", line.PageNum, line.Baseline, t)
	sum := md5.Sum([]byte(content))
	return "line_" + hex.EncodeToString(sum[:])[:8]
}

// Text assembles the line's text, inserting a space between spans whose
// horizontal gap exceeds 30% of the preceding span's average character
// width. Overlapping spans get no separator.
func (line *Line) Text() string {
	if len(line.Spans) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, span := range line.Spans {
		if i > 0 {
			prev := line.Spans[i-1]
			gap := span.BBox.X0 - prev.BBox.X1
			if gap > 0 {
				runeCount := len([]rune(prev.Text))
				if runeCount == 0 {
					runeCount = 1
				}
				avgCharWidth := prev.Width() / float64(runeCount)
				if gap > avgCharWidth*0.3 {
					sb.WriteString(" ")
				}
			}
		}
		sb.WriteString(span.Text)
	}

	return sb.String()
}

// CharCount returns the total number of characters across all spans.
func (line *Line) CharCount() int {
	total := 0
	for _, s := range line.Spans {
		total += len([]rune(s.Text))
	}
	return total
}

// WordCount returns an approximate word count for the line
func (line *Line) WordCount() int {
	return len(strings.Fields(line.Text()))
}

// SpanCount returns the number of spans in the line
func (line *Line) SpanCount() int {
	return len(line.Spans)
}

// IsEmpty returns true if the line has no text content
func (line *Line) IsEmpty() bool {
	return strings.TrimSpace(line.Text()) == ""
}

// BBox returns the union of the span bounding boxes, or a zero box for an
// empty line.
func (line *Line) BBox() model.BBox {
	if len(line.Spans) == 0 {
		return model.BBox{}
	}

	bbox := line.Spans[0].BBox
	for _, s := range line.Spans[1:] {
		bbox = bbox.Union(s.BBox)
	}
	return bbox
}

// Width returns the total width of the line
func (line *Line) Width() float64 {
	return line.BBox().Width()
}

// Height returns the height of the line
func (line *Line) Height() float64 {
	return line.BBox().Height()
}

// XStart returns the X coordinate where the line begins
func (line *Line) XStart() float64 {
	return line.BBox().X0
}

// XEnd returns the X coordinate where the line ends
func (line *Line) XEnd() float64 {
	return line.BBox().X1
}

// DominantFont returns the font covering the most characters in the line.
func (line *Line) DominantFont() string {
	if len(line.Spans) == 0 {
		return model.DefaultFont
	}

	fontChars := make(map[string]int)
	for _, s := range line.Spans {
		fontChars[s.Font] += len([]rune(s.Text))
	}
	return maxCountKey(fontChars)
}

// DominantFontSize returns the font size covering the most characters,
// rounded to a tenth of a point for grouping.
func (line *Line) DominantFontSize() float64 {
	if len(line.Spans) == 0 {
		return model.DefaultFontSize
	}

	sizeChars := make(map[float64]int)
	for _, s := range line.Spans {
		size := roundTo(s.Size, 0.1)
		sizeChars[size] += len([]rune(s.Text))
	}
	return maxCountKey(sizeChars)
}

// DominantColor returns the fill color covering the most characters.
func (line *Line) DominantColor() string {
	if len(line.Spans) == 0 {
		return model.DefaultColor
	}

	colorChars := make(map[string]int)
	for _, s := range line.Spans {
		colorChars[s.Color] += len([]rune(s.Text))
	}
	return maxCountKey(colorChars)
}

// IsBold returns true if more than half the line's characters are bold
func (line *Line) IsBold() bool {
	boldChars := 0
	for _, s := range line.Spans {
		if s.Bold == model.FlagYes {
			boldChars += len([]rune(s.Text))
		}
	}
	return boldChars > line.CharCount()/2
}

// IsItalic returns true if more than half the line's characters are italic
func (line *Line) IsItalic() bool {
	italicChars := 0
	for _, s := range line.Spans {
		if s.Italic == model.FlagYes {
			italicChars += len([]rune(s.Text))
		}
	}
	return italicChars > line.CharCount()/2
}

// HasMixedStyles returns true if the line's spans do not all share the style
// of the first span.
func (line *Line) HasMixedStyles() bool {
	if len(line.Spans) <= 1 {
		return false
	}

	first := line.Spans[0]
	for _, s := range line.Spans[1:] {
		if !s.HasSameStyle(first) {
			return true
		}
	}
	return false
}

// HasSuperscript returns true if any span is a superscript
func (line *Line) HasSuperscript() bool {
	for _, s := range line.Spans {
		if s.Superscript {
			return true
		}
	}
	return false
}

// HasSubscript returns true if any span is a subscript
func (line *Line) HasSubscript() bool {
	for _, s := range line.Spans {
		if s.Subscript {
			return true
		}
	}
	return false
}

// AvgCharSpacing returns the character-weighted mean character spacing.
func (line *Line) AvgCharSpacing() float64 {
	charCount := line.CharCount()
	if charCount == 0 {
		return 0
	}

	total := 0.0
	for _, s := range line.Spans {
		total += s.CharSpacing * float64(len([]rune(s.Text)))
	}
	return total / float64(charCount)
}

// AvgWordSpacing returns the mean word spacing, weighted by the number of
// space characters each span contains.
func (line *Line) AvgWordSpacing() float64 {
	totalSpacing := 0.0
	totalSpaces := 0

	for _, s := range line.Spans {
		spaces := strings.Count(s.Text, " ")
		totalSpacing += s.WordSpacing * float64(spaces)
		totalSpaces += spaces
	}

	if totalSpaces == 0 {
		return 0
	}
	return totalSpacing / float64(totalSpaces)
}

// InterSpanGaps returns the horizontal gap between each pair of consecutive
// spans. Negative values indicate overlapping spans.
func (line *Line) InterSpanGaps() []float64 {
	if len(line.Spans) < 2 {
		return nil
	}

	gaps := make([]float64, 0, len(line.Spans)-1)
	for i := 0; i < len(line.Spans)-1; i++ {
		gaps = append(gaps, line.Spans[i+1].BBox.X0-line.Spans[i].BBox.X1)
	}
	return gaps
}

// AvgInterSpanGap returns the mean gap between consecutive spans.
func (line *Line) AvgInterSpanGap() float64 {
	return mean(line.InterSpanGaps())
}

// DetectAlignment determines the line's horizontal alignment relative to a
// page width. Lines with roughly equal margins are centered, or justified
// when multiple spans are spaced evenly. Otherwise the smaller margin wins.
func (line *Line) DetectAlignment(pageWidth float64) LineAlignment {
	if pageWidth <= 0 || len(line.Spans) == 0 {
		return AlignUnknown
	}

	leftMargin := line.XStart()
	rightMargin := pageWidth - line.XEnd()

	marginDiff := absFloat64(leftMargin - rightMargin)
	threshold := pageWidth * 0.05

	if marginDiff < threshold {
		if len(line.Spans) > 1 && line.hasEvenSpacing() {
			return AlignJustified
		}
		return AlignCenter
	}

	if leftMargin < rightMargin {
		return AlignLeft
	}
	return AlignRight
}

// hasEvenSpacing reports whether the inter-span gaps are uniform enough to
// indicate justified text.
func (line *Line) hasEvenSpacing() bool {
	gaps := line.InterSpanGaps()
	if len(gaps) < 2 {
		return false
	}

	meanGap := mean(gaps)
	if meanGap <= 0 {
		return false
	}
	return variance(gaps) < meanGap*0.2
}

// FindSpanAtX returns the span whose horizontal extent contains x, or nil.
func (line *Line) FindSpanAtX(x float64) *model.Span {
	for _, s := range line.Spans {
		if s.BBox.ContainsX(x) {
			return s
		}
	}
	return nil
}

// FindCharAtX returns the span containing x along with the index of the
// character at that position. Requires per-character widths; returns
// (nil, -1) when the position misses or no metrics exist. An x past the
// last measured character maps to the span's final character.
func (line *Line) FindCharAtX(x float64) (*model.Span, int) {
	span := line.FindSpanAtX(x)
	if span == nil || len(span.CharWidths) == 0 {
		return nil, -1
	}

	currentX := span.BBox.X0
	for i, width := range span.CharWidths {
		if x >= currentX && x <= currentX+width {
			return span, i
		}
		currentX += width
	}

	return span, len([]rune(span.Text)) - 1
}

// SpansInRange returns the spans that intersect the horizontal range
// [xStart, xEnd].
func (line *Line) SpansInRange(xStart, xEnd float64) []*model.Span {
	var result []*model.Span
	for _, s := range line.Spans {
		if s.BBox.X1 >= xStart && s.BBox.X0 <= xEnd {
			result = append(result, s)
		}
	}
	return result
}

// SplitAtX divides the line at an X coordinate into a left and a right
// line. A span crossing the cut goes to the side holding its center.
func (line *Line) SplitAtX(x float64) (*Line, *Line) {
	var leftSpans, rightSpans []*model.Span

	for _, s := range line.Spans {
		switch {
		case s.BBox.X1 <= x:
			leftSpans = append(leftSpans, s)
		case s.BBox.X0 >= x:
			rightSpans = append(rightSpans, s)
		default:
			if s.Center().X < x {
				leftSpans = append(leftSpans, s)
			} else {
				rightSpans = append(rightSpans, s)
			}
		}
	}

	return NewLine(leftSpans, line.PageNum), NewLine(rightSpans, line.PageNum)
}

// AddSpan inserts a span into the line, keeping span order and the baseline
// up to date.
func (line *Line) AddSpan(span *model.Span) {
	line.Spans = append(line.Spans, span)
	line.sortSpans()
	line.RecalculateBaseline()
}

// RemoveSpan removes a span by identity. Returns false if the span is not
// part of the line.
func (line *Line) RemoveSpan(span *model.Span) bool {
	for i, s := range line.Spans {
		if s == span {
			line.Spans = append(line.Spans[:i], line.Spans[i+1:]...)
			if len(line.Spans) > 0 {
				line.RecalculateBaseline()
			}
			return true
		}
	}
	return false
}

// MergeWith combines this line's spans with another line's into a new line.
func (line *Line) MergeWith(other *Line) *Line {
	combined := make([]*model.Span, 0, len(line.Spans)+len(other.Spans))
	combined = append(combined, line.Spans...)
	combined = append(combined, other.Spans...)
	return NewLine(combined, line.PageNum)
}

// ContainsPoint returns true if the point is within the line's bounding box
func (line *Line) ContainsPoint(x, y float64) bool {
	return line.BBox().Contains(model.Point{X: x, Y: y})
}

// LineGroupingConfig holds configuration for grouping spans into lines
type LineGroupingConfig struct {
	// BaselineTolerance is the maximum baseline difference for spans to
	// share a line, in points (default: 3)
	BaselineTolerance float64

	// HorizontalGapThreshold is the gap width that splits a line into
	// separate segments, in points (default: 50)
	HorizontalGapThreshold float64
}

// DefaultLineGroupingConfig returns sensible default configuration
func DefaultLineGroupingConfig() LineGroupingConfig {
	return LineGroupingConfig{
		BaselineTolerance:      3.0,
		HorizontalGapThreshold: 50.0,
	}
}

// LineGrouper groups spans into lines based on baseline proximity.
//
// The algorithm sorts spans by baseline and X position, clusters spans whose
// baseline falls within the tolerance of the cluster's first span, and
// finally orders the resulting lines top to bottom.
type LineGrouper struct {
	config LineGroupingConfig
}

// NewLineGrouper creates a line grouper with default configuration
func NewLineGrouper() *LineGrouper {
	return &LineGrouper{
		config: DefaultLineGroupingConfig(),
	}
}

// NewLineGrouperWithConfig creates a line grouper with custom configuration
func NewLineGrouperWithConfig(config LineGroupingConfig) *LineGrouper {
	return &LineGrouper{
		config: config,
	}
}

// Group groups spans into lines ordered top to bottom. The input slice is
// not modified.
func (g *LineGrouper) Group(spans []*model.Span) []*Line {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]*model.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Baseline != sorted[j].Baseline {
			return sorted[i].Baseline < sorted[j].Baseline
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	var lines []*Line
	currentGroup := []*model.Span{sorted[0]}
	currentBaseline := sorted[0].Baseline

	for _, span := range sorted[1:] {
		if absFloat64(span.Baseline-currentBaseline) <= g.config.BaselineTolerance {
			currentGroup = append(currentGroup, span)
		} else {
			lines = append(lines, g.createLine(currentGroup))
			currentGroup = []*model.Span{span}
			currentBaseline = span.Baseline
		}
	}
	lines = append(lines, g.createLine(currentGroup))

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Baseline < lines[j].Baseline
	})

	return lines
}

func (g *LineGrouper) createLine(spans []*model.Span) *Line {
	pageNum := 0
	if len(spans) > 0 {
		pageNum = spans[0].PageNum
	}
	return NewLine(spans, pageNum)
}

// GroupByBaseline groups spans by vertical position only, without building
// Line values. Useful for preliminary analysis. A tolerance of 0 uses the
// configured baseline tolerance.
func (g *LineGrouper) GroupByBaseline(spans []*model.Span, tolerance float64) [][]*model.Span {
	if len(spans) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = g.config.BaselineTolerance
	}

	sorted := make([]*model.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Baseline < sorted[j].Baseline
	})

	var groups [][]*model.Span
	currentGroup := []*model.Span{sorted[0]}
	currentBaseline := sorted[0].Baseline

	for _, span := range sorted[1:] {
		if absFloat64(span.Baseline-currentBaseline) <= tolerance {
			currentGroup = append(currentGroup, span)
		} else {
			groups = append(groups, currentGroup)
			currentGroup = []*model.Span{span}
			currentBaseline = span.Baseline
		}
	}

	return append(groups, currentGroup)
}

// SplitByHorizontalGap splits a line wherever the gap between consecutive
// spans exceeds the threshold. Useful for detecting columns or tabulated
// text. A threshold of 0 uses the configured gap threshold.
func (g *LineGrouper) SplitByHorizontalGap(line *Line, threshold float64) []*Line {
	if threshold <= 0 {
		threshold = g.config.HorizontalGapThreshold
	}

	if len(line.Spans) <= 1 {
		return []*Line{line}
	}

	var result []*Line
	currentGroup := []*model.Span{line.Spans[0]}

	for i := 1; i < len(line.Spans); i++ {
		gap := line.Spans[i].BBox.X0 - line.Spans[i-1].BBox.X1

		if gap > threshold {
			result = append(result, NewLine(currentGroup, line.PageNum))
			currentGroup = []*model.Span{line.Spans[i]}
		} else {
			currentGroup = append(currentGroup, line.Spans[i])
		}
	}

	return append(result, NewLine(currentGroup, line.PageNum))
}

// EstimateLineSpacing estimates the leading of a list of lines as the
// median distance between consecutive baselines. Returns 0 when there are
// fewer than two lines.
func (g *LineGrouper) EstimateLineSpacing(lines []*Line) float64 {
	if len(lines) < 2 {
		return 0
	}

	var spacings []float64
	for i := 0; i < len(lines)-1; i++ {
		spacing := lines[i+1].Baseline - lines[i].Baseline
		if spacing > 0 {
			spacings = append(spacings, spacing)
		}
	}

	return median(spacings)
}

// DetectParagraphs groups lines into paragraphs based on line spacing.
// Lines separated by more than the normal leading times gapFactor start a
// new group. A gapFactor of 0 uses the default of 1.5.
func (g *LineGrouper) DetectParagraphs(lines []*Line, gapFactor float64) [][]*Line {
	if len(lines) == 0 {
		return nil
	}
	if len(lines) == 1 {
		return [][]*Line{{lines[0]}}
	}
	if gapFactor <= 0 {
		gapFactor = 1.5
	}

	normalSpacing := g.EstimateLineSpacing(lines)
	if normalSpacing == 0 {
		groups := make([][]*Line, len(lines))
		for i, line := range lines {
			groups[i] = []*Line{line}
		}
		return groups
	}

	threshold := normalSpacing * gapFactor

	var paragraphs [][]*Line
	currentPara := []*Line{lines[0]}

	for i := 1; i < len(lines); i++ {
		spacing := lines[i].Baseline - lines[i-1].Baseline

		if spacing > threshold {
			paragraphs = append(paragraphs, currentPara)
			currentPara = []*Line{lines[i]}
		} else {
			currentPara = append(currentPara, lines[i])
		}
	}

	return append(paragraphs, currentPara)
}

// FindLineAtPoint returns the first line whose bounding box, expanded by
// the tolerance, contains the point. Returns nil when no line matches.
func FindLineAtPoint(lines []*Line, x, y, tolerance float64) *Line {
	p := model.Point{X: x, Y: y}
	for _, line := range lines {
		if line.BBox().Expand(tolerance).Contains(p) {
			return line
		}
	}
	return nil
}
