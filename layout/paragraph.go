package layout

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/reflow/model"
)

// ParagraphType classifies a paragraph's structural role.
type ParagraphType int

const (
	// ParagraphNormal is ordinary body text
	ParagraphNormal ParagraphType = iota
	// ParagraphHeading is a section heading or title
	ParagraphHeading
	// ParagraphSubheading is a secondary heading
	ParagraphSubheading
	// ParagraphListItem is a bulleted or numbered list item
	ParagraphListItem
	// ParagraphQuote is indented quoted text
	ParagraphQuote
	// ParagraphCode is monospaced code
	ParagraphCode
	// ParagraphCaption is a figure or table caption
	ParagraphCaption
	// ParagraphFootnote is a footnote
	ParagraphFootnote
	// ParagraphHeader is a running page header
	ParagraphHeader
	// ParagraphFooter is a running page footer
	ParagraphFooter
	// ParagraphPageNumber is a bare page number
	ParagraphPageNumber
)

var paragraphTypeNames = map[ParagraphType]string{
	ParagraphNormal:     "normal",
	ParagraphHeading:    "heading",
	ParagraphSubheading: "subheading",
	ParagraphListItem:   "list_item",
	ParagraphQuote:      "quote",
	ParagraphCode:       "code",
	ParagraphCaption:    "caption",
	ParagraphFootnote:   "footnote",
	ParagraphHeader:     "header",
	ParagraphFooter:     "footer",
	ParagraphPageNumber: "page_number",
}

// String returns the serialized name of the paragraph type.
func (t ParagraphType) String() string {
	if name, ok := paragraphTypeNames[t]; ok {
		return name
	}
	return "normal"
}

// ParagraphTypeFromString parses a serialized paragraph type name. Unknown
// names map to ParagraphNormal.
func ParagraphTypeFromString(s string) ParagraphType {
	for t, name := range paragraphTypeNames {
		if name == s {
			return t
		}
	}
	return ParagraphNormal
}

// Paragraph is a group of lines forming one semantic text unit, classified
// by structural role. Lines are kept sorted top to bottom.
type Paragraph struct {
	// Lines are the paragraph's lines (sorted by vertical position)
	Lines []*Line

	// PageNum is the zero-based page number
	PageNum int

	// ID uniquely identifies the paragraph, derived from page, position
	// and text
	ID string

	// Type is the detected structural role
	Type ParagraphType

	// ListInfo holds the detected list marker for list items
	ListInfo ListMarkerInfo

	// HeadingLevel is the heading level from 1 to 6, 0 for non-headings
	HeadingLevel int
}

// NewParagraph creates a paragraph from a group of lines. Lines are sorted
// top to bottom and a deterministic content-based ID is assigned.
func NewParagraph(lines []*Line, pageNum int) *Paragraph {
	p := &Paragraph{
		Lines:   lines,
		PageNum: pageNum,
	}

	sort.SliceStable(p.Lines, func(i, j int) bool {
		return p.Lines[i].BBox().Y0 < p.Lines[j].BBox().Y0
	})

	p.ID = p.generateID()
	return p
}

func (p *Paragraph) generateID() string {
	t := p.Text()
	if len(t) > 30 {
		t = t[:30]
	}
	content := fmt.Sprintf("%d:%.2f:%s", p.PageNum, p.BBox().Y0, t)
	sum := md5.Sum([]byte(content))
	return "para_" + hex.EncodeToString(sum[:])[:8]
}

// Text returns the paragraph's text with lines joined by newlines.
func (p *Paragraph) Text() string {
	parts := make([]string, len(p.Lines))
	for i, line := range p.Lines {
		parts[i] = line.Text()
	}
	return strings.Join(parts, "\n")
}

// TextWithoutBreaks returns the text with lines joined by single spaces,
// for searching.
func (p *Paragraph) TextWithoutBreaks() string {
	parts := make([]string, len(p.Lines))
	for i, line := range p.Lines {
		parts[i] = strings.TrimSpace(line.Text())
	}
	return strings.Join(parts, " ")
}

// LineCount returns the number of lines in the paragraph
func (p *Paragraph) LineCount() int {
	return len(p.Lines)
}

// CharCount returns the total number of characters
func (p *Paragraph) CharCount() int {
	total := 0
	for _, line := range p.Lines {
		total += line.CharCount()
	}
	return total
}

// WordCount returns an approximate word count
func (p *Paragraph) WordCount() int {
	return len(strings.Fields(p.TextWithoutBreaks()))
}

// SpanCount returns the total number of spans across all lines
func (p *Paragraph) SpanCount() int {
	total := 0
	for _, line := range p.Lines {
		total += line.SpanCount()
	}
	return total
}

// BBox returns the union of the line bounding boxes, or a zero box for an
// empty paragraph.
func (p *Paragraph) BBox() model.BBox {
	if len(p.Lines) == 0 {
		return model.BBox{}
	}

	bbox := p.Lines[0].BBox()
	for _, line := range p.Lines[1:] {
		bbox = bbox.Union(line.BBox())
	}
	return bbox
}

// Width returns the paragraph width
func (p *Paragraph) Width() float64 {
	return p.BBox().Width()
}

// Height returns the paragraph height
func (p *Paragraph) Height() float64 {
	return p.BBox().Height()
}

// FirstLineIndent returns the indentation of the first line relative to the
// mean left edge of the remaining lines. Positive values indicate a normal
// indent, negative a hanging indent. Single-line paragraphs return 0.
func (p *Paragraph) FirstLineIndent() float64 {
	if len(p.Lines) < 2 {
		return 0
	}

	otherXs := make([]float64, 0, len(p.Lines)-1)
	for _, line := range p.Lines[1:] {
		otherXs = append(otherXs, line.XStart())
	}

	return p.Lines[0].XStart() - mean(otherXs)
}

// LineSpacing returns the mean distance between consecutive baselines, in
// points. Single-line paragraphs return 0.
func (p *Paragraph) LineSpacing() float64 {
	spacings := p.baselineSpacings()
	return mean(spacings)
}

// LineSpacingMode reports whether the paragraph's leading is "fixed"
// (baseline distances nearly constant) or "auto".
func (p *Paragraph) LineSpacingMode() string {
	spacings := p.baselineSpacings()
	if len(spacings) > 1 && variance(spacings) < 1.0 {
		return "fixed"
	}
	return "auto"
}

func (p *Paragraph) baselineSpacings() []float64 {
	var spacings []float64
	for i := 0; i < len(p.Lines)-1; i++ {
		spacing := p.Lines[i+1].Baseline - p.Lines[i].Baseline
		if spacing > 0 {
			spacings = append(spacings, spacing)
		}
	}
	return spacings
}

// BaselineGrid returns the baseline Y positions of all lines, for aligning
// edited text with the original grid.
func (p *Paragraph) BaselineGrid() []float64 {
	grid := make([]float64, len(p.Lines))
	for i, line := range p.Lines {
		grid[i] = line.Baseline
	}
	return grid
}

// DominantFont returns the font covering the most characters.
func (p *Paragraph) DominantFont() string {
	fonts := make(map[string]int)
	for _, line := range p.Lines {
		fonts[line.DominantFont()] += line.CharCount()
	}
	if len(fonts) == 0 {
		return ""
	}
	return maxCountKey(fonts)
}

// DominantFontSize returns the font size covering the most characters.
func (p *Paragraph) DominantFontSize() float64 {
	sizes := make(map[float64]int)
	for _, line := range p.Lines {
		size := roundTo(line.DominantFontSize(), 0.1)
		if size > 0 {
			sizes[size] += line.CharCount()
		}
	}
	if len(sizes) == 0 {
		return 0
	}
	return maxCountKey(sizes)
}

// DominantAlignment returns the most common line alignment relative to a
// page width.
func (p *Paragraph) DominantAlignment(pageWidth float64) LineAlignment {
	if len(p.Lines) == 0 {
		return AlignUnknown
	}

	counts := make(map[LineAlignment]int)
	for _, line := range p.Lines {
		counts[line.DetectAlignment(pageWidth)]++
	}

	best := AlignUnknown
	bestCount := -1
	for align, count := range counts {
		if count > bestCount || (count == bestCount && align < best) {
			best = align
			bestCount = count
		}
	}
	return best
}

// IsBold returns true if more than half the paragraph's characters sit on
// bold lines.
func (p *Paragraph) IsBold() bool {
	boldChars := 0
	totalChars := 0
	for _, line := range p.Lines {
		chars := line.CharCount()
		totalChars += chars
		if line.IsBold() {
			boldChars += chars
		}
	}
	return totalChars > 0 && boldChars > totalChars/2
}

// IsItalic returns true if more than half the paragraph's characters sit on
// italic lines.
func (p *Paragraph) IsItalic() bool {
	italicChars := 0
	totalChars := 0
	for _, line := range p.Lines {
		chars := line.CharCount()
		totalChars += chars
		if line.IsItalic() {
			italicChars += chars
		}
	}
	return totalChars > 0 && italicChars > totalChars/2
}

// HasMixedStyles returns true if any line mixes styles
func (p *Paragraph) HasMixedStyles() bool {
	for _, line := range p.Lines {
		if line.HasMixedStyles() {
			return true
		}
	}
	return false
}

// IsHeading returns true for headings and subheadings
func (p *Paragraph) IsHeading() bool {
	return p.Type == ParagraphHeading || p.Type == ParagraphSubheading
}

// IsListItem returns true for list items
func (p *Paragraph) IsListItem() bool {
	return p.Type == ParagraphListItem
}

// ListMarker returns the list marker text, or "" for non-list paragraphs.
func (p *Paragraph) ListMarker() string {
	if !p.ListInfo.IsList() {
		return ""
	}
	return p.ListInfo.Marker
}

// ParagraphStyle captures a paragraph's visual style for comparison.
type ParagraphStyle struct {
	FontName        string
	FontSize        float64
	Bold            bool
	Italic          bool
	LineSpacing     float64 // multiple of the font size (1.0 = single)
	FirstLineIndent float64
	LeftMargin      float64
	RightMargin     float64
	Alignment       LineAlignment
}

// IsSimilarTo reports whether two styles would read as the same paragraph
// style. Font sizes compare within the tolerance; a tolerance of 0 uses 2
// points.
func (s ParagraphStyle) IsSimilarTo(other ParagraphStyle, tolerance float64) bool {
	if tolerance <= 0 {
		tolerance = 2.0
	}
	return s.FontName == other.FontName &&
		absFloat64(s.FontSize-other.FontSize) <= tolerance &&
		s.Bold == other.Bold &&
		s.Italic == other.Italic
}

// Style summarizes the paragraph's visual style relative to a page width.
func (p *Paragraph) Style(pageWidth float64) ParagraphStyle {
	style := ParagraphStyle{
		FontName:        p.DominantFont(),
		FontSize:        p.DominantFontSize(),
		Bold:            p.IsBold(),
		Italic:          p.IsItalic(),
		FirstLineIndent: p.FirstLineIndent(),
		LeftMargin:      p.BBox().X0,
		RightMargin:     p.BBox().X1,
		Alignment:       p.DominantAlignment(pageWidth),
		LineSpacing:     1.0,
	}
	if style.FontSize > 0 && p.LineSpacing() > 0 {
		style.LineSpacing = p.LineSpacing() / style.FontSize
	}
	return style
}

// LineAtY returns the line whose vertical extent, expanded by the
// tolerance, contains y. Returns nil when no line matches. A tolerance of
// 0 uses 5 points.
func (p *Paragraph) LineAtY(y, tolerance float64) *Line {
	if tolerance <= 0 {
		tolerance = 5.0
	}
	for _, line := range p.Lines {
		bbox := line.BBox()
		if bbox.Y0-tolerance <= y && y <= bbox.Y1+tolerance {
			return line
		}
	}
	return nil
}

// LineByIndex returns the line at an index, or nil when out of range.
func (p *Paragraph) LineByIndex(index int) *Line {
	if index < 0 || index >= len(p.Lines) {
		return nil
	}
	return p.Lines[index]
}

// AllSpans returns every span of the paragraph in reading order.
func (p *Paragraph) AllSpans() []*model.Span {
	var spans []*model.Span
	for _, line := range p.Lines {
		spans = append(spans, line.Spans...)
	}
	return spans
}

// ParagraphDetectionConfig holds configuration for paragraph detection
type ParagraphDetectionConfig struct {
	// ParagraphGapThreshold is the multiple of the typical line spacing
	// at which a vertical gap starts a new paragraph (default: 1.5)
	ParagraphGapThreshold float64

	// IndentThreshold is the first-line indentation, in points, that
	// starts a new paragraph (default: 10)
	IndentThreshold float64

	// HeadingSizeRatio is the font size ratio over the normal size at
	// which text becomes a heading (default: 1.2)
	HeadingSizeRatio float64

	// Page margins in points, for header, footer and page number
	// detection (default: 72, one inch)
	PageTopMargin    float64
	PageBottomMargin float64
	PageLeftMargin   float64
	PageRightMargin  float64

	// Page dimensions in points (default: 612 x 792, US Letter)
	PageWidth  float64
	PageHeight float64
}

// DefaultParagraphDetectionConfig returns sensible default configuration
func DefaultParagraphDetectionConfig() ParagraphDetectionConfig {
	return ParagraphDetectionConfig{
		ParagraphGapThreshold: 1.5,
		IndentThreshold:       10.0,
		HeadingSizeRatio:      1.2,
		PageTopMargin:         72.0,
		PageBottomMargin:      72.0,
		PageLeftMargin:        72.0,
		PageRightMargin:       72.0,
		PageWidth:             612.0,
		PageHeight:            792.0,
	}
}

// ParagraphDetector groups lines into paragraphs and classifies their
// structural role.
//
// Detection is heuristic: paragraphs are inferred from vertical gaps,
// style changes and first-line indentation, then classified by an ordered
// rule list.
type ParagraphDetector struct {
	config ParagraphDetectionConfig
}

// NewParagraphDetector creates a paragraph detector with default configuration
func NewParagraphDetector() *ParagraphDetector {
	return &ParagraphDetector{
		config: DefaultParagraphDetectionConfig(),
	}
}

// NewParagraphDetectorWithConfig creates a paragraph detector with custom configuration
func NewParagraphDetectorWithConfig(config ParagraphDetectionConfig) *ParagraphDetector {
	return &ParagraphDetector{
		config: config,
	}
}

// Detect groups lines into paragraphs and classifies each one. Lines are
// processed top to bottom; the input slice is not modified.
func (d *ParagraphDetector) Detect(lines []*Line, pageNum int) []*Paragraph {
	if len(lines) == 0 {
		return nil
	}

	sorted := make([]*Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox().Y0 < sorted[j].BBox().Y0
	})

	normalFontSize := d.normalFontSize(sorted)
	typicalSpacing := d.typicalLineSpacing(sorted)

	groups := d.groupLines(sorted, typicalSpacing)

	paragraphs := make([]*Paragraph, 0, len(groups))
	for _, group := range groups {
		p := NewParagraph(group, pageNum)
		d.classify(p, normalFontSize)
		paragraphs = append(paragraphs, p)
	}

	return paragraphs
}

// normalFontSize returns the body text size, the size covering the most
// characters across the lines.
func (d *ParagraphDetector) normalFontSize(lines []*Line) float64 {
	sizes := make(map[float64]int)
	for _, line := range lines {
		size := roundTo(line.DominantFontSize(), 0.1)
		if size > 0 {
			sizes[size] += line.CharCount()
		}
	}

	if len(sizes) == 0 {
		return model.DefaultFontSize
	}
	return maxCountKey(sizes)
}

// typicalLineSpacing returns the median vertical gap between consecutive
// lines, filtering out gaps outside (0, 50) points.
func (d *ParagraphDetector) typicalLineSpacing(lines []*Line) float64 {
	const fallback = 14.0
	if len(lines) < 2 {
		return fallback
	}

	var spacings []float64
	for i := 0; i < len(lines)-1; i++ {
		spacing := lines[i+1].BBox().Y0 - lines[i].BBox().Y1
		if spacing > 0 && spacing < 50 {
			spacings = append(spacings, spacing)
		}
	}

	if len(spacings) == 0 {
		return fallback
	}
	return median(spacings)
}

// groupLines splits the sorted lines into paragraph groups. A new group
// starts at a large vertical gap, a significant style change, or a
// first-line indent.
func (d *ParagraphDetector) groupLines(lines []*Line, typicalSpacing float64) [][]*Line {
	gapThreshold := typicalSpacing * d.config.ParagraphGapThreshold

	var groups [][]*Line
	currentGroup := []*Line{lines[0]}

	for i := 1; i < len(lines); i++ {
		prev := lines[i-1]
		curr := lines[i]

		gap := curr.BBox().Y0 - prev.BBox().Y1

		newParagraph := gap > gapThreshold ||
			d.hasStyleChange(prev, curr) ||
			d.hasFirstLineIndent(prev, curr)

		if newParagraph {
			groups = append(groups, currentGroup)
			currentGroup = []*Line{curr}
		} else {
			currentGroup = append(currentGroup, curr)
		}
	}

	return append(groups, currentGroup)
}

// hasStyleChange reports a font size shift over 20% in either direction,
// or a transition into bold text.
func (d *ParagraphDetector) hasStyleChange(prev, curr *Line) bool {
	prevSize := prev.DominantFontSize()
	currSize := curr.DominantFontSize()

	if prevSize > 0 && currSize > 0 {
		ratio := currSize / prevSize
		if ratio > 1.2 || ratio < 0.8 {
			return true
		}
	}

	return curr.IsBold() && !prev.IsBold()
}

func (d *ParagraphDetector) hasFirstLineIndent(prev, curr *Line) bool {
	return curr.XStart()-prev.XStart() > d.config.IndentThreshold
}

// MergeParagraphs combines two paragraphs into one. The merged paragraph
// keeps the first paragraph's type, list info and heading level.
func MergeParagraphs(first, second *Paragraph) *Paragraph {
	merged := make([]*Line, 0, len(first.Lines)+len(second.Lines))
	merged = append(merged, first.Lines...)
	merged = append(merged, second.Lines...)

	p := NewParagraph(merged, first.PageNum)
	p.Type = first.Type
	p.ListInfo = first.ListInfo
	p.HeadingLevel = first.HeadingLevel
	return p
}

// SplitParagraphAtLine divides a paragraph before the line at lineIndex.
// The first paragraph keeps the original type; the second reverts to
// normal. Returns an error when the index is not interior.
func SplitParagraphAtLine(p *Paragraph, lineIndex int) (*Paragraph, *Paragraph, error) {
	if lineIndex <= 0 || lineIndex >= len(p.Lines) {
		return nil, nil, fmt.Errorf("line index %d out of range (1..%d)", lineIndex, len(p.Lines)-1)
	}

	before := NewParagraph(p.Lines[:lineIndex], p.PageNum)
	before.Type = p.Type
	before.ListInfo = p.ListInfo
	before.HeadingLevel = p.HeadingLevel

	after := NewParagraph(p.Lines[lineIndex:], p.PageNum)

	return before, after, nil
}

// FindParagraphAtPoint returns the first paragraph whose bounding box
// contains the point, or nil.
func FindParagraphAtPoint(paragraphs []*Paragraph, x, y float64) *Paragraph {
	p := model.Point{X: x, Y: y}
	for _, paragraph := range paragraphs {
		if paragraph.BBox().Contains(p) {
			return paragraph
		}
	}
	return nil
}

// FindParagraphsInRegion returns the paragraphs overlapping a region by at
// least minOverlap of their own area. A minOverlap of 0 uses 0.5.
func FindParagraphsInRegion(paragraphs []*Paragraph, region model.BBox, minOverlap float64) []*Paragraph {
	if minOverlap <= 0 {
		minOverlap = 0.5
	}

	var result []*Paragraph
	for _, paragraph := range paragraphs {
		bbox := paragraph.BBox()
		intersection := bbox.Intersection(region)
		if intersection.IsEmpty() || bbox.Area() == 0 {
			continue
		}
		if intersection.Area()/bbox.Area() >= minOverlap {
			result = append(result, paragraph)
		}
	}
	return result
}
