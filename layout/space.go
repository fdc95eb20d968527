package layout

import (
	"sort"
	"strings"

	"github.com/tsawler/reflow/model"
)

// SpaceType classifies a detected space.
type SpaceType int

const (
	// SpaceUnknown is an undetermined space type
	SpaceUnknown SpaceType = iota
	// SpaceReal is an actual U+0020 character
	SpaceReal
	// SpaceVirtual is a positional gap with no character
	SpaceVirtual
	// SpaceTab is a large gap spanning roughly four or more spaces
	SpaceTab
	// SpaceWordSpacing is an adjustment from the word spacing parameter
	SpaceWordSpacing
	// SpaceTJAdjustment is a small positional adjustment below the space
	// threshold
	SpaceTJAdjustment
	// SpaceNBSP is a non-breaking space character U+00A0
	SpaceNBSP
)

// String returns the serialized name of the space type.
func (t SpaceType) String() string {
	switch t {
	case SpaceReal:
		return "real_space"
	case SpaceVirtual:
		return "virtual_space"
	case SpaceTab:
		return "tab"
	case SpaceWordSpacing:
		return "word_spacing"
	case SpaceTJAdjustment:
		return "tj_adjustment"
	case SpaceNBSP:
		return "nbsp"
	default:
		return "unknown"
	}
}

// SpaceInfo describes a single detected space.
type SpaceInfo struct {
	// Type is the detected space type
	Type SpaceType

	// XStart and XEnd bound the space horizontally
	XStart float64
	XEnd   float64

	// Width is the space width in points
	Width float64

	// CharIndex is the character position in the line text, or -1 when
	// the space has no character
	CharIndex int

	// SpanIndex is the index of the span holding the space; for
	// inter-span gaps, the index of the span before the gap
	SpanIndex int

	// InterSpan is true when the space lies between two spans
	InterSpan bool

	// Source records where the space came from ("char", "gap", "tw", "tj")
	Source string
}

// IsReal returns true for spaces backed by an actual character.
func (s SpaceInfo) IsReal() bool {
	return s.Type == SpaceReal || s.Type == SpaceNBSP
}

// IsVirtual returns true for positional gaps with no character.
func (s SpaceInfo) IsVirtual() bool {
	return s.Type == SpaceVirtual || s.Type == SpaceTab || s.Type == SpaceTJAdjustment
}

// IsWordBoundary returns true when this space separates words. Sub-space
// positional adjustments do not break words.
func (s SpaceInfo) IsWordBoundary() bool {
	return s.Width > 0 && s.Type != SpaceTJAdjustment
}

// WordBoundary marks a word separation point in a line.
type WordBoundary struct {
	XPosition  float64
	CharIndex  int
	WordBefore string
	WordAfter  string
	SpaceWidth float64
}

// SpaceAnalysis is the result of analyzing the spaces of one line.
type SpaceAnalysis struct {
	// LineID identifies the analyzed line
	LineID string

	// RealSpaces are spaces backed by space characters
	RealSpaces []SpaceInfo

	// VirtualSpaces are positional gaps without characters
	VirtualSpaces []SpaceInfo

	// ProbableTabs are gaps wide enough to be tab stops
	ProbableTabs []SpaceInfo

	// WordBoundaries are the detected word separation points
	WordBoundaries []WordBoundary

	// TotalSpaceCount is the number of detected spaces of all kinds
	TotalSpaceCount int

	// AverageSpaceWidth is the mean width of the detected spaces
	AverageSpaceWidth float64

	// SpaceVariance is the variance of the space widths
	SpaceVariance float64

	// ConsistentSpacing is true when space widths are similar across the
	// line
	ConsistentSpacing bool
}

// AllSpaces returns every detected space ordered by X position.
func (a *SpaceAnalysis) AllSpaces() []SpaceInfo {
	all := make([]SpaceInfo, 0, len(a.RealSpaces)+len(a.VirtualSpaces)+len(a.ProbableTabs))
	all = append(all, a.RealSpaces...)
	all = append(all, a.VirtualSpaces...)
	all = append(all, a.ProbableTabs...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].XStart < all[j].XStart
	})
	return all
}

// WordCount returns the number of words implied by the boundaries.
func (a *SpaceAnalysis) WordCount() int {
	if len(a.WordBoundaries) == 0 {
		return 1
	}
	return len(a.WordBoundaries) + 1
}

// SpaceMetrics aggregates width measurements over every detected space.
type SpaceMetrics struct {
	TotalSpaces       int
	RealSpaceCount    int
	VirtualSpaceCount int
	TabCount          int
	AvgWidth          float64
	MinWidth          float64
	MaxWidth          float64
	TotalSpaceWidth   float64
	WordCount         int
	ConsistentSpacing bool
}

// Metrics summarizes the analysis. A line without spaces yields zero
// counts and a word count of 1.
func (a *SpaceAnalysis) Metrics() SpaceMetrics {
	metrics := SpaceMetrics{
		TotalSpaces:       a.TotalSpaceCount,
		RealSpaceCount:    len(a.RealSpaces),
		VirtualSpaceCount: len(a.VirtualSpaces),
		TabCount:          len(a.ProbableTabs),
		WordCount:         a.WordCount(),
		ConsistentSpacing: a.ConsistentSpacing,
	}

	all := a.AllSpaces()
	if len(all) == 0 {
		return metrics
	}

	metrics.MinWidth = all[0].Width
	for _, space := range all {
		metrics.TotalSpaceWidth += space.Width
		if space.Width < metrics.MinWidth {
			metrics.MinWidth = space.Width
		}
		if space.Width > metrics.MaxWidth {
			metrics.MaxWidth = space.Width
		}
	}
	metrics.AvgWidth = metrics.TotalSpaceWidth / float64(len(all))
	return metrics
}

// SpaceAtIndex returns the space at a character index, or nil.
func (a *SpaceAnalysis) SpaceAtIndex(charIndex int) *SpaceInfo {
	for _, space := range a.AllSpaces() {
		if space.CharIndex == charIndex {
			s := space
			return &s
		}
	}
	return nil
}

// SpaceAtX returns the space covering an X position within the tolerance,
// or nil.
func (a *SpaceAnalysis) SpaceAtX(x, tolerance float64) *SpaceInfo {
	for _, space := range a.AllSpaces() {
		if space.XStart-tolerance <= x && x <= space.XEnd+tolerance {
			s := space
			return &s
		}
	}
	return nil
}

// SpaceMapperConfig holds configuration for space analysis
type SpaceMapperConfig struct {
	// MinSpaceWidth is the minimum gap width treated as a space, in
	// points (default: 1)
	MinSpaceWidth float64

	// TabThresholdMultiplier is the multiple of the normal space width at
	// which a gap becomes a tab (default: 3.5)
	TabThresholdMultiplier float64

	// DefaultSpaceWidth is used when a space width cannot be estimated
	// from the line (default: 3)
	DefaultSpaceWidth float64

	// ConsistencyTolerance scales the variance threshold for deciding
	// whether spacing is consistent (default: 1.5)
	ConsistencyTolerance float64

	// SpaceFactor is the fraction of the average character width that a
	// normal space occupies (default: 0.3)
	SpaceFactor float64

	// UseWordSpacing adds each span's word spacing to real space widths
	UseWordSpacing bool

	// IncludeTJAdjustments records sub-threshold positive gaps as
	// positional adjustments
	IncludeTJAdjustments bool
}

// DefaultSpaceMapperConfig returns sensible default configuration
func DefaultSpaceMapperConfig() SpaceMapperConfig {
	return SpaceMapperConfig{
		MinSpaceWidth:          1.0,
		TabThresholdMultiplier: 3.5,
		DefaultSpaceWidth:      3.0,
		ConsistencyTolerance:   1.5,
		SpaceFactor:            0.3,
		UseWordSpacing:         true,
		IncludeTJAdjustments:   true,
	}
}

// SpaceMapper analyzes the spaces of a line.
//
// Spaces in extracted text arrive in several forms: real space characters,
// positional gaps between spans, sub-space positional adjustments, and word
// spacing that widens existing space characters. The mapper unifies all of
// these into one view of a line's spacing.
type SpaceMapper struct {
	config SpaceMapperConfig
}

// NewSpaceMapper creates a space mapper with default configuration
func NewSpaceMapper() *SpaceMapper {
	return &SpaceMapper{
		config: DefaultSpaceMapperConfig(),
	}
}

// NewSpaceMapperWithConfig creates a space mapper with custom configuration
func NewSpaceMapperWithConfig(config SpaceMapperConfig) *SpaceMapper {
	return &SpaceMapper{
		config: config,
	}
}

// Analyze examines the spaces of a line, both inside spans and in the gaps
// between them, and returns a detailed analysis.
func (m *SpaceMapper) Analyze(line *Line) *SpaceAnalysis {
	analysis := &SpaceAnalysis{
		LineID:            line.ID,
		ConsistentSpacing: true,
	}

	if len(line.Spans) == 0 {
		return analysis
	}

	charOffset := 0
	for spanIdx, span := range line.Spans {
		for _, space := range m.intraSpanSpaces(span, spanIdx, charOffset) {
			m.categorize(space, analysis)
		}
		charOffset += len([]rune(span.Text))
	}

	for _, space := range m.interSpanGaps(line) {
		m.categorize(space, analysis)
	}

	analysis.WordBoundaries = m.detectWordBoundaries(line, analysis)
	m.calculateStatistics(analysis)

	return analysis
}

// intraSpanSpaces finds space characters inside one span.
func (m *SpaceMapper) intraSpanSpaces(span *model.Span, spanIndex, charOffset int) []SpaceInfo {
	runes := []rune(span.Text)
	if len(runes) == 0 {
		return nil
	}

	avgCharWidth := span.Width() / float64(len(runes))
	if avgCharWidth <= 0 {
		avgCharWidth = m.config.DefaultSpaceWidth
	}

	var spaces []SpaceInfo
	for i, r := range runes {
		var spaceType SpaceType
		switch r {
		case ' ':
			spaceType = SpaceReal
		case ' ':
			spaceType = SpaceNBSP
		case '\t':
			spaceType = SpaceTab
		default:
			continue
		}

		width := avgCharWidth
		if i < len(span.CharWidths) {
			width = span.CharWidths[i]
		}

		switch spaceType {
		case SpaceReal:
			if m.config.UseWordSpacing && span.WordSpacing > 0 {
				width += span.WordSpacing
			}
		case SpaceTab:
			width = avgCharWidth * 4
		}

		xStart := span.BBox.X0 + float64(i)*avgCharWidth

		spaces = append(spaces, SpaceInfo{
			Type:      spaceType,
			XStart:    xStart,
			XEnd:      xStart + width,
			Width:     width,
			CharIndex: charOffset + i,
			SpanIndex: spanIndex,
			Source:    "char",
		})
	}

	return spaces
}

// interSpanGaps finds positional gaps between consecutive spans. Gaps at or
// below zero (overlapping spans) are ignored; positive gaps below the
// minimum space width are recorded as positional adjustments when enabled.
func (m *SpaceMapper) interSpanGaps(line *Line) []SpaceInfo {
	if len(line.Spans) < 2 {
		return nil
	}

	var gaps []SpaceInfo
	charOffset := 0

	for i := 0; i < len(line.Spans)-1; i++ {
		current := line.Spans[i]
		next := line.Spans[i+1]

		gapStart := current.BBox.X1
		gapEnd := next.BBox.X0
		gapWidth := gapEnd - gapStart

		charOffset += len([]rune(current.Text))

		if gapWidth <= 0 {
			continue
		}

		spaceType := m.classifyGap(gapWidth, line)
		if spaceType == SpaceTJAdjustment && !m.config.IncludeTJAdjustments {
			continue
		}

		source := "gap"
		if spaceType == SpaceTJAdjustment {
			source = "tj"
		}

		gaps = append(gaps, SpaceInfo{
			Type:      spaceType,
			XStart:    gapStart,
			XEnd:      gapEnd,
			Width:     gapWidth,
			CharIndex: charOffset,
			SpanIndex: i,
			InterSpan: true,
			Source:    source,
		})
	}

	return gaps
}

// classifyGap classifies a positive gap by its width relative to the line's
// normal space width. Boundary values land in the wider category.
func (m *SpaceMapper) classifyGap(gapWidth float64, line *Line) SpaceType {
	normalSpaceWidth := m.estimateSpaceWidth(line)
	tabThreshold := normalSpaceWidth * m.config.TabThresholdMultiplier

	switch {
	case gapWidth >= tabThreshold:
		return SpaceTab
	case gapWidth >= m.config.MinSpaceWidth:
		return SpaceVirtual
	default:
		return SpaceTJAdjustment
	}
}

// estimateSpaceWidth estimates a normal space width for the line as a
// fraction of the mean character width across its spans.
func (m *SpaceMapper) estimateSpaceWidth(line *Line) float64 {
	totalWidth := 0.0
	totalChars := 0

	for _, span := range line.Spans {
		if span.Text != "" {
			totalWidth += span.Width()
			totalChars += len([]rune(span.Text))
		}
	}

	if totalChars == 0 {
		return m.config.DefaultSpaceWidth
	}

	avgCharWidth := totalWidth / float64(totalChars)
	return avgCharWidth * m.config.SpaceFactor
}

func (m *SpaceMapper) categorize(space SpaceInfo, analysis *SpaceAnalysis) {
	switch {
	case space.Type == SpaceTab:
		analysis.ProbableTabs = append(analysis.ProbableTabs, space)
	case space.IsReal():
		analysis.RealSpaces = append(analysis.RealSpaces, space)
	default:
		analysis.VirtualSpaces = append(analysis.VirtualSpaces, space)
	}
}

// detectWordBoundaries turns word-separating spaces into boundaries with
// the surrounding words attached.
func (m *SpaceMapper) detectWordBoundaries(line *Line, analysis *SpaceAnalysis) []WordBoundary {
	fullText := []rune(line.Text())
	if len(fullText) == 0 {
		return nil
	}

	var boundaries []WordBoundary
	for _, space := range analysis.AllSpaces() {
		if !space.IsWordBoundary() {
			continue
		}
		if space.CharIndex <= 0 || space.CharIndex >= len(fullText) {
			continue
		}

		before := strings.Fields(string(fullText[:space.CharIndex]))
		after := strings.Fields(string(fullText[space.CharIndex:]))

		boundary := WordBoundary{
			XPosition:  space.XStart,
			CharIndex:  space.CharIndex,
			SpaceWidth: space.Width,
		}
		if len(before) > 0 {
			boundary.WordBefore = before[len(before)-1]
		}
		if len(after) > 0 {
			boundary.WordAfter = after[0]
		}

		boundaries = append(boundaries, boundary)
	}

	return boundaries
}

// calculateStatistics fills in the analysis's aggregate spacing metrics.
func (m *SpaceMapper) calculateStatistics(analysis *SpaceAnalysis) {
	all := analysis.AllSpaces()
	analysis.TotalSpaceCount = len(all)

	if len(all) == 0 {
		return
	}

	var widths []float64
	for _, s := range all {
		if s.Width > 0 {
			widths = append(widths, s.Width)
		}
	}
	if len(widths) == 0 {
		return
	}

	analysis.AverageSpaceWidth = mean(widths)

	if len(widths) > 1 {
		analysis.SpaceVariance = variance(widths)
		limit := analysis.AverageSpaceWidth * m.config.ConsistencyTolerance
		analysis.ConsistentSpacing = analysis.SpaceVariance < limit*limit
	} else {
		analysis.SpaceVariance = 0
		analysis.ConsistentSpacing = true
	}
}

// ReconstructWithSpaces rebuilds a line's text, converting inter-span gaps
// into spaces. Tab-sized gaps become four spaces when normalize is true, a
// tab character otherwise. Normalizing also collapses runs of spaces.
func (m *SpaceMapper) ReconstructWithSpaces(line *Line, normalize bool) string {
	if len(line.Spans) == 0 {
		return ""
	}

	analysis := m.Analyze(line)
	all := analysis.AllSpaces()

	var sb strings.Builder
	for i, span := range line.Spans {
		sb.WriteString(span.Text)

		for _, space := range all {
			if !space.InterSpan || space.SpanIndex != i {
				continue
			}
			if space.Type == SpaceTab {
				if normalize {
					sb.WriteString("    ")
				} else {
					sb.WriteString("\t")
				}
			} else {
				sb.WriteString(" ")
			}
		}
	}

	result := sb.String()
	if normalize {
		for strings.Contains(result, "  ") {
			result = strings.ReplaceAll(result, "  ", " ")
		}
	}

	return result
}

// SpaceInstruction tells an editor how to keep one original space when the
// line's text is replaced.
type SpaceInstruction struct {
	// OriginalIndex is the space's character index in the original text
	OriginalIndex int

	// NewIndex is the corresponding position in the replacement text,
	// scaled by the length ratio and clamped to the text bounds
	NewIndex int

	// Type is the original space type
	Type SpaceType

	// OriginalWidth is the original space width in points
	OriginalWidth float64

	// PreserveWidth is true when the exact width should be kept, as for
	// tab stops
	PreserveWidth bool
}

// PreserveSpacingForEdit maps the spaces of a line onto replacement text so
// an editor can keep the original spacing structure. Positions scale with
// the ratio of the new and old text lengths.
func (m *SpaceMapper) PreserveSpacingForEdit(line *Line, newText string) []SpaceInstruction {
	originalText := line.Text()
	if originalText == "" || newText == "" {
		return nil
	}

	analysis := m.Analyze(line)
	lengthRatio := float64(len([]rune(newText))) / float64(len([]rune(originalText)))
	maxIndex := len([]rune(newText)) - 1

	var instructions []SpaceInstruction
	for _, space := range analysis.AllSpaces() {
		if space.CharIndex < 0 {
			continue
		}

		newIndex := int(float64(space.CharIndex) * lengthRatio)
		if newIndex > maxIndex {
			newIndex = maxIndex
		}
		if newIndex < 0 {
			newIndex = 0
		}

		instructions = append(instructions, SpaceInstruction{
			OriginalIndex: space.CharIndex,
			NewIndex:      newIndex,
			Type:          space.Type,
			OriginalWidth: space.Width,
			PreserveWidth: space.Type == SpaceTab,
		})
	}

	return instructions
}

// TextFit describes whether a piece of text fits in a given width.
type TextFit struct {
	Fits            bool
	EstimatedWidth  float64
	AvailableWidth  float64
	Overflow        float64
	Utilization     float64
	CharsThatFit    int
	OriginalLength  int
	NeedsTruncation bool
}

// CalculateTextFit estimates whether text fits into an available width
// using a mean character width. An avgCharWidth of 0 uses 7 points.
func (m *SpaceMapper) CalculateTextFit(availableWidth float64, text string, avgCharWidth float64) TextFit {
	if avgCharWidth <= 0 {
		avgCharWidth = 7.0
	}

	length := len([]rune(text))
	estimatedWidth := float64(length) * avgCharWidth

	fit := TextFit{
		Fits:           estimatedWidth <= availableWidth,
		EstimatedWidth: estimatedWidth,
		AvailableWidth: availableWidth,
		OriginalLength: length,
	}
	fit.NeedsTruncation = !fit.Fits

	if estimatedWidth > availableWidth {
		fit.Overflow = estimatedWidth - availableWidth
	}
	if availableWidth > 0 {
		fit.Utilization = estimatedWidth / availableWidth
	}
	fit.CharsThatFit = int(availableWidth / avgCharWidth)

	return fit
}

// SuggestLineBreaks proposes character indexes at which to wrap text so
// each piece fits in maxWidth. Breaks prefer the last space before the
// limit and fall back to a hard cut when a word is too long. An
// avgCharWidth of 0 uses 7 points.
func (m *SpaceMapper) SuggestLineBreaks(text string, maxWidth, avgCharWidth float64) []int {
	if text == "" {
		return nil
	}
	if avgCharWidth <= 0 {
		avgCharWidth = 7.0
	}

	charsPerLine := int(maxWidth / avgCharWidth)
	if charsPerLine <= 0 {
		charsPerLine = 80
	}

	runes := []rune(text)
	if len(runes) <= charsPerLine {
		return nil
	}

	var breaks []int
	currentPos := 0

	for currentPos < len(runes) {
		endPos := currentPos + charsPerLine
		if endPos >= len(runes) {
			break
		}

		breakPos := lastSpaceBefore(runes, currentPos, endPos)
		if breakPos <= currentPos {
			breakPos = endPos
		}

		breaks = append(breaks, breakPos)
		currentPos = breakPos + 1
	}

	return breaks
}

// lastSpaceBefore returns the index of the last space in runes[start:end),
// or -1 when there is none.
func lastSpaceBefore(runes []rune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

// CharExtent is the horizontal extent of one character.
type CharExtent struct {
	XStart float64
	XEnd   float64
}

// EstimateCharPositions estimates the horizontal extent of each character
// in a span. Real per-character widths are used when they cover the whole
// text; otherwise characters are assumed uniform.
func EstimateCharPositions(span *model.Span) []CharExtent {
	runes := []rune(span.Text)
	if len(runes) == 0 {
		return nil
	}

	positions := make([]CharExtent, 0, len(runes))
	x := span.BBox.X0

	if len(span.CharWidths) == len(runes) {
		for _, width := range span.CharWidths {
			positions = append(positions, CharExtent{XStart: x, XEnd: x + width})
			x += width
		}
		return positions
	}

	avgWidth := span.Width() / float64(len(runes))
	for range runes {
		positions = append(positions, CharExtent{XStart: x, XEnd: x + avgWidth})
		x += avgWidth
	}
	return positions
}

// FindCharAtX returns the index of the character at an X position within a
// span, or -1 when no character covers it within the tolerance.
func FindCharAtX(span *model.Span, x, tolerance float64) int {
	for i, pos := range EstimateCharPositions(span) {
		if pos.XStart-tolerance <= x && x <= pos.XEnd+tolerance {
			return i
		}
	}
	return -1
}
