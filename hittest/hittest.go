package hittest

import (
	"errors"
	"math"
	"strings"

	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
)

// ErrNoDocument is recorded on a page cache when no source is attached.
var ErrNoDocument = errors.New("hittest: no source document")

// DefaultTolerance is the hit-test search tolerance in points.
const DefaultTolerance = 5.0

// Source is the extraction backend contract. A source reports how many
// pages it holds and produces the glyph runs of one page.
type Source interface {
	PageCount() int
	GlyphRuns(pageNum int) ([]model.GlyphRun, error)
}

// HitType classifies a hit-test result.
type HitType int

const (
	// HitNone means nothing was found at the point
	HitNone HitType = iota
	// HitSpan means a span was found but no specific character
	HitSpan
	// HitLine means a line was found but no span under the X position
	HitLine
	// HitGap means the point lies between two spans of a line
	HitGap
	// HitCharacter means a specific character was resolved
	HitCharacter
)

// String returns the serialized name of the hit type.
func (t HitType) String() string {
	switch t {
	case HitSpan:
		return "span"
	case HitLine:
		return "line"
	case HitGap:
		return "gap"
	case HitCharacter:
		return "character"
	default:
		return "none"
	}
}

// Result describes what a point query found.
type Result struct {
	// Type is the kind of hit
	Type HitType

	// Span is the span under the point, when resolved
	Span *model.Span

	// Line is the line under the point, when resolved
	Line *layout.Line

	// CharIndex is the character index within Span for character hits,
	// -1 otherwise
	CharIndex int

	// Point is the queried position
	Point model.Point

	// BBox is the bounding box of the found element
	BBox model.BBox

	// Distance is the distance from the point to the found element
	Distance float64

	// PrevSpanID and NextSpanID identify the spans around an inter-span
	// gap hit
	PrevSpanID string
	NextSpanID string
}

// Found returns true when the query hit something.
func (r Result) Found() bool {
	return r.Type != HitNone
}

// Text returns the text of the found element, preferring the span.
func (r Result) Text() string {
	if r.Span != nil {
		return r.Span.Text
	}
	if r.Line != nil {
		return r.Line.Text()
	}
	return ""
}

// CharText returns the specific character of a character hit, or "".
func (r Result) CharText() string {
	if r.Span == nil || r.CharIndex < 0 {
		return ""
	}
	runes := []rune(r.Span.Text)
	if r.CharIndex >= len(runes) {
		return ""
	}
	return string(runes[r.CharIndex])
}

// HitTester answers point and rectangle queries against a document's text,
// caching each page's spans and lines on first use.
type HitTester struct {
	source  Source
	grouper *layout.LineGrouper
	caches  map[int]*PageCache
}

// NewHitTester creates a hit tester over a source. A nil source is allowed;
// queries return empty results until one is attached.
func NewHitTester(source Source) *HitTester {
	return NewHitTesterWithGrouper(source, nil)
}

// NewHitTesterWithGrouper creates a hit tester that groups extracted spans
// with the given grouper. A nil grouper uses the default configuration.
func NewHitTesterWithGrouper(source Source, grouper *layout.LineGrouper) *HitTester {
	if grouper == nil {
		grouper = layout.NewLineGrouper()
	}
	return &HitTester{
		source:  source,
		grouper: grouper,
		caches:  make(map[int]*PageCache),
	}
}

// SetSource swaps the backing document. The entire cache is cleared when
// the source changes.
func (t *HitTester) SetSource(source Source) {
	if t.source != source {
		t.ClearCache()
	}
	t.source = source
}

// ClearCache drops every page cache.
func (t *HitTester) ClearCache() {
	for _, cache := range t.caches {
		cache.clear()
	}
	t.caches = make(map[int]*PageCache)
}

// InvalidatePage drops one page's cache without touching others. Call when
// a page's content changes.
func (t *HitTester) InvalidatePage(pageNum int) {
	if cache, ok := t.caches[pageNum]; ok {
		cache.clear()
	}
}

// EnsurePageCached returns the page's cache, extracting and grouping the
// page text when the cache is absent or invalid. Extraction failures mark
// the cache invalid and record the error instead of propagating.
func (t *HitTester) EnsurePageCached(pageNum int) *PageCache {
	cache, ok := t.caches[pageNum]
	if !ok {
		cache = &PageCache{PageNum: pageNum}
		t.caches[pageNum] = cache
	}

	if !cache.valid {
		t.extractPage(pageNum, cache)
	}

	return cache
}

func (t *HitTester) extractPage(pageNum int, cache *PageCache) {
	if t.source == nil {
		cache.Err = ErrNoDocument
		return
	}

	if pageNum < 0 || pageNum >= t.source.PageCount() {
		return
	}

	runs, err := t.source.GlyphRuns(pageNum)
	if err != nil {
		cache.valid = false
		cache.Err = err
		return
	}

	cache.Spans = cache.Spans[:0]
	for _, run := range runs {
		if strings.TrimSpace(run.Text) == "" {
			continue
		}
		cache.Spans = append(cache.Spans, model.NewSpanFromGlyphRun(run, pageNum))
	}

	cache.Lines = t.grouper.Group(cache.Spans)
	cache.buildIndex()
	cache.valid = true
	cache.Err = nil
}

// HitTest resolves the point (x, y) on a page to the text structure under
// it. A tolerance of 0 uses DefaultTolerance. Candidates are gathered
// within twice the tolerance of y; the nearest line wins, then the span
// under x, then the character when per-character metrics allow.
func (t *HitTester) HitTest(pageNum int, x, y, tolerance float64) Result {
	result := Result{
		Point:     model.Point{X: x, Y: y},
		CharIndex: -1,
		Distance:  math.Inf(1),
	}

	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	cache := t.EnsurePageCached(pageNum)
	if !cache.valid || len(cache.Lines) == 0 {
		return result
	}

	candidates := cache.LinesNearY(y, tolerance*2)
	if len(candidates) == 0 {
		if line := layout.FindLineAtPoint(cache.Lines, x, y, tolerance); line != nil {
			candidates = []*layout.Line{line}
		}
	}
	if len(candidates) == 0 {
		return result
	}

	var best *layout.Line
	bestDistance := math.Inf(1)
	for _, line := range candidates {
		dist := line.BBox().DistanceToPoint(model.Point{X: x, Y: y})
		if dist < bestDistance {
			bestDistance = dist
			best = line
		}
	}

	if best == nil || bestDistance > tolerance*2 {
		return result
	}

	result.Line = best
	result.BBox = best.BBox()
	result.Distance = bestDistance
	result.Type = HitLine

	span := best.FindSpanAtX(x)
	if span == nil {
		if prev, next := gapNeighbors(best, x); prev != nil {
			result.Type = HitGap
			result.PrevSpanID = prev.ID
			result.NextSpanID = next.ID
		}
		return result
	}

	result.Span = span
	result.BBox = span.BBox
	result.Type = HitSpan

	if span.BBox.Y0-tolerance <= y && y <= span.BBox.Y1+tolerance {
		if _, charIndex := best.FindCharAtX(x); charIndex >= 0 {
			result.CharIndex = charIndex
			result.Type = HitCharacter
		}
	}

	return result
}

// gapNeighbors returns the spans around x when x falls strictly between two
// consecutive spans of the line.
func gapNeighbors(line *layout.Line, x float64) (*model.Span, *model.Span) {
	for i := 0; i < len(line.Spans)-1; i++ {
		if line.Spans[i].BBox.X1 < x && x < line.Spans[i+1].BBox.X0 {
			return line.Spans[i], line.Spans[i+1]
		}
	}
	return nil, nil
}

// SpansInRect returns every span on the page strictly overlapping the
// rectangle, in extraction order.
func (t *HitTester) SpansInRect(pageNum int, rect model.BBox) []*model.Span {
	cache := t.EnsurePageCached(pageNum)
	if !cache.valid {
		return nil
	}

	indexes := cache.spansInRect(rect)
	spans := make([]*model.Span, 0, len(indexes))
	for _, i := range indexes {
		spans = append(spans, cache.Spans[i])
	}
	return spans
}

// LinesInRect returns every line on the page strictly overlapping the
// rectangle, ordered top to bottom.
func (t *HitTester) LinesInRect(pageNum int, rect model.BBox) []*layout.Line {
	cache := t.EnsurePageCached(pageNum)
	if !cache.valid {
		return nil
	}

	indexes := cache.linesInRect(rect)
	lines := make([]*layout.Line, 0, len(indexes))
	for _, i := range indexes {
		lines = append(lines, cache.Lines[i])
	}
	return lines
}

// SpanByID returns the span with the given ID on a page, or nil.
func (t *HitTester) SpanByID(pageNum int, spanID string) *model.Span {
	cache := t.EnsurePageCached(pageNum)
	if !cache.valid {
		return nil
	}

	for _, span := range cache.Spans {
		if span.ID == spanID {
			return span
		}
	}
	return nil
}

// LineByID returns the line with the given ID on a page, or nil.
func (t *HitTester) LineByID(pageNum int, lineID string) *layout.Line {
	cache := t.EnsurePageCached(pageNum)
	if !cache.valid {
		return nil
	}

	for _, line := range cache.Lines {
		if line.ID == lineID {
			return line
		}
	}
	return nil
}

// AllSpans returns the page's spans in extraction order.
func (t *HitTester) AllSpans(pageNum int) []*model.Span {
	cache := t.EnsurePageCached(pageNum)
	if !cache.valid {
		return nil
	}
	return cache.Spans
}

// AllLines returns the page's lines sorted by baseline.
func (t *HitTester) AllLines(pageNum int) []*layout.Line {
	cache := t.EnsurePageCached(pageNum)
	if !cache.valid {
		return nil
	}
	return cache.Lines
}

// PageText returns the page's text with lines joined by newlines.
func (t *HitTester) PageText(pageNum int) string {
	lines := t.AllLines(pageNum)
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = line.Text()
	}
	return strings.Join(parts, "\n")
}

// FindNearestSpan returns the span whose center is nearest to (x, y)
// within maxDistance, or nil. A maxDistance of 0 uses 50 points.
func (t *HitTester) FindNearestSpan(pageNum int, x, y, maxDistance float64) *model.Span {
	if maxDistance <= 0 {
		maxDistance = 50.0
	}

	cache := t.EnsurePageCached(pageNum)
	if !cache.valid {
		return nil
	}

	var best *model.Span
	bestDist := maxDistance

	for _, span := range cache.Spans {
		center := span.Center()
		dx := x - center.X
		dy := y - center.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < bestDist {
			bestDist = dist
			best = span
		}
	}

	return best
}
