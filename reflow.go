// Package reflow reconstructs text structure from positioned glyph runs:
// spans group into lines, lines into classified paragraphs, and a spatial
// index answers point and rectangle queries against the result.
//
// Basic usage over raw spans:
//
//	analysis := reflow.New().AnalyzeSpans(spans, 0)
//	for _, p := range analysis.Paragraphs {
//	    fmt.Println(p.Type, p.Text())
//	}
//
// Over an extraction backend:
//
//	a := reflow.From(source)
//	text, err := a.Text(0)
//	hit := a.HitTest(0, 120, 340)
//
// With options:
//
//	cfg := layout.DefaultLineGroupingConfig()
//	cfg.BaselineTolerance = 5.0
//	a := reflow.New(reflow.WithLineConfig(cfg))
//
// The lower-level layout, model, and hittest packages remain available for
// finer control.
package reflow

import (
	"fmt"
	"strings"

	"github.com/tsawler/reflow/hittest"
	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
)

// Analyzer bundles the line grouper, paragraph detector, space mapper, and
// hit tester under one configuration. The zero-value constructors on the
// individual packages stay usable on their own; Analyzer just wires them
// together.
//
// An Analyzer is not safe for concurrent use.
type Analyzer struct {
	cfg      config
	grouper  *layout.LineGrouper
	detector *layout.ParagraphDetector
	mapper   *layout.SpaceMapper
	tester   *hittest.HitTester
}

// New creates an Analyzer without a backing document. Span-level operations
// (GroupSpans, DetectParagraphs, AnalyzeSpans) work immediately; page
// operations return hittest.ErrNoDocument until SetSource is called.
func New(opts ...Option) *Analyzer {
	return From(nil, opts...)
}

// From creates an Analyzer over an extraction backend.
func From(source hittest.Source, opts ...Option) *Analyzer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	grouper := layout.NewLineGrouperWithConfig(cfg.line)
	return &Analyzer{
		cfg:      cfg,
		grouper:  grouper,
		detector: layout.NewParagraphDetectorWithConfig(cfg.paragraph),
		mapper:   layout.NewSpaceMapperWithConfig(cfg.space),
		tester:   hittest.NewHitTesterWithGrouper(source, grouper),
	}
}

// SetSource swaps the backing document. Cached pages are dropped when the
// source changes.
func (a *Analyzer) SetSource(source hittest.Source) {
	a.tester.SetSource(source)
}

// HitTester exposes the underlying hit tester for queries this package does
// not wrap, such as rectangle searches and ID lookups.
func (a *Analyzer) HitTester() *hittest.HitTester {
	return a.tester
}

// GroupSpans groups spans into lines using the configured grouper.
func (a *Analyzer) GroupSpans(spans []*model.Span) []*layout.Line {
	return a.grouper.Group(spans)
}

// DetectParagraphs groups lines into classified paragraphs.
func (a *Analyzer) DetectParagraphs(lines []*layout.Line, pageNum int) []*layout.Paragraph {
	return a.detector.Detect(lines, pageNum)
}

// Spaces analyzes the inter-character and inter-span spacing of a line.
func (a *Analyzer) Spaces(line *layout.Line) *layout.SpaceAnalysis {
	return a.mapper.Analyze(line)
}

// AnalyzeSpans runs the full pipeline over raw spans: line grouping,
// paragraph detection, and statistics.
func (a *Analyzer) AnalyzeSpans(spans []*model.Span, pageNum int) *PageAnalysis {
	lines := a.grouper.Group(spans)
	paragraphs := a.detector.Detect(lines, pageNum)
	return &PageAnalysis{
		PageNum:        pageNum,
		Spans:          spans,
		Lines:          lines,
		Paragraphs:     paragraphs,
		LineStats:      layout.CalculateLineStatistics(lines),
		ParagraphStats: layout.CalculateParagraphStatistics(paragraphs),
	}
}

// page returns the page's cache, converting cache failures to errors.
func (a *Analyzer) page(pageNum int) (*hittest.PageCache, error) {
	cache := a.tester.EnsurePageCached(pageNum)
	if !cache.Valid() {
		if cache.Err != nil {
			return nil, cache.Err
		}
		return nil, fmt.Errorf("page %d out of range", pageNum)
	}
	return cache, nil
}

// Spans returns the extracted spans of a page in extraction order.
func (a *Analyzer) Spans(pageNum int) ([]*model.Span, error) {
	cache, err := a.page(pageNum)
	if err != nil {
		return nil, err
	}
	return cache.Spans, nil
}

// Lines returns the grouped lines of a page, sorted by baseline.
func (a *Analyzer) Lines(pageNum int) ([]*layout.Line, error) {
	cache, err := a.page(pageNum)
	if err != nil {
		return nil, err
	}
	return cache.Lines, nil
}

// Paragraphs returns the classified paragraphs of a page.
func (a *Analyzer) Paragraphs(pageNum int) ([]*layout.Paragraph, error) {
	cache, err := a.page(pageNum)
	if err != nil {
		return nil, err
	}
	return a.detector.Detect(cache.Lines, pageNum), nil
}

// Text returns the page's text with one line per grouped line.
func (a *Analyzer) Text(pageNum int) (string, error) {
	cache, err := a.page(pageNum)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(cache.Lines))
	for _, line := range cache.Lines {
		parts = append(parts, line.Text())
	}
	return strings.Join(parts, "\n"), nil
}

// Analyze runs the full pipeline over one page of the backing document.
func (a *Analyzer) Analyze(pageNum int) (*PageAnalysis, error) {
	cache, err := a.page(pageNum)
	if err != nil {
		return nil, err
	}
	paragraphs := a.detector.Detect(cache.Lines, pageNum)
	return &PageAnalysis{
		PageNum:        pageNum,
		Spans:          cache.Spans,
		Lines:          cache.Lines,
		Paragraphs:     paragraphs,
		LineStats:      layout.CalculateLineStatistics(cache.Lines),
		ParagraphStats: layout.CalculateParagraphStatistics(paragraphs),
	}, nil
}

// HitTest resolves a point on a page using the configured tolerance.
func (a *Analyzer) HitTest(pageNum int, x, y float64) hittest.Result {
	return a.tester.HitTest(pageNum, x, y, a.cfg.tolerance)
}

// PageAnalysis is the result of analyzing one page.
type PageAnalysis struct {
	PageNum        int
	Spans          []*model.Span
	Lines          []*layout.Line
	Paragraphs     []*layout.Paragraph
	LineStats      layout.LineStatistics
	ParagraphStats layout.ParagraphStatistics
}

// Text returns the page text with paragraphs separated by blank lines.
func (pa *PageAnalysis) Text() string {
	parts := make([]string, 0, len(pa.Paragraphs))
	for _, p := range pa.Paragraphs {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n\n")
}

// Headings returns the page's heading paragraphs in reading order.
func (pa *PageAnalysis) Headings() []*layout.Paragraph {
	var headings []*layout.Paragraph
	for _, p := range pa.Paragraphs {
		if p.IsHeading() {
			headings = append(headings, p)
		}
	}
	return headings
}

// ListItems returns the page's list item paragraphs in reading order.
func (pa *PageAnalysis) ListItems() []*layout.Paragraph {
	var items []*layout.Paragraph
	for _, p := range pa.Paragraphs {
		if p.IsListItem() {
			items = append(items, p)
		}
	}
	return items
}

// GroupLines groups spans into lines with the default configuration.
func GroupLines(spans []*model.Span) []*layout.Line {
	return layout.NewLineGrouper().Group(spans)
}

// DetectParagraphs groups spans into classified paragraphs with the default
// configuration. The page number comes from the first span.
func DetectParagraphs(spans []*model.Span) []*layout.Paragraph {
	if len(spans) == 0 {
		return nil
	}
	lines := layout.NewLineGrouper().Group(spans)
	return layout.NewParagraphDetector().Detect(lines, spans[0].PageNum)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
