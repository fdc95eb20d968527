package reflow

import (
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/reflow/hittest"
	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
)

// stubSource serves fixed glyph runs as a one-page document.
type stubSource struct {
	pages [][]model.GlyphRun
}

func (s *stubSource) PageCount() int {
	return len(s.pages)
}

func (s *stubSource) GlyphRuns(pageNum int) ([]model.GlyphRun, error) {
	return s.pages[pageNum], nil
}

func makeTestSpan(txt string, x0, y0, size float64, bold bool) *model.Span {
	width := float64(len(txt)) * size * 0.5
	font := "Helvetica"
	flag := model.FlagNo
	if bold {
		font = "Helvetica-Bold"
		flag = model.FlagYes
	}
	return model.NewSpan(model.Span{
		Text:     txt,
		Font:     font,
		Size:     size,
		Bold:     flag,
		BBox:     model.BBox{X0: x0, Y0: y0, X1: x0 + width, Y1: y0 + size},
		Baseline: y0 + size,
	})
}

// testPageSpans builds one page: a large bold title plus two body lines.
func testPageSpans() []*model.Span {
	return []*model.Span{
		makeTestSpan("Title", 72, 100, 24, true),
		makeTestSpan("Body one", 72, 140, 12, false),
		makeTestSpan("Body two", 72, 154, 12, false),
	}
}

func testPageRuns() []model.GlyphRun {
	var runs []model.GlyphRun
	for _, s := range testPageSpans() {
		runs = append(runs, model.GlyphRun{
			Text: s.Text,
			Font: s.Font,
			Size: s.Size,
			BBox: s.BBox,
		})
	}
	return runs
}

func TestAnalyzeSpans(t *testing.T) {
	analysis := New().AnalyzeSpans(testPageSpans(), 0)

	if len(analysis.Lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(analysis.Lines))
	}
	if len(analysis.Paragraphs) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %d", len(analysis.Paragraphs))
	}
	if analysis.Paragraphs[0].Type != layout.ParagraphHeading {
		t.Errorf("Expected heading first, got %v", analysis.Paragraphs[0].Type)
	}
	if analysis.Paragraphs[1].Type != layout.ParagraphNormal {
		t.Errorf("Expected normal body, got %v", analysis.Paragraphs[1].Type)
	}
	if analysis.LineStats.LineCount != 3 {
		t.Errorf("Expected line stats over 3 lines, got %d", analysis.LineStats.LineCount)
	}
	if analysis.ParagraphStats.Count != 2 {
		t.Errorf("Expected paragraph stats over 2 paragraphs, got %d", analysis.ParagraphStats.Count)
	}
}

func TestPageAnalysis_Text(t *testing.T) {
	analysis := New().AnalyzeSpans(testPageSpans(), 0)
	text := analysis.Text()

	if !strings.HasPrefix(text, "Title") {
		t.Errorf("Expected text to start with title, got %q", text)
	}
	if !strings.Contains(text, "\n\n") {
		t.Error("Expected blank line between paragraphs")
	}
	if !strings.Contains(text, "Body one") {
		t.Errorf("Expected body text, got %q", text)
	}
}

func TestPageAnalysis_Headings(t *testing.T) {
	analysis := New().AnalyzeSpans(testPageSpans(), 0)

	headings := analysis.Headings()
	if len(headings) != 1 {
		t.Fatalf("Expected 1 heading, got %d", len(headings))
	}
	if headings[0].Text() != "Title" {
		t.Errorf("Expected Title, got %q", headings[0].Text())
	}
	if len(analysis.ListItems()) != 0 {
		t.Error("Expected no list items")
	}
}

func TestAnalyzer_GroupSpans(t *testing.T) {
	a := New()
	lines := a.GroupSpans(testPageSpans())
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[0].Text() != "Title" {
		t.Errorf("Expected baseline order, got %q first", lines[0].Text())
	}
}

func TestAnalyzer_Spaces(t *testing.T) {
	a := New()
	line := layout.NewLine([]*model.Span{
		makeTestSpan("Hello", 72, 100, 12, false),
		makeTestSpan("world", 140, 100, 12, false),
	}, 0)

	analysis := a.Spaces(line)
	if analysis == nil {
		t.Fatal("Expected space analysis")
	}
	if analysis.TotalSpaceCount == 0 {
		t.Error("Expected a detected space between the spans")
	}
}

func TestAnalyzer_WithLineConfig(t *testing.T) {
	cfg := layout.DefaultLineGroupingConfig()
	cfg.BaselineTolerance = 60.0

	// With a huge tolerance all three baselines merge into one line.
	lines := New(WithLineConfig(cfg)).GroupSpans(testPageSpans())
	if len(lines) != 1 {
		t.Errorf("Expected 1 merged line, got %d", len(lines))
	}
}

func TestAnalyzer_PageOperations(t *testing.T) {
	source := &stubSource{pages: [][]model.GlyphRun{testPageRuns()}}
	a := From(source)

	spans, err := a.Spans(0)
	if err != nil {
		t.Fatalf("Spans failed: %v", err)
	}
	if len(spans) != 3 {
		t.Errorf("Expected 3 spans, got %d", len(spans))
	}

	lines, err := a.Lines(0)
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(lines))
	}

	paragraphs, err := a.Paragraphs(0)
	if err != nil {
		t.Fatalf("Paragraphs failed: %v", err)
	}
	if len(paragraphs) != 2 {
		t.Errorf("Expected 2 paragraphs, got %d", len(paragraphs))
	}

	text, err := a.Text(0)
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if text != "Title\nBody one\nBody two" {
		t.Errorf("Unexpected page text: %q", text)
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	source := &stubSource{pages: [][]model.GlyphRun{testPageRuns()}}
	analysis, err := From(source).Analyze(0)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if analysis.PageNum != 0 {
		t.Errorf("Expected page 0, got %d", analysis.PageNum)
	}
	if len(analysis.Paragraphs) != 2 {
		t.Errorf("Expected 2 paragraphs, got %d", len(analysis.Paragraphs))
	}
}

func TestAnalyzer_HitTest(t *testing.T) {
	source := &stubSource{pages: [][]model.GlyphRun{testPageRuns()}}
	a := From(source)

	hit := a.HitTest(0, 80, 146)
	if !hit.Found() {
		t.Fatal("Expected a hit inside the body span")
	}
	if hit.Span == nil || hit.Span.Text != "Body one" {
		t.Errorf("Expected Body one span, got %+v", hit.Span)
	}

	miss := a.HitTest(0, 500, 700)
	if miss.Found() {
		t.Error("Expected a miss far from any text")
	}
}

func TestAnalyzer_NoSource(t *testing.T) {
	a := New()
	if _, err := a.Lines(0); !errors.Is(err, hittest.ErrNoDocument) {
		t.Errorf("Expected ErrNoDocument, got %v", err)
	}
	if _, err := a.Text(0); !errors.Is(err, hittest.ErrNoDocument) {
		t.Errorf("Expected ErrNoDocument, got %v", err)
	}
}

func TestAnalyzer_PageOutOfRange(t *testing.T) {
	source := &stubSource{pages: [][]model.GlyphRun{testPageRuns()}}
	a := From(source)
	if _, err := a.Lines(5); err == nil {
		t.Error("Expected error for out-of-range page")
	}
}

func TestAnalyzer_SetSource(t *testing.T) {
	a := New()
	a.SetSource(&stubSource{pages: [][]model.GlyphRun{testPageRuns()}})
	lines, err := a.Lines(0)
	if err != nil {
		t.Fatalf("Lines failed after SetSource: %v", err)
	}
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(lines))
	}
}

func TestGroupLines(t *testing.T) {
	lines := GroupLines(testPageSpans())
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(lines))
	}
}

func TestDetectParagraphs(t *testing.T) {
	paragraphs := DetectParagraphs(testPageSpans())
	if len(paragraphs) != 2 {
		t.Errorf("Expected 2 paragraphs, got %d", len(paragraphs))
	}
	if DetectParagraphs(nil) != nil {
		t.Error("Expected nil for empty input")
	}
}

func TestMust(t *testing.T) {
	if Must(42, nil) != 42 {
		t.Error("Expected value passthrough")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}
