package layout

import (
	"testing"

	"github.com/tsawler/reflow/model"
	"github.com/tsawler/reflow/text"
)

// makeSpan creates a test span at the given position. The baseline sits on
// the bottom edge of the box.
func makeSpan(txt string, x0, y0, x1, y1 float64) *model.Span {
	return model.NewSpan(model.Span{
		Text:     txt,
		BBox:     model.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
		Baseline: y1,
	})
}

func TestNewLine_SortsSpansByX(t *testing.T) {
	spans := []*model.Span{
		makeSpan("World", 70, 100, 120, 112),
		makeSpan("Hello", 10, 100, 60, 112),
	}

	line := NewLine(spans, 0)

	if line.Spans[0].Text != "Hello" {
		t.Errorf("Expected first span 'Hello', got '%s'", line.Spans[0].Text)
	}

	if line.Text() != "Hello World" {
		t.Errorf("Expected 'Hello World', got '%s'", line.Text())
	}
}

func TestNewLine_BaselineIsMean(t *testing.T) {
	spans := []*model.Span{
		makeSpan("a", 10, 100, 20, 110),
		makeSpan("b", 30, 100, 40, 112),
	}

	line := NewLine(spans, 0)

	if line.Baseline != 111 {
		t.Errorf("Expected baseline 111, got %f", line.Baseline)
	}
}

func TestNewLine_DeterministicID(t *testing.T) {
	a := NewLine([]*model.Span{makeSpan("Hello", 10, 100, 60, 112)}, 0)
	b := NewLine([]*model.Span{makeSpan("Hello", 10, 100, 60, 112)}, 0)
	c := NewLine([]*model.Span{makeSpan("Hello", 10, 100, 60, 112)}, 1)

	if a.ID != b.ID {
		t.Errorf("Identical lines should share an ID: %s vs %s", a.ID, b.ID)
	}

	if a.ID == c.ID {
		t.Error("Lines on different pages should get different IDs")
	}
}

func TestLine_Text_GapBelowThreshold(t *testing.T) {
	// "Hel" and "lo" nearly touching: gap 1pt, avg char width 10pt
	spans := []*model.Span{
		makeSpan("Hel", 10, 100, 40, 112),
		makeSpan("lo", 41, 100, 61, 112),
	}

	line := NewLine(spans, 0)

	if line.Text() != "Hello" {
		t.Errorf("Expected 'Hello', got '%s'", line.Text())
	}
}

func TestLine_Text_OverlappingSpans(t *testing.T) {
	spans := []*model.Span{
		makeSpan("Hel", 10, 100, 40, 112),
		makeSpan("lo", 38, 100, 58, 112),
	}

	line := NewLine(spans, 0)

	if line.Text() != "Hello" {
		t.Errorf("Expected 'Hello', got '%s'", line.Text())
	}
}

func TestLine_Counts(t *testing.T) {
	line := NewLine([]*model.Span{
		makeSpan("Hello", 10, 100, 60, 112),
		makeSpan("World", 70, 100, 120, 112),
	}, 0)

	if line.SpanCount() != 2 {
		t.Errorf("Expected 2 spans, got %d", line.SpanCount())
	}

	if line.CharCount() != 10 {
		t.Errorf("Expected 10 chars, got %d", line.CharCount())
	}

	if line.WordCount() != 2 {
		t.Errorf("Expected 2 words, got %d", line.WordCount())
	}

	if line.IsEmpty() {
		t.Error("Line should not be empty")
	}
}

func TestLine_BBox(t *testing.T) {
	line := NewLine([]*model.Span{
		makeSpan("Hello", 10, 100, 60, 112),
		makeSpan("World", 70, 98, 120, 114),
	}, 0)

	bbox := line.BBox()
	if bbox.X0 != 10 || bbox.Y0 != 98 || bbox.X1 != 120 || bbox.Y1 != 114 {
		t.Errorf("Unexpected union bbox: %+v", bbox)
	}

	if line.XStart() != 10 || line.XEnd() != 120 {
		t.Errorf("Unexpected extent: %f..%f", line.XStart(), line.XEnd())
	}
}

func TestLine_DominantStyles(t *testing.T) {
	big := model.NewSpan(model.Span{
		Text:     "Important text",
		Font:     "Times-Roman",
		Size:     14,
		BBox:     model.BBox{X0: 10, Y0: 100, X1: 150, Y1: 114},
		Baseline: 114,
	})
	small := model.NewSpan(model.Span{
		Text:     "note",
		Font:     "Arial",
		Size:     8,
		BBox:     model.BBox{X0: 160, Y0: 104, X1: 190, Y1: 114},
		Baseline: 114,
	})

	line := NewLine([]*model.Span{big, small}, 0)

	if line.DominantFont() != "Times-Roman" {
		t.Errorf("Expected Times-Roman, got %s", line.DominantFont())
	}

	if line.DominantFontSize() != 14 {
		t.Errorf("Expected size 14, got %f", line.DominantFontSize())
	}
}

func TestLine_IsBold_Majority(t *testing.T) {
	bold := model.NewSpan(model.Span{
		Text:     "Bold heading",
		Bold:     model.FlagYes,
		BBox:     model.BBox{X0: 10, Y0: 100, X1: 130, Y1: 112},
		Baseline: 112,
	})
	plain := model.NewSpan(model.Span{
		Text:     "tail",
		BBox:     model.BBox{X0: 140, Y0: 100, X1: 170, Y1: 112},
		Baseline: 112,
	})

	line := NewLine([]*model.Span{bold, plain}, 0)

	if !line.IsBold() {
		t.Error("Line with mostly bold characters should be bold")
	}

	if line.IsItalic() {
		t.Error("Line should not be italic")
	}

	if !line.HasMixedStyles() {
		t.Error("Bold and plain spans should count as mixed styles")
	}
}

func TestLine_DetectAlignment(t *testing.T) {
	const pageWidth = 612.0

	tests := []struct {
		name     string
		spans    []*model.Span
		expected LineAlignment
	}{
		{
			name:     "left",
			spans:    []*model.Span{makeSpan("Hello", 50, 100, 200, 112)},
			expected: AlignLeft,
		},
		{
			name:     "right",
			spans:    []*model.Span{makeSpan("Hello", 412, 100, 562, 112)},
			expected: AlignRight,
		},
		{
			name:     "center",
			spans:    []*model.Span{makeSpan("Hello", 250, 100, 362, 112)},
			expected: AlignCenter,
		},
		{
			name: "justified",
			spans: []*model.Span{
				makeSpan("alpha", 50, 100, 200, 112),
				makeSpan("beta", 210, 100, 400, 112),
				makeSpan("gamma", 410, 100, 562, 112),
			},
			expected: AlignJustified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := NewLine(tt.spans, 0)
			if got := line.DetectAlignment(pageWidth); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLine_DetectAlignment_ZeroPageWidth(t *testing.T) {
	line := NewLine([]*model.Span{makeSpan("Hello", 10, 100, 60, 112)}, 0)
	if got := line.DetectAlignment(0); got != AlignUnknown {
		t.Errorf("Expected unknown alignment, got %s", got)
	}
}

func TestLine_FindSpanAtX(t *testing.T) {
	hello := makeSpan("Hello", 10, 100, 60, 112)
	world := makeSpan("World", 70, 100, 120, 112)
	line := NewLine([]*model.Span{hello, world}, 0)

	if got := line.FindSpanAtX(30); got != hello {
		t.Errorf("Expected first span at x=30, got %v", got)
	}

	if got := line.FindSpanAtX(100); got != world {
		t.Errorf("Expected second span at x=100, got %v", got)
	}

	if got := line.FindSpanAtX(65); got != nil {
		t.Errorf("Expected nil in the gap, got %v", got)
	}
}

func TestLine_FindCharAtX(t *testing.T) {
	span := model.NewSpan(model.Span{
		Text:       "abc",
		BBox:       model.BBox{X0: 10, Y0: 100, X1: 40, Y1: 112},
		Baseline:   112,
		CharWidths: []float64{10, 10, 10},
	})
	line := NewLine([]*model.Span{span}, 0)

	got, idx := line.FindCharAtX(25)
	if got == nil || idx != 1 {
		t.Errorf("Expected char index 1 at x=25, got %d", idx)
	}

	got, idx = line.FindCharAtX(500)
	if got != nil || idx != -1 {
		t.Errorf("Expected miss at x=500, got span=%v idx=%d", got, idx)
	}
}

func TestLine_SplitAtX(t *testing.T) {
	line := NewLine([]*model.Span{
		makeSpan("Hello", 10, 100, 60, 112),
		makeSpan("World", 70, 100, 120, 112),
	}, 0)

	left, right := line.SplitAtX(65)

	if left.Text() != "Hello" || right.Text() != "World" {
		t.Errorf("Unexpected split: '%s' / '%s'", left.Text(), right.Text())
	}
}

func TestLine_SplitAtX_CrossingSpan(t *testing.T) {
	// Span centered at x=35 goes left of a cut at 40
	line := NewLine([]*model.Span{makeSpan("Hello", 10, 100, 60, 112)}, 0)

	left, right := line.SplitAtX(40)

	if left.SpanCount() != 1 || right.SpanCount() != 0 {
		t.Errorf("Expected crossing span on the left, got %d/%d", left.SpanCount(), right.SpanCount())
	}
}

func TestLine_AddRemoveSpan(t *testing.T) {
	hello := makeSpan("Hello", 10, 100, 60, 112)
	world := makeSpan("World", 70, 100, 120, 112)
	line := NewLine([]*model.Span{hello}, 0)

	line.AddSpan(world)
	if line.SpanCount() != 2 || line.Spans[1] != world {
		t.Errorf("AddSpan should keep span order")
	}

	if !line.RemoveSpan(hello) {
		t.Error("RemoveSpan should find the span")
	}

	if line.RemoveSpan(hello) {
		t.Error("RemoveSpan should fail for a span already removed")
	}

	if line.SpanCount() != 1 || line.Spans[0] != world {
		t.Errorf("Unexpected spans after removal: %d", line.SpanCount())
	}
}

func TestLine_MergeWith(t *testing.T) {
	a := NewLine([]*model.Span{makeSpan("Hello", 10, 100, 60, 112)}, 0)
	b := NewLine([]*model.Span{makeSpan("World", 70, 100, 120, 112)}, 0)

	merged := a.MergeWith(b)

	if merged.Text() != "Hello World" {
		t.Errorf("Expected 'Hello World', got '%s'", merged.Text())
	}
}

func TestLineGrouper_EmptyInput(t *testing.T) {
	grouper := NewLineGrouper()
	if lines := grouper.Group(nil); lines != nil {
		t.Errorf("Expected nil for empty input, got %d lines", len(lines))
	}
}

func TestLineGrouper_Group(t *testing.T) {
	grouper := NewLineGrouper()

	spans := []*model.Span{
		makeSpan("second", 10, 118, 70, 130),
		makeSpan("first", 10, 88, 60, 100),
		makeSpan("line", 70, 89.5, 110, 101.5),
	}

	lines := grouper.Group(spans)

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}

	if lines[0].Text() != "first line" {
		t.Errorf("Expected 'first line', got '%s'", lines[0].Text())
	}

	if lines[1].Text() != "second" {
		t.Errorf("Expected 'second', got '%s'", lines[1].Text())
	}
}

func TestLineGrouper_Group_BaselineTolerance(t *testing.T) {
	grouper := NewLineGrouperWithConfig(LineGroupingConfig{
		BaselineTolerance:      1.0,
		HorizontalGapThreshold: 50.0,
	})

	spans := []*model.Span{
		makeSpan("a", 10, 88, 20, 100),
		makeSpan("b", 30, 90, 40, 102),
	}

	if lines := grouper.Group(spans); len(lines) != 2 {
		t.Errorf("Baselines 2pt apart should split at tolerance 1, got %d lines", len(lines))
	}
}

func TestLineGrouper_GroupByBaseline(t *testing.T) {
	grouper := NewLineGrouper()

	spans := []*model.Span{
		makeSpan("a", 10, 88, 20, 100),
		makeSpan("b", 30, 89, 40, 101),
		makeSpan("c", 10, 118, 20, 130),
	}

	groups := grouper.GroupByBaseline(spans, 0)

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}

	if len(groups[0]) != 2 || len(groups[1]) != 1 {
		t.Errorf("Unexpected group sizes: %d, %d", len(groups[0]), len(groups[1]))
	}
}

func TestLineGrouper_SplitByHorizontalGap(t *testing.T) {
	grouper := NewLineGrouper()

	line := NewLine([]*model.Span{
		makeSpan("left", 10, 100, 50, 112),
		makeSpan("cell", 60, 100, 100, 112),
		makeSpan("right", 200, 100, 250, 112),
	}, 0)

	segments := grouper.SplitByHorizontalGap(line, 0)

	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segments))
	}

	if segments[0].Text() != "left cell" {
		t.Errorf("Expected 'left cell', got '%s'", segments[0].Text())
	}

	if segments[1].Text() != "right" {
		t.Errorf("Expected 'right', got '%s'", segments[1].Text())
	}
}

func TestLineGrouper_EstimateLineSpacing(t *testing.T) {
	grouper := NewLineGrouper()

	lines := []*Line{
		NewLine([]*model.Span{makeSpan("a", 10, 88, 20, 100)}, 0),
		NewLine([]*model.Span{makeSpan("b", 10, 102, 20, 114)}, 0),
		NewLine([]*model.Span{makeSpan("c", 10, 116, 20, 128)}, 0),
	}

	if spacing := grouper.EstimateLineSpacing(lines); spacing != 14 {
		t.Errorf("Expected spacing 14, got %f", spacing)
	}

	if spacing := grouper.EstimateLineSpacing(lines[:1]); spacing != 0 {
		t.Errorf("Expected 0 for a single line, got %f", spacing)
	}
}

func TestLineGrouper_DetectParagraphs(t *testing.T) {
	grouper := NewLineGrouper()

	lines := []*Line{
		NewLine([]*model.Span{makeSpan("a", 10, 88, 20, 100)}, 0),
		NewLine([]*model.Span{makeSpan("b", 10, 102, 20, 114)}, 0),
		NewLine([]*model.Span{makeSpan("c", 10, 116, 20, 128)}, 0),
		NewLine([]*model.Span{makeSpan("d", 10, 158, 20, 170)}, 0),
	}

	paragraphs := grouper.DetectParagraphs(lines, 0)

	if len(paragraphs) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %d", len(paragraphs))
	}

	if len(paragraphs[0]) != 3 || len(paragraphs[1]) != 1 {
		t.Errorf("Unexpected paragraph sizes: %d, %d", len(paragraphs[0]), len(paragraphs[1]))
	}
}

func TestFindLineAtPoint(t *testing.T) {
	lines := []*Line{
		NewLine([]*model.Span{makeSpan("first", 10, 88, 60, 100)}, 0),
		NewLine([]*model.Span{makeSpan("second", 10, 118, 70, 130)}, 0),
	}

	if got := FindLineAtPoint(lines, 30, 95, 0); got != lines[0] {
		t.Error("Expected the first line at (30, 95)")
	}

	// Point just above the second line, inside the tolerance
	if got := FindLineAtPoint(lines, 30, 115, 5); got != lines[1] {
		t.Error("Expected the second line within tolerance")
	}

	if got := FindLineAtPoint(lines, 30, 110, 0); got != nil {
		t.Errorf("Expected nil between lines, got %v", got.Text())
	}
}

func TestLine_DirectionDetection(t *testing.T) {
	ltr := NewLine([]*model.Span{makeSpan("Hello", 10, 100, 60, 112)}, 0)
	if ltr.Direction != text.LTR {
		t.Errorf("Expected LTR, got %s", ltr.Direction)
	}

	rtl := NewLine([]*model.Span{makeSpan("שלום", 10, 100, 60, 112)}, 0)
	if rtl.Direction != text.RTL {
		t.Errorf("Expected RTL, got %s", rtl.Direction)
	}

	neutral := NewLine([]*model.Span{makeSpan("123", 10, 100, 40, 112)}, 0)
	if neutral.Direction != text.LTR {
		t.Errorf("Neutral text should default to LTR, got %s", neutral.Direction)
	}
}

func TestLineGrouper_GroupIdempotent(t *testing.T) {
	grouper := NewLineGrouper()

	// Five spans on three baselines, deliberately out of order.
	spans := []*model.Span{
		makeSpan("c1", 10, 118, 30, 130),
		makeSpan("a2", 70, 89, 90, 101),
		makeSpan("a1", 10, 88, 30, 100),
		makeSpan("b1", 10, 103, 30, 115),
		makeSpan("c2", 70, 119, 90, 131),
	}

	first := grouper.Group(spans)
	if len(first) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(first))
	}

	var flattened []*model.Span
	for _, line := range first {
		flattened = append(flattened, line.Spans...)
	}

	second := grouper.Group(flattened)
	if len(second) != len(first) {
		t.Fatalf("Regrouping changed line count: %d vs %d", len(second), len(first))
	}

	for i := range first {
		if second[i].Text() != first[i].Text() {
			t.Errorf("Line %d text changed: %q vs %q", i, second[i].Text(), first[i].Text())
		}
		if second[i].ID != first[i].ID {
			t.Errorf("Line %d ID changed: %s vs %s", i, second[i].ID, first[i].ID)
		}
		if len(second[i].Spans) != len(first[i].Spans) {
			t.Fatalf("Line %d span count changed: %d vs %d", i, len(second[i].Spans), len(first[i].Spans))
		}
		for j := range first[i].Spans {
			if second[i].Spans[j] != first[i].Spans[j] {
				t.Errorf("Line %d span %d moved to a different position", i, j)
			}
		}
	}
}

func TestLine_InterSpanGapsCount(t *testing.T) {
	line := NewLine([]*model.Span{
		makeSpan("a", 10, 100, 30, 112),
		makeSpan("b", 40, 100, 60, 112),
		makeSpan("c", 55, 100, 80, 112),
	}, 0)

	gaps := line.InterSpanGaps()
	if len(gaps) != line.SpanCount()-1 {
		t.Fatalf("Expected %d gaps for %d spans, got %d", line.SpanCount()-1, line.SpanCount(), len(gaps))
	}
	if gaps[0] != 10 {
		t.Errorf("Expected gap 10, got %f", gaps[0])
	}
	if gaps[1] != -5 {
		t.Errorf("Expected overlap gap -5, got %f", gaps[1])
	}

	single := NewLine([]*model.Span{makeSpan("a", 10, 100, 30, 112)}, 0)
	if single.InterSpanGaps() != nil {
		t.Error("Expected nil gaps for a single span")
	}
}
