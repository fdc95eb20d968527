package layout

import (
	"testing"
)

func TestCalculateLineStatistics(t *testing.T) {
	lines := []*Line{
		makeParaLine("Hello world", 72, 100),
		makeParaLine("Second line here", 72, 114),
		makeParaLine("Third", 72, 128),
	}

	stats := CalculateLineStatistics(lines)

	if stats.LineCount != 3 {
		t.Errorf("Expected 3 lines, got %d", stats.LineCount)
	}
	if stats.TotalWords != 6 {
		t.Errorf("Expected 6 words, got %d", stats.TotalWords)
	}
	if stats.TotalChars != len("Hello world")+len("Second line here")+len("Third") {
		t.Errorf("Unexpected char count: %d", stats.TotalChars)
	}
	if stats.MinX != 72 {
		t.Errorf("Expected MinX 72, got %f", stats.MinX)
	}
	if stats.DominantFont != "Helvetica" {
		t.Errorf("Expected Helvetica, got %q", stats.DominantFont)
	}
	if stats.DominantFontSize != 12.0 {
		t.Errorf("Expected size 12, got %f", stats.DominantFontSize)
	}
	if stats.LineSpacing != 14.0 {
		t.Errorf("Expected line spacing 14, got %f", stats.LineSpacing)
	}
	if stats.AvgSpansPerLine != 1.0 {
		t.Errorf("Expected 1 span per line, got %f", stats.AvgSpansPerLine)
	}
}

func TestCalculateLineStatistics_Empty(t *testing.T) {
	stats := CalculateLineStatistics(nil)
	if stats.LineCount != 0 || stats.TotalChars != 0 {
		t.Error("Expected zero statistics for empty input")
	}
}

func TestCalculateParagraphStatistics(t *testing.T) {
	heading := NewParagraph([]*Line{makeStyledLine("Title", 72, 100, 24, true, "Helvetica-Bold")}, 0)
	heading.Type = ParagraphHeading

	body := NewParagraph([]*Line{
		makeParaLine("First body line", 72, 140),
		makeParaLine("Second body line", 72, 154),
	}, 0)

	stats := CalculateParagraphStatistics([]*Paragraph{heading, body})

	if stats.Count != 2 {
		t.Errorf("Expected 2 paragraphs, got %d", stats.Count)
	}
	if stats.TotalLines != 3 {
		t.Errorf("Expected 3 lines, got %d", stats.TotalLines)
	}
	if stats.TypeCounts["heading"] != 1 {
		t.Errorf("Expected 1 heading, got %d", stats.TypeCounts["heading"])
	}
	if stats.TypeCounts["normal"] != 1 {
		t.Errorf("Expected 1 normal, got %d", stats.TypeCounts["normal"])
	}
	if stats.AvgLines != 1.5 {
		t.Errorf("Expected 1.5 avg lines, got %f", stats.AvgLines)
	}
}

func TestCalculateParagraphStatistics_Empty(t *testing.T) {
	stats := CalculateParagraphStatistics(nil)
	if stats.Count != 0 {
		t.Error("Expected zero count")
	}
	if stats.TypeCounts == nil {
		t.Error("Expected non-nil TypeCounts map")
	}
}
