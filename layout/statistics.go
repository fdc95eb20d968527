package layout

// LineStatistics aggregates metrics over a list of lines.
type LineStatistics struct {
	LineCount       int
	TotalChars      int
	TotalWords      int
	AvgHeight       float64
	AvgWidth        float64
	AvgSpansPerLine float64
	LineSpacing     float64
	MinX            float64
	MaxX            float64

	// DominantFont and DominantFontSize are weighted by text length,
	// so a long body span outweighs a short decorated one.
	DominantFont     string
	DominantFontSize float64
}

// CalculateLineStatistics summarizes a list of lines. An empty input yields
// the zero value.
func CalculateLineStatistics(lines []*Line) LineStatistics {
	if len(lines) == 0 {
		return LineStatistics{}
	}

	stats := LineStatistics{
		LineCount: len(lines),
		MinX:      lines[0].XStart(),
		MaxX:      lines[0].XEnd(),
	}

	heights := make([]float64, 0, len(lines))
	widths := make([]float64, 0, len(lines))
	spanCounts := make([]float64, 0, len(lines))
	fontCounts := make(map[string]int)
	sizeCounts := make(map[float64]int)

	for _, line := range lines {
		stats.TotalChars += line.CharCount()
		stats.TotalWords += line.WordCount()
		heights = append(heights, line.Height())
		widths = append(widths, line.Width())
		spanCounts = append(spanCounts, float64(line.SpanCount()))

		if line.XStart() < stats.MinX {
			stats.MinX = line.XStart()
		}
		if line.XEnd() > stats.MaxX {
			stats.MaxX = line.XEnd()
		}

		for _, span := range line.Spans {
			weight := len(span.Text)
			fontCounts[span.Font] += weight
			sizeCounts[roundTo(span.Size, 0.1)] += weight
		}
	}

	stats.AvgHeight = mean(heights)
	stats.AvgWidth = mean(widths)
	stats.AvgSpansPerLine = mean(spanCounts)
	stats.LineSpacing = NewLineGrouper().EstimateLineSpacing(lines)

	if len(fontCounts) > 0 {
		stats.DominantFont = maxCountKey(fontCounts)
	} else {
		stats.DominantFont = "Unknown"
	}
	if len(sizeCounts) > 0 {
		stats.DominantFontSize = maxCountKey(sizeCounts)
	} else {
		stats.DominantFontSize = 12.0
	}

	return stats
}

// ParagraphStatistics aggregates metrics over a list of paragraphs.
type ParagraphStatistics struct {
	Count       int
	TotalLines  int
	TotalWords  int
	TotalChars  int
	TypeCounts  map[string]int
	AvgLines    float64
	AvgWords    float64
}

// CalculateParagraphStatistics summarizes a list of paragraphs. An empty
// input yields the zero value with a non-nil TypeCounts map.
func CalculateParagraphStatistics(paragraphs []*Paragraph) ParagraphStatistics {
	stats := ParagraphStatistics{TypeCounts: make(map[string]int)}
	if len(paragraphs) == 0 {
		return stats
	}

	stats.Count = len(paragraphs)
	for _, p := range paragraphs {
		stats.TotalLines += p.LineCount()
		stats.TotalWords += p.WordCount()
		stats.TotalChars += p.CharCount()
		stats.TypeCounts[p.Type.String()]++
	}

	stats.AvgLines = float64(stats.TotalLines) / float64(stats.Count)
	stats.AvgWords = float64(stats.TotalWords) / float64(stats.Count)
	return stats
}
