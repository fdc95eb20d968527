package layout

import (
	"fmt"

	"github.com/tsawler/reflow/model"
	"github.com/tsawler/reflow/text"
)

// ToMap converts the line to a generic map for serialization. Spans are
// embedded in full, so the map round-trips losslessly through LineFromMap.
func (line *Line) ToMap() map[string]any {
	spans := make([]any, len(line.Spans))
	for i, s := range line.Spans {
		spans[i] = s.ToMap()
	}

	bbox := line.BBox()
	return map[string]any{
		"line_id":            line.ID,
		"page_num":           line.PageNum,
		"baseline_y":         line.Baseline,
		"reading_direction":  line.Direction.String(),
		"text":               line.Text(),
		"bbox":               []float64{bbox.X0, bbox.Y0, bbox.X1, bbox.Y1},
		"span_count":         line.SpanCount(),
		"dominant_font":      line.DominantFont(),
		"dominant_font_size": line.DominantFontSize(),
		"dominant_color":     line.DominantColor(),
		"is_bold":            line.IsBold(),
		"is_italic":          line.IsItalic(),
		"has_mixed_styles":   line.HasMixedStyles(),
		"avg_char_spacing":   line.AvgCharSpacing(),
		"avg_word_spacing":   line.AvgWordSpacing(),
		"spans":              spans,
	}
}

// LineFromMap reconstructs a line from a map produced by ToMap.
func LineFromMap(m map[string]any) (*Line, error) {
	if m == nil {
		return nil, fmt.Errorf("line map is nil")
	}

	rawSpans, _ := m["spans"].([]any)
	spans := make([]*model.Span, 0, len(rawSpans))
	for i, raw := range rawSpans {
		spanMap, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("span %d: not a map", i)
		}
		span, err := model.SpanFromMap(spanMap)
		if err != nil {
			return nil, fmt.Errorf("span %d: %w", i, err)
		}
		spans = append(spans, span)
	}

	pageNum := 0
	if v, ok := m["page_num"].(float64); ok {
		pageNum = int(v)
	} else if v, ok := m["page_num"].(int); ok {
		pageNum = v
	}

	line := NewLine(spans, pageNum)

	if id, ok := m["line_id"].(string); ok && id != "" {
		line.ID = id
	}
	if dir, ok := m["reading_direction"].(string); ok && dir != "" {
		line.Direction = text.DirectionFromString(dir)
	}

	return line, nil
}

// ToMap converts the paragraph to a generic map for serialization. Lines
// are summarized by ID, text and bounding box; use Line.ToMap for full
// line payloads.
func (p *Paragraph) ToMap() map[string]any {
	lines := make([]any, len(p.Lines))
	for i, line := range p.Lines {
		bbox := line.BBox()
		lines[i] = map[string]any{
			"line_id": line.ID,
			"text":    line.Text(),
			"bbox":    []float64{bbox.X0, bbox.Y0, bbox.X1, bbox.Y1},
		}
	}

	bbox := p.BBox()
	m := map[string]any{
		"paragraph_id":       p.ID,
		"page_num":           p.PageNum,
		"paragraph_type":     p.Type.String(),
		"heading_level":      p.HeadingLevel,
		"text":               p.Text(),
		"bbox":               []float64{bbox.X0, bbox.Y0, bbox.X1, bbox.Y1},
		"line_count":         p.LineCount(),
		"char_count":         p.CharCount(),
		"word_count":         p.WordCount(),
		"first_line_indent":  p.FirstLineIndent(),
		"line_spacing":       p.LineSpacing(),
		"dominant_font":      p.DominantFont(),
		"dominant_font_size": p.DominantFontSize(),
		"is_bold":            p.IsBold(),
		"is_italic":          p.IsItalic(),
		"is_heading":         p.IsHeading(),
		"is_list_item":       p.IsListItem(),
		"lines":              lines,
	}

	if p.ListInfo.IsList() {
		m["list_marker"] = p.ListInfo.Marker
		m["list_type"] = p.ListInfo.Type.String()
	} else {
		m["list_marker"] = nil
		m["list_type"] = ListNone.String()
	}

	return m
}
