package model

import (
	"encoding/json"
	"fmt"
)

// ToMap converts the span to a generic map for serialization. Geometry is
// emitted as ordered coordinate lists, enums as their string names and
// tri-state flags as nil, false or true.
func (s *Span) ToMap() map[string]any {
	m := map[string]any{
		"text":     s.Text,
		"page_num": s.PageNum,
		"span_id":  s.ID,

		"bbox":       []float64{s.BBox.X0, s.BBox.Y0, s.BBox.X1, s.BBox.Y1},
		"origin":     []float64{s.Origin.X, s.Origin.Y},
		"baseline_y": s.Baseline,

		"font_name":        s.Font,
		"font_size":        s.Size,
		"embedding_status": s.Embedding.String(),
		"descender":        s.Descender,

		"fill_color":   s.Color,
		"render_mode":  s.RenderMode.String(),
		"fill_opacity": s.Opacity,

		"ctm":              []float64{s.CTM[0], s.CTM[1], s.CTM[2], s.CTM[3], s.CTM[4], s.CTM[5]},
		"horizontal_scale": s.HorizontalScaling,

		"char_spacing": s.CharSpacing,
		"word_spacing": s.WordSpacing,
		"char_widths":  s.CharWidths,
		"total_width":  s.TotalWidth,

		"rise":           s.Rise,
		"is_bold":        flagToAny(s.Bold),
		"is_italic":      flagToAny(s.Italic),
		"is_superscript": s.Superscript,
		"is_subscript":   s.Subscript,

		"confidence": s.Confidence,
	}

	return m
}

// SpanFromMap reconstructs a span from a map produced by ToMap. Missing
// fields keep zero values and are then normalized, so round-tripping a span
// through ToMap and SpanFromMap preserves its content and identity.
func SpanFromMap(m map[string]any) (*Span, error) {
	if m == nil {
		return nil, fmt.Errorf("span map is nil")
	}

	s := Span{
		ID:                mapString(m, "span_id"),
		Text:              mapString(m, "text"),
		Font:              mapString(m, "font_name"),
		Size:              mapFloat(m, "font_size"),
		Color:             mapString(m, "fill_color"),
		Baseline:          mapFloat(m, "baseline_y"),
		PageNum:           int(mapFloat(m, "page_num")),
		CharSpacing:       mapFloat(m, "char_spacing"),
		WordSpacing:       mapFloat(m, "word_spacing"),
		HorizontalScaling: mapFloat(m, "horizontal_scale"),
		Rise:              mapFloat(m, "rise"),
		Opacity:           mapFloat(m, "fill_opacity"),
		Descender:         mapFloat(m, "descender"),
		Confidence:        mapFloat(m, "confidence"),
		RenderMode:        RenderModeFromString(mapString(m, "render_mode")),
		Embedding:         FontEmbeddingFromString(mapString(m, "embedding_status")),
		Bold:              flagFromAny(m["is_bold"]),
		Italic:            flagFromAny(m["is_italic"]),
		Superscript:       mapBool(m, "is_superscript"),
		Subscript:         mapBool(m, "is_subscript"),
	}

	if coords := mapFloats(m, "bbox"); len(coords) == 4 {
		s.BBox = BBox{X0: coords[0], Y0: coords[1], X1: coords[2], Y1: coords[3]}
	}
	if coords := mapFloats(m, "origin"); len(coords) == 2 {
		s.Origin = Point{X: coords[0], Y: coords[1]}
	}
	if coords := mapFloats(m, "ctm"); len(coords) == 6 {
		copy(s.CTM[:], coords)
	}
	s.CharWidths = mapFloats(m, "char_widths")

	return NewSpan(s), nil
}

// ToJSON serializes the span to JSON.
func (s *Span) ToJSON() ([]byte, error) {
	return json.Marshal(s.ToMap())
}

// SpanFromJSON deserializes a span from JSON produced by ToJSON.
func SpanFromJSON(data []byte) (*Span, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding span: %w", err)
	}
	return SpanFromMap(m)
}

func flagToAny(f Flag) any {
	switch f {
	case FlagYes:
		return true
	case FlagNo:
		return false
	default:
		return nil
	}
}

func flagFromAny(v any) Flag {
	b, ok := v.(bool)
	if !ok {
		return FlagUnknown
	}
	return FlagFromBool(b)
}

func mapString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func mapBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func mapFloat(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

func mapFloats(m map[string]any, key string) []float64 {
	switch v := m[key].(type) {
	case []float64:
		return v
	case []any:
		out := make([]float64, 0, len(v))
		for _, e := range v {
			switch f := e.(type) {
			case float64:
				out = append(out, f)
			case int:
				out = append(out, float64(f))
			case json.Number:
				n, _ := f.Float64()
				out = append(out, n)
			}
		}
		return out
	}
	return nil
}
