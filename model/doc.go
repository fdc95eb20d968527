// Package model provides the core data types for reconstructed page text.
//
// This package defines the user-facing structures that represent styled text
// as it arrives from an extraction backend. Backends deliver flat [GlyphRun]
// records; the rest of the library rebuilds document structure on top of the
// [Span] values produced from them.
//
// # Coordinate System
//
// All geometry uses page coordinates with the origin at the top-left corner
// and Y increasing downward, matching what extraction backends emit. A
// [BBox] stores its two corners, so X0 <= X1 and Y0 (top) <= Y1 (bottom).
//
// # Spans
//
// A [Span] is a maximal run of text sharing one style. Spans are built once
// from a glyph run via [NewSpanFromGlyphRun] (or normalized directly with
// [NewSpan]) and treated as immutable afterwards:
//
//	span := model.NewSpanFromGlyphRun(run, pageNum)
//	if span.IsSubsetFont() {
//	    // font name carried an ABCDEF+ subset prefix
//	}
//
// # Serialization
//
// Span values round-trip losslessly through a plain structured mapping
// (Span.ToMap / [SpanFromMap]) and its JSON encoding (Span.ToJSON /
// [SpanFromJSON]). Numeric tuples serialize as ordered lists and enums as
// their string values.
package model
