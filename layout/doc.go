// Package layout reconstructs visual text structure from positioned spans.
//
// This package groups spans into lines, maps the spacing inside and between
// spans, and assembles lines into classified paragraphs.
//
// # Line Grouping
//
// The [LineGrouper] clusters spans by baseline and splits clusters at large
// horizontal gaps:
//
//	grouper := layout.NewLineGrouper()
//	lines := grouper.Group(spans)
//
// A [Line] exposes text reconstruction, dominant style queries, alignment
// detection and positional lookups such as [Line.FindCharAtX].
//
// # Space Mapping
//
// The [SpaceMapper] analyzes a line and reports every space as a [SpaceInfo],
// distinguishing real space characters from virtual spaces implied by glyph
// gaps, tab-sized jumps and word-spacing:
//
//	mapper := layout.NewSpaceMapper()
//	analysis := mapper.Analyze(line)
//
// The analysis feeds [SpaceMapper.ReconstructWithSpaces] and the editing
// helpers [SpaceMapper.PreserveSpacingForEdit], [SpaceMapper.CalculateTextFit]
// and [SpaceMapper.SuggestLineBreaks].
//
// # Paragraph Detection
//
// The [ParagraphDetector] groups lines into paragraphs using vertical gaps,
// style changes and indentation, then classifies each paragraph as a heading,
// list item, page number, header/footer, code block, quote, caption or normal
// body text:
//
//	detector := layout.NewParagraphDetector()
//	paragraphs := detector.Detect(lines, pageNum)
//
// # Configuration
//
// Each component ships with defaults and accepts an explicit config:
//
//	config := layout.DefaultParagraphDetectionConfig()
//	config.ParagraphGapThreshold = 2.0
//	detector := layout.NewParagraphDetectorWithConfig(config)
package layout
