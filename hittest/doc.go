// Package hittest resolves page coordinates to text structure.
//
// A [HitTester] caches each page's spans and lines, built by pulling glyph
// runs from a [Source] and grouping them with the layout package. Point
// queries resolve to a character, span, line or inter-span gap:
//
//	tester := hittest.NewHitTester(source)
//	result := tester.HitTest(0, 100, 200, 0)
//	if result.Found() {
//		fmt.Println(result.Text())
//	}
//
// Rectangle queries return every span or line strictly overlapping a
// region. Caches are invalidated per page with [HitTester.InvalidatePage]
// or wholesale by swapping the source.
//
// The tester is not safe for concurrent use; callers running queries from
// multiple goroutines must serialize access.
package hittest
