package hittest

import (
	"sort"

	"github.com/tidwall/rtree"

	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
)

// PageCache holds the extracted text structure of one page. Spans keep
// extraction order; Lines are sorted top to bottom by baseline.
type PageCache struct {
	// PageNum is the zero-based page number
	PageNum int

	// Spans are the page's non-blank spans in extraction order
	Spans []*model.Span

	// Lines are the grouped lines sorted by baseline
	Lines []*layout.Line

	// Err records the extraction error for an invalid cache
	Err error

	valid bool

	ySorted []*layout.Line

	// baselineSpread is the largest distance from any line's baseline to
	// its bbox edge; it widens the search window so the bbox clause of
	// LinesNearY cannot escape the baseline-keyed binary search.
	baselineSpread float64

	spanTree rtree.RTreeG[int]
	lineTree rtree.RTreeG[int]
}

// Valid reports whether the cache holds usable data.
func (c *PageCache) Valid() bool {
	return c.valid
}

// buildIndex builds the baseline-sorted line index and the R-trees used by
// rectangle queries.
func (c *PageCache) buildIndex() {
	c.ySorted = make([]*layout.Line, len(c.Lines))
	copy(c.ySorted, c.Lines)
	sort.SliceStable(c.ySorted, func(i, j int) bool {
		return c.ySorted[i].Baseline < c.ySorted[j].Baseline
	})

	c.baselineSpread = 0
	for _, line := range c.Lines {
		bbox := line.BBox()
		if d := line.Baseline - bbox.Y0; d > c.baselineSpread {
			c.baselineSpread = d
		}
		if d := bbox.Y1 - line.Baseline; d > c.baselineSpread {
			c.baselineSpread = d
		}
	}

	c.spanTree = rtree.RTreeG[int]{}
	for i, span := range c.Spans {
		c.spanTree.Insert(
			[2]float64{span.BBox.X0, span.BBox.Y0},
			[2]float64{span.BBox.X1, span.BBox.Y1},
			i,
		)
	}

	c.lineTree = rtree.RTreeG[int]{}
	for i, line := range c.Lines {
		bbox := line.BBox()
		c.lineTree.Insert(
			[2]float64{bbox.X0, bbox.Y0},
			[2]float64{bbox.X1, bbox.Y1},
			i,
		)
	}
}

// LinesNearY returns the lines whose baseline lies within the tolerance of
// y, or whose vertical extent expanded by the tolerance covers y. The
// baseline-sorted index narrows the scan to a window around y; any line the
// bbox clause could match has its baseline within baselineSpread of the
// covered range, so the window misses nothing.
func (c *PageCache) LinesNearY(y, tolerance float64) []*layout.Line {
	window := tolerance + c.baselineSpread
	start := sort.Search(len(c.ySorted), func(i int) bool {
		return c.ySorted[i].Baseline >= y-window
	})

	var result []*layout.Line
	for _, line := range c.ySorted[start:] {
		if line.Baseline > y+window {
			break
		}
		bbox := line.BBox()
		if absF(line.Baseline-y) <= tolerance ||
			(bbox.Y0-tolerance <= y && y <= bbox.Y1+tolerance) {
			result = append(result, line)
		}
	}
	return result
}

// spansInRect returns the indexes of the spans strictly overlapping the
// rectangle, in extraction order. Boxes that only touch an edge are not
// overlapping.
func (c *PageCache) spansInRect(rect model.BBox) []int {
	return searchStrict(&c.spanTree, rect, func(i int) model.BBox {
		return c.Spans[i].BBox
	})
}

// linesInRect returns the indexes of the lines strictly overlapping the
// rectangle, in baseline order.
func (c *PageCache) linesInRect(rect model.BBox) []int {
	return searchStrict(&c.lineTree, rect, func(i int) model.BBox {
		return c.Lines[i].BBox()
	})
}

// searchStrict queries an R-tree and filters the candidates down to strict
// overlap. The tree returns hits in arbitrary order, so indexes are sorted
// before returning to preserve the cache's ordering guarantees.
func searchStrict(tree *rtree.RTreeG[int], rect model.BBox, boxOf func(int) model.BBox) []int {
	var indexes []int
	tree.Search(
		[2]float64{rect.X0, rect.Y0},
		[2]float64{rect.X1, rect.Y1},
		func(min, max [2]float64, i int) bool {
			if overlapsStrictly(boxOf(i), rect) {
				indexes = append(indexes, i)
			}
			return true
		},
	)
	sort.Ints(indexes)
	return indexes
}

// overlapsStrictly reports whether two boxes share interior area. Touching
// edges do not count.
func overlapsStrictly(b, rect model.BBox) bool {
	return b.X1 > rect.X0 && b.X0 < rect.X1 &&
		b.Y1 > rect.Y0 && b.Y0 < rect.Y1
}

// clear drops the cache's contents and marks it invalid.
func (c *PageCache) clear() {
	c.Spans = nil
	c.Lines = nil
	c.ySorted = nil
	c.baselineSpread = 0
	c.spanTree = rtree.RTreeG[int]{}
	c.lineTree = rtree.RTreeG[int]{}
	c.valid = false
	c.Err = nil
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
