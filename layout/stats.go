package layout

import (
	"math"
	"sort"
)

func absFloat64(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func roundTo(value, unit float64) float64 {
	return math.Round(value/unit) * unit
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// median returns the middle value of the input, or the mean of the two
// middle values for an even count. The input slice is not modified.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// variance returns the sample variance of the input. Fewer than two values
// yield 0.
func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := mean(values)
	total := 0.0
	for _, v := range values {
		d := v - m
		total += d * d
	}
	return total / float64(len(values)-1)
}

// maxCountKey returns the key with the highest count. Ties resolve to the
// smallest key so the result is deterministic.
func maxCountKey[K string | float64](counts map[K]int) K {
	var best K
	bestCount := -1
	first := true

	for k, c := range counts {
		if first || c > bestCount || (c == bestCount && k < best) {
			best = k
			bestCount = c
			first = false
		}
	}
	return best
}
