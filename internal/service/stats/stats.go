// Package stats holds the small order statistics used by benchmarks.
package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
)

// Median returns the median of the finite values, or 0 when none remain.
func Median(values []float64) float64 {
	finite := make(mstats.Float64Data, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
	}
	if len(finite) == 0 {
		return 0
	}
	m, err := mstats.Median(finite)
	if err != nil {
		return 0
	}
	return m
}

// Rank returns the 1-based position of self within self+competitors.
// The set is stable-sorted with self inserted first, so self ranks ahead of
// any competitor with the same value.
func Rank(self float64, competitors []float64, higherIsBetter bool) int {
	type entry struct {
		value  float64
		isSelf bool
	}
	set := make([]entry, 0, len(competitors)+1)
	set = append(set, entry{value: self, isSelf: true})
	for _, c := range competitors {
		set = append(set, entry{value: c})
	}

	sort.SliceStable(set, func(i, j int) bool {
		if higherIsBetter {
			return set[i].value > set[j].value
		}
		return set[i].value < set[j].value
	})

	for i, e := range set {
		if e.isSelf {
			return i + 1
		}
	}
	return 1
}

// Gap is the signed distance of self from the median.
func Gap(self, median float64) float64 {
	return self - median
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SafeRatio divides value by denominator. A zero denominator is replaced by 1
// when value is positive; otherwise the ratio is 0.
func SafeRatio(value, denominator float64) float64 {
	if denominator == 0 {
		if value > 0 {
			denominator = 1
		} else {
			return 0
		}
	}
	return value / denominator
}
