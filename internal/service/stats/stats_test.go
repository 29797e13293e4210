package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"even", []float64{3, 7}, 5},
		{"odd", []float64{1, 2, 9}, 2},
		{"unsorted", []float64{9, 1, 2}, 2},
		{"drops non-finite", []float64{math.NaN(), 4, math.Inf(1), 6}, 5},
		{"only non-finite", []float64{math.NaN(), math.Inf(-1)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Median(tc.values))
		})
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	values := []float64{9, 1, 5}
	Median(values)
	assert.Equal(t, []float64{9, 1, 5}, values)
}

func TestRank(t *testing.T) {
	// 7, 5(self), 5, 3: self wins the tie because it is inserted first.
	assert.Equal(t, 2, Rank(5, []float64{3, 7, 5}, true))
	assert.Equal(t, 1, Rank(10, []float64{3, 7, 5}, true))
	assert.Equal(t, 4, Rank(1, []float64{3, 7, 5}, true))
	assert.Equal(t, 1, Rank(0, nil, true))
	assert.Equal(t, 1, Rank(3, []float64{3, 3, 3}, true))
}

func TestRankLowerIsBetter(t *testing.T) {
	assert.Equal(t, 1, Rank(1, []float64{3, 7, 5}, false))
	// 3, 5(self), 5, 7: the tie goes to self here too.
	assert.Equal(t, 2, Rank(5, []float64{3, 7, 5}, false))
	assert.Equal(t, 4, Rank(9, []float64{3, 7, 5}, false))
}

func TestRankStaysWithinBounds(t *testing.T) {
	competitors := []float64{4.1, 4.8, 3.9, 4.8, 5.0}
	for _, self := range []float64{0, 3.9, 4.5, 4.8, 5.0} {
		r := Rank(self, competitors, true)
		assert.GreaterOrEqual(t, r, 1)
		assert.LessOrEqual(t, r, len(competitors)+1)
	}
}

func TestGap(t *testing.T) {
	assert.Equal(t, 4.0, Gap(10, 6))
	assert.Equal(t, -3.0, Gap(3, 6))
}

func TestSafeRatio(t *testing.T) {
	assert.Equal(t, 0.5, SafeRatio(5, 10))
	assert.Equal(t, 3.0, SafeRatio(3, 0))
	assert.Equal(t, 0.0, SafeRatio(0, 0))
	assert.Equal(t, -2.0, SafeRatio(-2, 1))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(130, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}
