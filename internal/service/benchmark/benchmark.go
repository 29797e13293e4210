// Package benchmark compares a subject against its competitor set.
package benchmark

import (
	"github.com/octobees/presence-audit/internal/entity"
	"github.com/octobees/presence-audit/internal/service/stats"
)

// Calculate computes medians, ranks and gaps per metric. The subject is always
// part of the median and rank set, so N competitors yield N+1 points.
func Calculate(subject entity.PlaceProfile, competitors []entity.CompetitorProfile) entity.Benchmark {
	ratings := make([]float64, 0, len(competitors))
	reviews := make([]float64, 0, len(competitors))
	photos := make([]float64, 0, len(competitors))
	for _, c := range competitors {
		ratings = append(ratings, c.Rating)
		reviews = append(reviews, float64(c.ReviewCount))
		photos = append(photos, float64(c.PhotoCount))
	}

	self := entity.MetricTriple{
		Rating:      subject.Rating,
		ReviewCount: float64(subject.ReviewCount),
		PhotoCount:  float64(subject.PhotoCount()),
	}

	medians := entity.MetricTriple{
		Rating:      stats.Median(append([]float64{self.Rating}, ratings...)),
		ReviewCount: stats.Median(append([]float64{self.ReviewCount}, reviews...)),
		PhotoCount:  stats.Median(append([]float64{self.PhotoCount}, photos...)),
	}

	return entity.Benchmark{
		CompetitorCount: len(competitors),
		Medians:         medians,
		Rank: entity.RankTriple{
			Rating:      stats.Rank(self.Rating, ratings, true),
			ReviewCount: stats.Rank(self.ReviewCount, reviews, true),
			PhotoCount:  stats.Rank(self.PhotoCount, photos, true),
		},
		Gaps: entity.MetricTriple{
			Rating:      stats.Gap(self.Rating, medians.Rating),
			ReviewCount: stats.Gap(self.ReviewCount, medians.ReviewCount),
			PhotoCount:  stats.Gap(self.PhotoCount, medians.PhotoCount),
		},
	}
}
