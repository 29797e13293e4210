package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/octobees/presence-audit/internal/entity"
)

func subjectWith(rating float64, reviews, photos int) entity.PlaceProfile {
	return entity.PlaceProfile{
		ID:          "self",
		Rating:      rating,
		ReviewCount: reviews,
		Photos:      make([]entity.Photo, photos),
	}
}

func competitor(rating float64, reviews, photos int) entity.CompetitorProfile {
	return entity.CompetitorProfile{Rating: rating, ReviewCount: reviews, PhotoCount: photos}
}

func TestCalculateIncludesSubjectInMedian(t *testing.T) {
	subject := subjectWith(4.0, 10, 4)
	competitors := []entity.CompetitorProfile{
		competitor(4.5, 40, 20),
		competitor(4.8, 120, 25),
		competitor(3.9, 8, 2),
	}

	b := Calculate(subject, competitors)

	assert.Equal(t, 3, b.CompetitorCount)
	// ratings 4.0, 4.5, 4.8, 3.9 -> median (4.0+4.5)/2
	assert.InDelta(t, 4.25, b.Medians.Rating, 1e-9)
	// reviews 10, 40, 120, 8 -> (10+40)/2
	assert.Equal(t, 25.0, b.Medians.ReviewCount)
	// photos 4, 20, 25, 2 -> (4+20)/2
	assert.Equal(t, 12.0, b.Medians.PhotoCount)

	assert.Equal(t, 3, b.Rank.Rating)
	assert.Equal(t, 3, b.Rank.ReviewCount)
	assert.Equal(t, 3, b.Rank.PhotoCount)

	assert.InDelta(t, -0.25, b.Gaps.Rating, 1e-9)
	assert.Equal(t, -15.0, b.Gaps.ReviewCount)
	assert.Equal(t, -8.0, b.Gaps.PhotoCount)
}

func TestCalculateWithoutCompetitors(t *testing.T) {
	b := Calculate(subjectWith(4.7, 30, 12), nil)

	assert.Equal(t, 0, b.CompetitorCount)
	assert.Equal(t, 4.7, b.Medians.Rating)
	assert.Equal(t, entity.RankTriple{Rating: 1, ReviewCount: 1, PhotoCount: 1}, b.Rank)
	assert.Equal(t, entity.MetricTriple{}, b.Gaps)
}

func TestCalculateRanksWithinBounds(t *testing.T) {
	competitors := []entity.CompetitorProfile{
		competitor(5, 500, 25), competitor(5, 500, 25), competitor(5, 500, 25),
	}
	b := Calculate(subjectWith(1, 0, 0), competitors)

	assert.Equal(t, 4, b.Rank.Rating)
	assert.Equal(t, 4, b.Rank.ReviewCount)
	assert.Equal(t, 4, b.Rank.PhotoCount)
}
