package scoring

import (
	"math"
	"time"

	"github.com/octobees/presence-audit/internal/entity"
	"github.com/octobees/presence-audit/internal/service/stats"
)

// RecentWindow bounds what counts as recent review activity.
const RecentWindow = 30 * 24 * time.Hour

const (
	noteDescriptionMissing = "The listing data did not include a business description; description points were not awarded."
	noteReviewTimes        = "Review timestamps were not available, so recent activity could not be verified."
	noteNoRating           = "The listing has no public rating yet."
	noteFreeHosting        = "The website is hosted on a free site-builder domain; a custom domain builds more trust."
)

// LiveStrategy scores live profile data against a competitor benchmark.
// Overall is the median of the five categories.
type LiveStrategy struct{}

// Categories implements Strategy.
func (LiveStrategy) Categories(in Input) []Partial {
	var profile entity.PlaceProfile
	if in.Profile != nil {
		profile = *in.Profile
	}
	var bench entity.Benchmark
	if in.Benchmark != nil {
		bench = *in.Benchmark
	}

	return []Partial{
		profileCompleteness(profile, in.Now),
		visualAssets(profile, bench),
		reviewPerformance(profile, bench, in.Now),
		localSEO(profile),
		competitorGap(bench),
	}
}

// Overall implements Strategy.
func (LiveStrategy) Overall(scores []entity.CategoryScore) int {
	return MedianOverall(scores)
}

// profileCompleteness tops out at 90: no live signal covers the last ten points.
func profileCompleteness(p entity.PlaceProfile, now time.Time) Partial {
	var points float64
	var notes []string

	switch lines := len(p.OpeningHours.WeekdayText); {
	case lines >= 7:
		points += 10
	case lines > 0:
		points += stats.Clamp(float64(lines), 3, 6)
	}
	if p.Phone != "" {
		points += 10
	}
	if p.Website != "" {
		points += 10
		if FreeHosted(p.Website) {
			notes = append(notes, noteFreeHosting)
		}
	}

	points += descriptionPoints(p)
	if p.Description == "" {
		notes = append(notes, noteDescriptionMissing)
	}

	points += math.Min(10, 2.5*float64(len(SpecificCategories(p.Categories))))
	points += math.Min(20, float64(p.PhotoCount())/20*20)

	if p.RecentReviewCount(now, RecentWindow) > 0 {
		points += 15
	} else if len(p.Reviews) > 0 && !p.HasReviewTimestamps() {
		notes = append(notes, noteReviewTimes)
	}

	return Partial{Category: entity.CategoryProfileCompleteness, Points: points, Max: 100, Notes: notes}
}

func descriptionPoints(p entity.PlaceProfile) float64 {
	length := len([]rune(p.Description))
	var points float64
	switch {
	case length >= 250:
		points = 10
	case length >= 100:
		points = 6
	case length > 0:
		points = 3
	}
	if keywordMatch(p.Description, p.Categories) {
		points += 5
	}
	return points
}

func visualAssets(p entity.PlaceProfile, b entity.Benchmark) Partial {
	own := float64(p.PhotoCount())
	points := stats.SafeRatio(own, b.Medians.PhotoCount) * 85
	if own >= 20 {
		points += 15
	}
	return Partial{Category: entity.CategoryVisualAssets, Points: stats.Clamp(points, 0, 100), Max: 100}
}

func reviewPerformance(p entity.PlaceProfile, b entity.Benchmark, now time.Time) Partial {
	var notes []string
	if p.Rating == 0 {
		notes = append(notes, noteNoRating)
	}
	rating := stats.Clamp(p.Rating/5*40, 0, 40)
	volume := stats.Clamp(stats.SafeRatio(float64(p.ReviewCount), b.Medians.ReviewCount)*40, 0, 40)
	recent := stats.Clamp(float64(p.RecentReviewCount(now, RecentWindow))/2*20, 0, 20)

	return Partial{Category: entity.CategoryReviewPerformance, Points: rating + volume + recent, Max: 100, Notes: notes}
}

func localSEO(p entity.PlaceProfile) Partial {
	specific := SpecificCategories(p.Categories)

	var points float64
	if len(specific) > 0 {
		points += 25
		points += math.Min(25, float64(len(specific)-1)*25/3)
	}

	length := len([]rune(p.Description))
	matched := keywordMatch(p.Description, p.Categories)
	switch {
	case matched && length >= 250:
		points += 25
	case matched:
		points += 15
	case length >= 100:
		points += 10
	}

	if p.Phone != "" {
		points += 10
	}
	if p.Website != "" {
		points += 10
	}
	if hasCompleteAddress(p.FormattedAddress) {
		points += 5
	}

	return Partial{Category: entity.CategoryLocalSEO, Points: points, Max: 100}
}

func competitorGap(b entity.Benchmark) Partial {
	rating := stats.Clamp(b.Gaps.Rating*25, -25, 25)
	reviews := stats.Clamp(stats.SafeRatio(b.Gaps.ReviewCount, b.Medians.ReviewCount)*25, -25, 25)
	photos := stats.Clamp(stats.SafeRatio(b.Gaps.PhotoCount, b.Medians.PhotoCount)*25, -25, 25)

	points := stats.Clamp(50+rating+reviews+photos, 0, 100)
	return Partial{Category: entity.CategoryCompetitorGap, Points: points, Max: 100}
}
