// Package scoring turns profile data or self-audit answers into the
// five-category breakdown, an overall score and a letter grade.
package scoring

import (
	"math"
	"time"

	"github.com/octobees/presence-audit/internal/entity"
	"github.com/octobees/presence-audit/internal/service/stats"
)

var categoryLabels = map[entity.Category]string{
	entity.CategoryProfileCompleteness: "Profile Completeness",
	entity.CategoryVisualAssets:        "Visual Assets",
	entity.CategoryReviewPerformance:   "Review Performance",
	entity.CategoryLocalSEO:            "Local SEO",
	entity.CategoryPostingActivity:     "Posting Activity",
	entity.CategoryCompetitorGap:       "Competitor Gap",
	entity.CategoryCitations:           "Citations Consistency",
}

// Label returns the display label of a category.
func Label(c entity.Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Input carries everything a strategy may read. Live strategies use Profile
// and Benchmark; point-table strategies use Checklist and Answers.
type Input struct {
	Profile   *entity.PlaceProfile
	Benchmark *entity.Benchmark
	Checklist entity.Checklist
	Answers   entity.SelfAuditInputs
	Now       time.Time
}

// Partial is the raw output of one category scorer before clamping.
type Partial struct {
	Category entity.Category
	Points   float64
	Max      int
	Notes    []string
}

// Strategy computes the five categories and folds them into an overall score.
type Strategy interface {
	Categories(in Input) []Partial
	Overall(scores []entity.CategoryScore) int
}

// Result is the scored breakdown.
type Result struct {
	Scores  []entity.CategoryScore
	Overall int
	Grade   string
	Notes   []string
}

// Scorer applies a Strategy and normalizes its output.
type Scorer struct {
	strategy Strategy
}

// New builds a Scorer around the provided strategy.
func New(strategy Strategy) *Scorer {
	return &Scorer{strategy: strategy}
}

// Score evaluates the input. Every category score is rounded and clamped to
// [0, max] where max never exceeds 100.
func (s *Scorer) Score(in Input) Result {
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	partials := s.strategy.Categories(in)

	scores := make([]entity.CategoryScore, 0, len(partials))
	var notes []string
	for _, p := range partials {
		limit := p.Max
		if limit <= 0 || limit > 100 {
			limit = 100
		}
		scores = append(scores, entity.CategoryScore{
			Category: p.Category,
			Score:    roundClamp(p.Points, 0, float64(limit)),
			Max:      limit,
			Label:    Label(p.Category),
		})
		notes = append(notes, p.Notes...)
	}

	overall := s.strategy.Overall(scores)
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}

	return Result{
		Scores:  scores,
		Overall: overall,
		Grade:   Grade(overall),
		Notes:   notes,
	}
}

// Grade maps an overall score to a letter.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// MedianOverall is the Standard tier's headline: the rounded median of the
// category scores.
func MedianOverall(scores []entity.CategoryScore) int {
	values := make([]float64, 0, len(scores))
	for _, s := range scores {
		values = append(values, float64(s.Score))
	}
	return int(math.Round(stats.Median(values)))
}

// SumOverall adds the category points; used by the point-table tiers whose
// category maxes total 100.
func SumOverall(scores []entity.CategoryScore) int {
	total := 0
	for _, s := range scores {
		total += s.Score
	}
	return total
}

func roundClamp(v, lo, hi float64) int {
	if math.IsNaN(v) {
		return int(lo)
	}
	return int(math.Round(stats.Clamp(v, lo, hi)))
}
