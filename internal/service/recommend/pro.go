package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/octobees/presence-audit/internal/entity"
	"github.com/octobees/presence-audit/internal/service/scoring"
	"github.com/octobees/presence-audit/internal/service/stats"
)

// Pro gap tuning.
const (
	ProGapThreshold   = 6.0
	ProCriticalGap    = 15.0
	proTopCompetitors = 3
)

// ProWeights is the share of each category in the weighted gap.
var ProWeights = map[entity.Category]float64{
	entity.CategoryProfileCompleteness: 0.30,
	entity.CategoryVisualAssets:        0.25,
	entity.CategoryReviewPerformance:   0.25,
	entity.CategoryPostingActivity:     0.10,
	entity.CategoryCitations:           0.10,
}

type proTemplate struct {
	title  string
	impact string
	steps  []string
}

var proTemplates = map[entity.Category]proTemplate{
	entity.CategoryProfileCompleteness: {
		title:  "Complete every profile field",
		impact: "Matches the completeness of the leading competitors",
		steps: []string{
			"Fill in hours, phone, website and a keyword-rich description.",
			"Add a primary category plus every accurate secondary category.",
			"List your services or products on the profile.",
		},
	},
	entity.CategoryVisualAssets: {
		title:  "Match the photo volume of top competitors",
		impact: "More profile views and direction requests",
		steps: []string{
			"Upload exterior, interior and team photos.",
			"Add photos of finished work or best-selling products.",
			"Keep adding new photos every month.",
		},
	},
	entity.CategoryReviewPerformance: {
		title:  "Run a review acquisition campaign",
		impact: "Closes the review gap that drives local ranking",
		steps: []string{
			"Send a review request link after every completed job.",
			"Reply to all reviews, starting with the negative ones.",
			"Track the review count weekly until you pass the leaders.",
		},
	},
	entity.CategoryPostingActivity: {
		title:  "Post updates every week",
		impact: "Signals an active business to searchers and ranking systems",
		steps: []string{
			"Publish an offer, event or news post each week.",
			"Include a photo and a clear call to action in each post.",
		},
	},
	entity.CategoryCitations: {
		title:  "Fix name, address and phone consistency",
		impact: "Removes conflicting signals across the web",
		steps: []string{
			"Make sure your website shows the exact name, address and phone of the listing.",
			"Update the major directories to the same details.",
		},
	},
}

// TopAverage averages each category over the highest-scoring competitors.
// Competitors without scores are ignored; ties keep locator order.
func TopAverage(competitors []entity.CompetitorProfile, n int) map[entity.Category]float64 {
	scored := make([]entity.CompetitorProfile, 0, len(competitors))
	for _, c := range competitors {
		if c.OverallScore != nil && len(c.Scores) > 0 {
			scored = append(scored, c)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].OverallScore > *scored[j].OverallScore
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	if len(scored) == 0 {
		return nil
	}

	sums := map[entity.Category]float64{}
	for _, c := range scored {
		for _, s := range c.Scores {
			sums[s.Category] += float64(s.Score)
		}
	}
	for k := range sums {
		sums[k] /= float64(len(scored))
	}
	return sums
}

// ImpactPercent converts a gap in points into the share of the overall score
// it represents, bounded to [1, 40].
func ImpactPercent(gapPoints float64, categoryMax int, weight float64) int {
	if categoryMax <= 0 {
		return 1
	}
	fraction := gapPoints / float64(categoryMax)
	impact := math.Round(100 * stats.Clamp(fraction*weight, 0, 40))
	return int(stats.Clamp(impact, 1, 40))
}

// Pro compares the subject's point-table scores against the top competitors.
func Pro(subject []entity.CategoryScore, competitors []entity.CompetitorProfile) []entity.Recommendation {
	leaders := TopAverage(competitors, proTopCompetitors)
	if leaders == nil {
		return []entity.Recommendation{}
	}

	var items []entity.Recommendation
	for _, s := range subject {
		weight, ok := ProWeights[s.Category]
		if !ok {
			continue
		}
		gap := leaders[s.Category] - float64(s.Score)
		if gap <= ProGapThreshold {
			continue
		}
		tpl := proTemplates[s.Category]

		priority := entity.PriorityImportant
		if gap >= ProCriticalGap {
			priority = entity.PriorityCritical
		}
		item := newItem(priority, s.Category, tpl.title,
			fmt.Sprintf("Top competitors average %.0f of %d in %s; you scored %d.",
				leaders[s.Category], s.Max, scoring.Label(s.Category), s.Score),
			tpl.impact, tpl.steps...)
		impact := ImpactPercent(gap, s.Max, weight)
		item.ImpactPercent = &impact
		items = append(items, item)
	}

	return Finalize(items, MaxProItems)
}
