// Package recommend builds the prioritized action plan attached to a result.
package recommend

import (
	"regexp"
	"sort"
	"strings"

	"github.com/octobees/presence-audit/internal/entity"
)

// Display caps per tier.
const (
	MaxStandardItems = 12
	MaxProItems      = 10
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a recommendation id from its priority and title.
func Slug(priority entity.Priority, title string) string {
	raw := strings.ToLower(string(priority) + "-" + title)
	return strings.Trim(nonSlug.ReplaceAllString(raw, "-"), "-")
}

func newItem(priority entity.Priority, category entity.Category, title, rationale, impact string, steps ...string) entity.Recommendation {
	return entity.Recommendation{
		ID:             Slug(priority, title),
		Priority:       priority,
		Category:       category,
		Title:          title,
		Rationale:      rationale,
		ExpectedImpact: impact,
		Steps:          steps,
	}
}

// Finalize stable-sorts by priority, drops repeated ids and caps the list.
func Finalize(items []entity.Recommendation, limit int) []entity.Recommendation {
	sorted := append([]entity.Recommendation(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
	})

	seen := make(map[string]struct{}, len(sorted))
	out := make([]entity.Recommendation, 0, len(sorted))
	for _, item := range sorted {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
