package scoring

import (
	"strings"

	"github.com/octobees/presence-audit/internal/entity"
)

// Photo count ranges.
const (
	PhotosUnder10 = "0-9"
	Photos10To24  = "10-24"
	Photos25To49  = "25-49"
	Photos50Plus  = "50+"
)

// Review count ranges.
const (
	ReviewsUnder10 = "0-9"
	Reviews10To24  = "10-24"
	Reviews25To49  = "25-49"
	Reviews50To99  = "50-99"
	Reviews100Plus = "100+"
)

// Rating ranges.
const (
	RatingBelow4 = "below-4.0"
	Rating40To42 = "4.0-4.2"
	Rating43To45 = "4.3-4.5"
	Rating46To48 = "4.6-4.8"
	Rating49To50 = "4.9-5.0"
)

// Posting frequencies.
const (
	PostWeekly  = "weekly"
	PostMonthly = "monthly"
	PostRarely  = "rarely"
)

// Category maxes of the point table. They total 100.
const (
	MaxProfilePoints   = 30
	MaxVisualPoints    = 25
	MaxReviewPoints    = 25
	MaxPostingPoints   = 10
	MaxCitationsPoints = 10
)

// PointTable holds the weights and bucket tables of the self-audit.
type PointTable struct {
	Hours, Phone, Website, Description, Services int
	PrimaryCategory, SecondaryCategories         int

	Photos      map[string]int
	ReviewCount map[string]int
	Rating      map[string]int
	Posting     map[string]int
	PostedBonus int

	NameConsistent, AddressConsistent, PhoneConsistent, Directories int
}

// DefaultPointTable returns the table used by the Self and Pro tiers.
func DefaultPointTable() PointTable {
	return PointTable{
		Hours:               5,
		Phone:               5,
		Website:             5,
		Description:         4,
		Services:            3,
		PrimaryCategory:     5,
		SecondaryCategories: 3,
		Photos: map[string]int{
			PhotosUnder10: 5,
			Photos10To24:  12,
			Photos25To49:  18,
			Photos50Plus:  25,
		},
		ReviewCount: map[string]int{
			ReviewsUnder10: 0,
			Reviews10To24:  4,
			Reviews25To49:  8,
			Reviews50To99:  12,
			Reviews100Plus: 15,
		},
		Rating: map[string]int{
			RatingBelow4: 0,
			Rating40To42: 3,
			Rating43To45: 6,
			Rating46To48: 8,
			Rating49To50: 10,
		},
		Posting: map[string]int{
			PostWeekly:  7,
			PostMonthly: 4,
			PostRarely:  1,
		},
		PostedBonus:       3,
		NameConsistent:    3,
		AddressConsistent: 3,
		PhoneConsistent:   2,
		Directories:       2,
	}
}

// PointTableStrategy scores discrete self-audit answers. Overall is the sum.
type PointTableStrategy struct {
	Table PointTable
}

// NewPointTableStrategy uses DefaultPointTable.
func NewPointTableStrategy() PointTableStrategy {
	return PointTableStrategy{Table: DefaultPointTable()}
}

// Categories implements Strategy.
func (s PointTableStrategy) Categories(in Input) []Partial {
	t := s.Table
	c := in.Checklist
	a := in.Answers

	profile := 0
	profile += award(c.HasHours, t.Hours)
	profile += award(c.HasPhone, t.Phone)
	profile += award(c.HasWebsite, t.Website)
	profile += award(c.HasDescription, t.Description)
	profile += award(c.HasServices, t.Services)
	profile += award(c.HasPrimaryCategory, t.PrimaryCategory)
	profile += award(c.HasSecondaryCategories, t.SecondaryCategories)

	visual := lookup(t.Photos, a.PhotoCountRange)
	reviews := lookup(t.ReviewCount, a.ReviewCountRange) + lookup(t.Rating, a.RatingRange)
	posting := lookup(t.Posting, a.PostFrequency) + award(c.PostedLast30Days, t.PostedBonus)

	citations := 0
	citations += award(c.NameConsistent, t.NameConsistent)
	citations += award(c.AddressConsistent, t.AddressConsistent)
	citations += award(c.PhoneConsistent, t.PhoneConsistent)
	citations += award(c.ListedInDirectories, t.Directories)

	return []Partial{
		{Category: entity.CategoryProfileCompleteness, Points: float64(profile), Max: MaxProfilePoints},
		{Category: entity.CategoryVisualAssets, Points: float64(visual), Max: MaxVisualPoints},
		{Category: entity.CategoryReviewPerformance, Points: float64(reviews), Max: MaxReviewPoints},
		{Category: entity.CategoryPostingActivity, Points: float64(posting), Max: MaxPostingPoints},
		{Category: entity.CategoryCitations, Points: float64(citations), Max: MaxCitationsPoints},
	}
}

// Overall implements Strategy.
func (PointTableStrategy) Overall(scores []entity.CategoryScore) int {
	return SumOverall(scores)
}

func award(ok bool, points int) int {
	if ok {
		return points
	}
	return 0
}

func lookup(table map[string]int, key string) int {
	return table[strings.ToLower(strings.TrimSpace(key))]
}
