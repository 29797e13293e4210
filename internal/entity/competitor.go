package entity

// CompetitorProfile is the lighter view of a nearby business used for benchmarking.
// Values are built once by the locator and not modified afterwards.
type CompetitorProfile struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	Categories    []string        `json:"categories"`
	Rating        float64         `json:"rating"`
	ReviewCount   int             `json:"review_count"`
	PhotoCount    int             `json:"photo_count"`
	HasWebsite    bool            `json:"has_website"`
	HasPhone      bool            `json:"has_phone"`
	HasHours      bool            `json:"has_hours"`
	Location      *GeoPoint       `json:"location,omitempty"`
	DistanceMiles *float64        `json:"distance_miles,omitempty"`
	Scores        []CategoryScore `json:"scores,omitempty"`
	OverallScore  *int            `json:"overall_score,omitempty"`
}

// CompetitorOption decorates a competitor at construction time.
type CompetitorOption func(*CompetitorProfile)

// WithDistance records the straight-line distance from the subject.
func WithDistance(miles float64) CompetitorOption {
	return func(c *CompetitorProfile) {
		c.DistanceMiles = &miles
	}
}

// WithScores attaches per-category scores and the overall score.
func WithScores(scores []CategoryScore, overall int) CompetitorOption {
	return func(c *CompetitorProfile) {
		c.Scores = append([]CategoryScore(nil), scores...)
		c.OverallScore = &overall
	}
}

// NewCompetitorProfile derives a competitor view from a normalized place.
func NewCompetitorProfile(p PlaceProfile, opts ...CompetitorOption) CompetitorProfile {
	c := CompetitorProfile{
		ID:          p.ID,
		Name:        p.Name,
		Address:     p.FormattedAddress,
		Categories:  append([]string(nil), p.Categories...),
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		PhotoCount:  p.PhotoCount(),
		HasWebsite:  p.Website != "",
		HasPhone:    p.Phone != "",
		HasHours:    p.HasHours(),
	}
	if p.Location != nil {
		loc := *p.Location
		c.Location = &loc
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
