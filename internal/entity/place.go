package entity

import "time"

// Ingestion caps applied by the normalizer.
const (
	MaxPhotos  = 25
	MaxReviews = 10
)

// PlaceProfile is the canonical business record every tier works from.
type PlaceProfile struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	FormattedAddress string       `json:"formatted_address"`
	Status           string       `json:"status"`
	Categories       []string     `json:"categories"`
	Rating           float64      `json:"rating"`
	ReviewCount      int          `json:"review_count"`
	Phone            string       `json:"phone"`
	Website          string       `json:"website"`
	OpeningHours     OpeningHours `json:"opening_hours"`
	Description      string       `json:"description"`
	Photos           []Photo      `json:"photos"`
	Reviews          []Review     `json:"reviews"`
	Location         *GeoPoint    `json:"location,omitempty"`
}

// OpeningHours keeps the provider's weekday lines verbatim.
type OpeningHours struct {
	WeekdayText []string `json:"weekday_text"`
	OpenNow     *bool    `json:"open_now,omitempty"`
}

// Photo describes a single listing photo.
type Photo struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	PreviewURL string `json:"preview_url"`
}

// Review is a single customer review. Time is zero when the provider omits it.
type Review struct {
	Rating float64   `json:"rating"`
	Time   time.Time `json:"time"`
	Text   string    `json:"text"`
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlacePrediction is an autocomplete suggestion.
type PlacePrediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

// PhotoCount returns the number of ingested photos.
func (p PlaceProfile) PhotoCount() int {
	return len(p.Photos)
}

// HasHours reports whether any weekday text was returned.
func (p PlaceProfile) HasHours() bool {
	return len(p.OpeningHours.WeekdayText) > 0
}

// RecentReviewCount counts reviews published within the window ending at now.
func (p PlaceProfile) RecentReviewCount(now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	count := 0
	for _, r := range p.Reviews {
		if r.Time.IsZero() {
			continue
		}
		if r.Time.After(cutoff) && !r.Time.After(now) {
			count++
		}
	}
	return count
}

// HasReviewTimestamps reports whether at least one review carries a publish time.
func (p PlaceProfile) HasReviewTimestamps() bool {
	for _, r := range p.Reviews {
		if !r.Time.IsZero() {
			return true
		}
	}
	return false
}
