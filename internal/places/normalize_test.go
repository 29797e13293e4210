package places

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCurrentShape(t *testing.T) {
	raw := `{
	  "id": "ChIJ123",
	  "displayName": {"text": "Acme Salon", "languageCode": "en"},
	  "formattedAddress": "12 Main St, Springfield, IL 62701",
	  "businessStatus": "OPERATIONAL",
	  "types": ["hair_care", "point_of_interest"],
	  "rating": 4.6,
	  "userRatingCount": 87,
	  "nationalPhoneNumber": "(217) 555-0100",
	  "websiteUri": "https://acme.example/",
	  "regularOpeningHours": {"openNow": true, "weekdayDescriptions": ["Monday: 9:00 AM – 5:00 PM", "Tuesday: Closed"]},
	  "editorialSummary": {"text": "Neighbourhood hair salon."},
	  "photos": [{"name": "places/ChIJ123/photos/a", "widthPx": 1200, "heightPx": 800}],
	  "reviews": [{"rating": 5, "publishTime": "2025-03-01T08:30:00Z", "text": {"text": "Lovely"}}],
	  "location": {"latitude": 39.78, "longitude": -89.65}
	}`

	n := Normalizer{PhotoURL: func(ref string) string { return "https://img/" + ref }}
	p := n.Normalize([]byte(raw))

	assert.Equal(t, "ChIJ123", p.ID)
	assert.Equal(t, "Acme Salon", p.Name)
	assert.Equal(t, "12 Main St, Springfield, IL 62701", p.FormattedAddress)
	assert.Equal(t, "OPERATIONAL", p.Status)
	assert.Equal(t, []string{"hair_care", "point_of_interest"}, p.Categories)
	assert.Equal(t, 4.6, p.Rating)
	assert.Equal(t, 87, p.ReviewCount)
	assert.Equal(t, "(217) 555-0100", p.Phone)
	assert.Equal(t, "https://acme.example/", p.Website)
	assert.Equal(t, []string{"Monday: 9:00 AM – 5:00 PM", "Tuesday: Closed"}, p.OpeningHours.WeekdayText)
	require.NotNil(t, p.OpeningHours.OpenNow)
	assert.True(t, *p.OpeningHours.OpenNow)
	assert.Equal(t, "Neighbourhood hair salon.", p.Description)
	require.Len(t, p.Photos, 1)
	assert.Equal(t, 1200, p.Photos[0].Width)
	assert.Equal(t, "https://img/places/ChIJ123/photos/a", p.Photos[0].PreviewURL)
	require.Len(t, p.Reviews, 1)
	assert.Equal(t, time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC), p.Reviews[0].Time.UTC())
	assert.Equal(t, "Lovely", p.Reviews[0].Text)
	require.NotNil(t, p.Location)
	assert.Equal(t, 39.78, p.Location.Lat)
	assert.Equal(t, -89.65, p.Location.Lng)
}

func TestNormalizeLegacyShape(t *testing.T) {
	raw := `{
	  "place_id": "legacy-1",
	  "name": "Old Diner",
	  "formatted_address": "5 Elm St, Dayton, OH",
	  "user_ratings_total": 12,
	  "rating": 3.9,
	  "website": "http://olddiner.example",
	  "opening_hours": {"open_now": false, "weekday_text": ["Monday: 7AM-3PM"]},
	  "reviews": [{"rating": 4, "time": 1700000000, "text": "Solid pancakes"}],
	  "geometry": {"location": {"lat": 39.75, "lng": -84.19}}
	}`

	p := Normalizer{}.Normalize([]byte(raw))

	assert.Equal(t, "legacy-1", p.ID)
	assert.Equal(t, "Old Diner", p.Name)
	assert.Equal(t, 12, p.ReviewCount)
	require.NotNil(t, p.OpeningHours.OpenNow)
	assert.False(t, *p.OpeningHours.OpenNow)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), p.Reviews[0].Time)
	assert.Equal(t, "Solid pancakes", p.Reviews[0].Text)
	require.NotNil(t, p.Location)
	assert.Equal(t, -84.19, p.Location.Lng)
}

func TestNormalizeCapsPhotosAndReviews(t *testing.T) {
	photos := make([]string, 40)
	for i := range photos {
		photos[i] = fmt.Sprintf(`{"name":"p%d","widthPx":%d}`, i, i)
	}
	reviews := make([]string, 15)
	for i := range reviews {
		reviews[i] = fmt.Sprintf(`{"rating":%d}`, i%5+1)
	}
	raw := fmt.Sprintf(`{"photos":[%s],"reviews":[%s]}`, strings.Join(photos, ","), strings.Join(reviews, ","))

	p := Normalizer{}.Normalize([]byte(raw))

	require.Len(t, p.Photos, 25)
	require.Len(t, p.Reviews, 10)
	assert.Equal(t, 0, p.Photos[0].Width)
	assert.Equal(t, 24, p.Photos[24].Width)
	assert.Empty(t, p.Photos[0].PreviewURL)
}

func TestNormalizeIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"null",
		"[]",
		"not json",
		`{"location":{"latitude":"39.7","longitude":-89.6}}`,
		`{"location":{"latitude":39.7}}`,
		`{"rating":"high","userRatingCount":null,"types":"salon","photos":{"a":1}}`,
	}
	for _, raw := range inputs {
		p := Normalizer{}.Normalize([]byte(raw))
		assert.Nil(t, p.Location, "input %q", raw)
		assert.NotNil(t, p.Categories, "input %q", raw)
		assert.NotNil(t, p.Photos, "input %q", raw)
		assert.NotNil(t, p.Reviews, "input %q", raw)
		assert.Zero(t, p.Rating, "input %q", raw)
	}
}
