package places

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/octobees/presence-audit/internal/entity"
)

// PhotoURLFunc turns a provider photo reference into a preview URL.
type PhotoURLFunc func(ref string) string

// Normalizer maps raw provider records onto PlaceProfile. It accepts both the
// current Places API shape and the legacy Place Details shape.
type Normalizer struct {
	PhotoURL PhotoURLFunc
}

// Normalize never fails: absent or malformed fields fall back to zero values.
func (n Normalizer) Normalize(raw []byte) entity.PlaceProfile {
	profile := entity.PlaceProfile{
		Categories: []string{},
		Photos:     []entity.Photo{},
		Reviews:    []entity.Review{},
		OpeningHours: entity.OpeningHours{
			WeekdayText: []string{},
		},
	}
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return profile
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return profile
	}

	profile.ID = placeID(doc)
	profile.Name = displayName(doc)
	profile.FormattedAddress = first(doc, "formattedAddress", "formatted_address").String()
	profile.Status = first(doc, "businessStatus", "business_status").String()
	profile.Rating = number(first(doc, "rating"))
	profile.ReviewCount = int(number(first(doc, "userRatingCount", "user_ratings_total")))
	profile.Phone = first(doc, "nationalPhoneNumber", "formatted_phone_number",
		"internationalPhoneNumber", "international_phone_number").String()
	profile.Website = first(doc, "websiteUri", "website").String()
	profile.Description = first(doc, "editorialSummary.text", "editorial_summary.overview").String()

	for _, t := range arrayOf(doc.Get("types")) {
		if s := strings.TrimSpace(t.String()); s != "" {
			profile.Categories = append(profile.Categories, s)
		}
	}

	for _, line := range arrayOf(first(doc, "regularOpeningHours.weekdayDescriptions", "opening_hours.weekday_text")) {
		profile.OpeningHours.WeekdayText = append(profile.OpeningHours.WeekdayText, line.String())
	}
	if open := first(doc, "currentOpeningHours.openNow", "regularOpeningHours.openNow", "opening_hours.open_now"); open.Type == gjson.True || open.Type == gjson.False {
		v := open.Bool()
		profile.OpeningHours.OpenNow = &v
	}

	for _, p := range arrayOf(doc.Get("photos")) {
		if len(profile.Photos) == entity.MaxPhotos {
			break
		}
		photo := entity.Photo{
			Width:  int(number(first(p, "widthPx", "width"))),
			Height: int(number(first(p, "heightPx", "height"))),
		}
		if ref := first(p, "name", "photo_reference").String(); ref != "" && n.PhotoURL != nil {
			photo.PreviewURL = n.PhotoURL(ref)
		}
		profile.Photos = append(profile.Photos, photo)
	}

	for _, r := range arrayOf(doc.Get("reviews")) {
		if len(profile.Reviews) == entity.MaxReviews {
			break
		}
		profile.Reviews = append(profile.Reviews, entity.Review{
			Rating: number(r.Get("rating")),
			Time:   reviewTime(r),
			Text:   reviewText(r),
		})
	}

	profile.Location = location(doc)
	return profile
}

func placeID(doc gjson.Result) string {
	if id := first(doc, "id", "place_id").String(); id != "" {
		return id
	}
	if name := doc.Get("name").String(); strings.HasPrefix(name, "places/") {
		return strings.TrimPrefix(name, "places/")
	}
	return ""
}

func displayName(doc gjson.Result) string {
	if name := doc.Get("displayName.text").String(); name != "" {
		return name
	}
	if dn := doc.Get("displayName"); dn.Type == gjson.String {
		return dn.String()
	}
	if name := doc.Get("name").String(); !strings.HasPrefix(name, "places/") {
		return name
	}
	return ""
}

func reviewTime(r gjson.Result) time.Time {
	if published := r.Get("publishTime").String(); published != "" {
		if t, err := time.Parse(time.RFC3339, published); err == nil {
			return t
		}
	}
	if ts := r.Get("time"); ts.Type == gjson.Number && ts.Int() > 0 {
		return time.Unix(ts.Int(), 0).UTC()
	}
	return time.Time{}
}

func reviewText(r gjson.Result) string {
	text := r.Get("text")
	if text.IsObject() {
		return text.Get("text").String()
	}
	return text.String()
}

// location requires both coordinates to be numeric.
func location(doc gjson.Result) *entity.GeoPoint {
	pairs := [][2]string{
		{"location.latitude", "location.longitude"},
		{"geometry.location.lat", "geometry.location.lng"},
	}
	for _, pair := range pairs {
		lat, lng := doc.Get(pair[0]), doc.Get(pair[1])
		if lat.Type == gjson.Number && lng.Type == gjson.Number {
			return &entity.GeoPoint{Lat: lat.Float(), Lng: lng.Float()}
		}
	}
	return nil
}

func first(doc gjson.Result, paths ...string) gjson.Result {
	for _, path := range paths {
		if r := doc.Get(path); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func number(r gjson.Result) float64 {
	if r.Type != gjson.Number {
		return 0
	}
	return r.Float()
}

// arrayOf returns the elements of r only when r is a JSON array.
func arrayOf(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	return r.Array()
}
