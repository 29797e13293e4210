package locator

import (
	"math"

	"github.com/octobees/presence-audit/internal/entity"
)

const (
	earthRadiusMiles = 3958.76
	metersPerMile    = 1609.34
)

// ProRadiiMiles are the radii a Pro audit may search.
var ProRadiiMiles = []float64{1, 2, 3, 5}

// DistanceMiles is the great-circle distance between two points.
func DistanceMiles(a, b entity.GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// MilesToMeters converts a radius for the provider.
func MilesToMeters(miles float64) float64 {
	return miles * metersPerMile
}

// SnapRadius maps a requested radius in meters to the nearest allowed Pro
// radius. changed reports whether the request was adjusted.
func SnapRadius(meters float64) (snapped float64, changed bool) {
	requested := meters / metersPerMile
	best := ProRadiiMiles[0]
	for _, r := range ProRadiiMiles[1:] {
		if math.Abs(r-requested) < math.Abs(best-requested) {
			best = r
		}
	}
	snapped = MilesToMeters(best)
	return snapped, math.Abs(snapped-meters) > 1
}
