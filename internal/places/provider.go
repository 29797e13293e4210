// Package places talks to the place data provider and turns its records into
// canonical profiles.
package places

import (
	"context"
	"encoding/json"

	"github.com/octobees/presence-audit/internal/apperror"
	"github.com/octobees/presence-audit/internal/entity"
)

// NearbyRequest bounds a competitor search.
type NearbyRequest struct {
	Location     entity.GeoPoint
	RadiusMeters float64
	CategoryHint string
	Keyword      string
	MaxResults   int
}

// Provider is the contract every place data source satisfies. Raw records
// are handed to the Normalizer untouched.
type Provider interface {
	Predict(ctx context.Context, query string) ([]entity.PlacePrediction, error)
	Details(ctx context.Context, placeID string, fields []string) (json.RawMessage, error)
	NearbySearch(ctx context.Context, req NearbyRequest) ([]json.RawMessage, error)
}

// SubjectFields is the field list requested for the audited business.
var SubjectFields = []string{
	"id",
	"displayName",
	"formattedAddress",
	"businessStatus",
	"types",
	"rating",
	"userRatingCount",
	"nationalPhoneNumber",
	"internationalPhoneNumber",
	"websiteUri",
	"regularOpeningHours",
	"editorialSummary",
	"photos",
	"reviews",
	"location",
}

// CompetitorFields is the lighter list requested per competitor.
var CompetitorFields = []string{
	"id",
	"displayName",
	"formattedAddress",
	"types",
	"rating",
	"userRatingCount",
	"nationalPhoneNumber",
	"websiteUri",
	"regularOpeningHours",
	"editorialSummary",
	"photos",
	"reviews",
	"location",
}

// Unconfigured stands in for a provider that could not be built, usually for
// a missing API key. Every call returns Err, or a generic configuration error
// when Err is nil.
type Unconfigured struct {
	Err error
}

func (u Unconfigured) cause() error {
	if u.Err == nil {
		return apperror.Configuration("place data provider is not configured")
	}
	return u.Err
}

func (u Unconfigured) Predict(context.Context, string) ([]entity.PlacePrediction, error) {
	return nil, u.cause()
}

func (u Unconfigured) Details(context.Context, string, []string) (json.RawMessage, error) {
	return nil, u.cause()
}

func (u Unconfigured) NearbySearch(context.Context, NearbyRequest) ([]json.RawMessage, error) {
	return nil, u.cause()
}

// Ready reports the configuration error of an Unconfigured provider, so
// callers can fail before charging any quota.
func Ready(p Provider) error {
	switch u := p.(type) {
	case Unconfigured:
		return u.cause()
	case *Unconfigured:
		return u.cause()
	case nil:
		return apperror.Configuration("no place data provider configured")
	}
	return nil
}
