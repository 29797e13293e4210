package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	placesapi "google.golang.org/api/places/v1"

	"github.com/octobees/presence-audit/internal/apperror"
	"github.com/octobees/presence-audit/internal/entity"
)

const (
	defaultNearbyResults = 20
	photoMediaBase       = "https://places.googleapis.com/v1/"
	photoPreviewWidth    = 400
)

// GoogleProvider adapts the Places API (New) to Provider.
type GoogleProvider struct {
	service  *placesapi.Service
	apiKey   string
	language string
	timeout  time.Duration
	logger   *zap.Logger
}

// GoogleOption configures the adapter.
type GoogleOption func(*googleSettings)

type googleSettings struct {
	language   string
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// WithLanguage sets the response language code.
func WithLanguage(code string) GoogleOption {
	return func(s *googleSettings) {
		s.language = strings.TrimSpace(code)
	}
}

// WithEndpoint points the adapter at a different base URL.
func WithEndpoint(endpoint string) GoogleOption {
	return func(s *googleSettings) {
		s.endpoint = endpoint
	}
}

// WithHTTPClient overrides the transport used for API calls.
func WithHTTPClient(client *http.Client) GoogleOption {
	return func(s *googleSettings) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithTimeout bounds every API call.
func WithTimeout(d time.Duration) GoogleOption {
	return func(s *googleSettings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) GoogleOption {
	return func(s *googleSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewGoogleProvider fails with a configuration error when no key is set,
// before any call is made.
func NewGoogleProvider(ctx context.Context, apiKey string, opts ...GoogleOption) (*GoogleProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, apperror.Configuration("places api key is not configured")
	}

	settings := googleSettings{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&settings)
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if settings.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(settings.endpoint))
	}
	if settings.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(settings.httpClient))
	}

	svc, err := placesapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, apperror.Configuration("failed to create places client").WithCause(err)
	}

	return &GoogleProvider{
		service:  svc,
		apiKey:   apiKey,
		language: settings.language,
		timeout:  settings.timeout,
		logger:   settings.logger,
	}, nil
}

// Predict implements Provider using place autocomplete.
func (g *GoogleProvider) Predict(ctx context.Context, query string) ([]entity.PlacePrediction, error) {
	req := &placesapi.GoogleMapsPlacesV1AutocompletePlacesRequest{
		Input:        query,
		LanguageCode: g.language,
	}
	ctx, cancel := g.callContext(ctx)
	defer cancel()
	resp, err := g.service.Places.Autocomplete(req).Context(ctx).Do()
	if err != nil {
		return nil, g.translate("autocomplete", err)
	}

	predictions := make([]entity.PlacePrediction, 0, len(resp.Suggestions))
	for _, s := range resp.Suggestions {
		if s == nil || s.PlacePrediction == nil || s.PlacePrediction.PlaceId == "" {
			continue
		}
		description := ""
		if s.PlacePrediction.Text != nil {
			description = s.PlacePrediction.Text.Text
		}
		predictions = append(predictions, entity.PlacePrediction{
			Description: description,
			PlaceID:     s.PlacePrediction.PlaceId,
		})
	}
	return predictions, nil
}

// Details implements Provider.
func (g *GoogleProvider) Details(ctx context.Context, placeID string, fields []string) (json.RawMessage, error) {
	placeID = strings.TrimPrefix(strings.TrimSpace(placeID), "places/")
	if placeID == "" {
		return nil, apperror.InvalidReference(placeID)
	}

	ctx, cancel := g.callContext(ctx)
	defer cancel()
	call := g.service.Places.Get("places/" + placeID).Context(ctx)
	if len(fields) > 0 {
		call = call.Fields(toFields(fields)...)
	}
	if g.language != "" {
		call = call.LanguageCode(g.language)
	}

	place, err := call.Do()
	if err != nil {
		return nil, g.translate("place details", err)
	}
	return json.Marshal(place)
}

// NearbySearch implements Provider. A keyword switches to a text search
// biased to the same circle, since nearby search has no free-text filter.
func (g *GoogleProvider) NearbySearch(ctx context.Context, req NearbyRequest) ([]json.RawMessage, error) {
	limit := int64(req.MaxResults)
	if limit <= 0 || limit > defaultNearbyResults {
		limit = defaultNearbyResults
	}
	circle := &placesapi.GoogleMapsPlacesV1Circle{
		Center: &placesapi.GoogleTypeLatLng{
			Latitude:  req.Location.Lat,
			Longitude: req.Location.Lng,
		},
		Radius: req.RadiusMeters,
	}

	ctx, cancel := g.callContext(ctx)
	defer cancel()

	var found []*placesapi.GoogleMapsPlacesV1Place
	if keyword := strings.TrimSpace(req.Keyword); keyword != "" {
		textReq := &placesapi.GoogleMapsPlacesV1SearchTextRequest{
			TextQuery:      keyword,
			LanguageCode:   g.language,
			MaxResultCount: limit,
			LocationBias: &placesapi.GoogleMapsPlacesV1SearchTextRequestLocationBias{
				Circle: circle,
			},
		}
		if req.CategoryHint != "" {
			textReq.IncludedType = req.CategoryHint
		}
		resp, err := g.service.Places.SearchText(textReq).Context(ctx).Fields(nearbyFieldMask()...).Do()
		if err != nil {
			return nil, g.translate("text search", err)
		}
		found = resp.Places
	} else {
		nearbyReq := &placesapi.GoogleMapsPlacesV1SearchNearbyRequest{
			LanguageCode:   g.language,
			MaxResultCount: limit,
			LocationRestriction: &placesapi.GoogleMapsPlacesV1SearchNearbyRequestLocationRestriction{
				Circle: circle,
			},
		}
		if req.CategoryHint != "" {
			nearbyReq.IncludedTypes = []string{req.CategoryHint}
		}
		resp, err := g.service.Places.SearchNearby(nearbyReq).Context(ctx).Fields(nearbyFieldMask()...).Do()
		if err != nil {
			return nil, g.translate("nearby search", err)
		}
		found = resp.Places
	}

	out := make([]json.RawMessage, 0, len(found))
	for _, p := range found {
		if p == nil {
			continue
		}
		raw, err := json.Marshal(p)
		if err != nil {
			g.logger.Warn("Skipping unencodable place", zap.String("place_id", p.Id), zap.Error(err))
			continue
		}
		out = append(out, raw)
	}
	return out, nil
}

// PhotoURL builds the media URL for a photo resource name.
func (g *GoogleProvider) PhotoURL(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || g == nil {
		return ""
	}
	values := url.Values{}
	values.Set("maxWidthPx", fmt.Sprint(photoPreviewWidth))
	values.Set("key", g.apiKey)
	return photoMediaBase + name + "/media?" + values.Encode()
}

func (g *GoogleProvider) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

func (g *GoogleProvider) translate(operation string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return apperror.New(apperror.CodeNotFound, "no matching business was found").WithCause(err)
		case http.StatusBadRequest:
			if operation == "place details" {
				return apperror.New(apperror.CodeInvalidReference, "the place reference could not be resolved").WithCause(err)
			}
		}
	}
	g.logger.Warn("Places API call failed", zap.String("operation", operation), zap.Error(err))
	return apperror.ProviderUnavailable(operation, err)
}

func toFields(fields []string) []googleapi.Field {
	out := make([]googleapi.Field, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, googleapi.Field(f))
		}
	}
	return out
}

func nearbyFieldMask() []googleapi.Field {
	fields := make([]string, 0, len(CompetitorFields))
	for _, f := range CompetitorFields {
		fields = append(fields, "places."+f)
	}
	return toFields(fields)
}
