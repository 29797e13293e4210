package locator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/octobees/presence-audit/internal/apperror"
	"github.com/octobees/presence-audit/internal/entity"
	"github.com/octobees/presence-audit/internal/places"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Predict(ctx context.Context, query string) ([]entity.PlacePrediction, error) {
	args := m.Called(ctx, query)
	predictions, _ := args.Get(0).([]entity.PlacePrediction)
	return predictions, args.Error(1)
}

func (m *mockProvider) Details(ctx context.Context, placeID string, fields []string) (json.RawMessage, error) {
	args := m.Called(ctx, placeID, fields)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *mockProvider) NearbySearch(ctx context.Context, req places.NearbyRequest) ([]json.RawMessage, error) {
	args := m.Called(ctx, req)
	raws, _ := args.Get(0).([]json.RawMessage)
	return raws, args.Error(1)
}

func rawPlace(id string, rating float64, reviews int, lat, lng float64) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"id":%q,"displayName":{"text":"Biz %s"},"types":["hair_care"],"rating":%v,"userRatingCount":%d,"location":{"latitude":%v,"longitude":%v}}`,
		id, id, rating, reviews, lat, lng))
}

func subject() entity.PlaceProfile {
	return entity.PlaceProfile{
		ID:         "self",
		Categories: []string{"point_of_interest", "hair_care"},
		Location:   &entity.GeoPoint{Lat: 40, Lng: -89},
	}
}

type counter struct {
	calls  int
	failAt int
}

func (c *counter) charge(context.Context) error {
	c.calls++
	if c.failAt > 0 && c.calls >= c.failAt {
		return apperror.RateLimitExceeded(c.calls, c.failAt-1)
	}
	return nil
}

func TestStandardSkipsFailedCompetitors(t *testing.T) {
	provider := &mockProvider{}
	results := []json.RawMessage{rawPlace("self", 4, 10, 40, -89)}
	for i := 1; i <= 6; i++ {
		results = append(results, rawPlace(fmt.Sprintf("c%d", i), 4, 10, 40, -89))
	}
	provider.On("NearbySearch", mock.Anything, mock.MatchedBy(func(req places.NearbyRequest) bool {
		return req.CategoryHint == "hair_care" && req.RadiusMeters == 1500
	})).Return(results, nil)
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("c%d", i)
		if i == 2 || i == 4 {
			provider.On("Details", mock.Anything, id, places.CompetitorFields).Return(nil, errors.New("upstream 500"))
			continue
		}
		provider.On("Details", mock.Anything, id, places.CompetitorFields).Return(rawPlace(id, 4.5, 30, 40.01, -89), nil)
	}

	c := &counter{}
	l := New(provider, places.Normalizer{}, WithStandardRadius(1500))
	competitors, err := l.Standard(context.Background(), subject(), c.charge)

	require.NoError(t, err)
	require.Len(t, competitors, 3)
	assert.Equal(t, "c1", competitors[0].ID)
	assert.Equal(t, "c3", competitors[1].ID)
	assert.Equal(t, "c5", competitors[2].ID)
	assert.Equal(t, 6, c.calls, "one search plus five detail lookups")
	provider.AssertNotCalled(t, "Details", mock.Anything, "c6", mock.Anything)
	provider.AssertNotCalled(t, "Details", mock.Anything, "self", mock.Anything)
}

func TestStandardRequiresLocation(t *testing.T) {
	provider := &mockProvider{}
	c := &counter{}
	s := subject()
	s.Location = nil

	_, err := New(provider, places.Normalizer{}).Standard(context.Background(), s, c.charge)

	assert.True(t, apperror.HasCode(err, apperror.CodeMissingLocation))
	assert.Zero(t, c.calls)
	provider.AssertNotCalled(t, "NearbySearch", mock.Anything, mock.Anything)
}

func TestStandardSearchFailureIsFatal(t *testing.T) {
	provider := &mockProvider{}
	provider.On("NearbySearch", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := New(provider, places.Normalizer{}).Standard(context.Background(), subject(), (&counter{}).charge)

	assert.True(t, apperror.HasCode(err, apperror.CodeProviderUnavailable))
}

func TestStandardQuotaExhaustedMidway(t *testing.T) {
	provider := &mockProvider{}
	provider.On("NearbySearch", mock.Anything, mock.Anything).Return([]json.RawMessage{
		rawPlace("c1", 4, 10, 40, -89), rawPlace("c2", 4, 10, 40, -89),
	}, nil)
	provider.On("Details", mock.Anything, "c1", mock.Anything).Return(rawPlace("c1", 4, 10, 40, -89), nil)

	c := &counter{failAt: 3}
	_, err := New(provider, places.Normalizer{}).Standard(context.Background(), subject(), c.charge)

	assert.True(t, apperror.HasCode(err, apperror.CodeRateLimitExceeded))
	provider.AssertNotCalled(t, "Details", mock.Anything, "c2", mock.Anything)
}

func TestStandardCancelledContextIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := &mockProvider{}
	provider.On("NearbySearch", mock.Anything, mock.Anything).Return([]json.RawMessage{
		rawPlace("c1", 4, 10, 40, -89), rawPlace("c2", 4, 10, 40, -89),
	}, nil)
	provider.On("Details", mock.Anything, "c1", mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)

	_, err := New(provider, places.Normalizer{}).Standard(ctx, subject(), (&counter{}).charge)

	assert.True(t, apperror.HasCode(err, apperror.CodeProviderUnavailable))
	assert.ErrorIs(t, err, context.Canceled)
	provider.AssertNotCalled(t, "Details", mock.Anything, "c2", mock.Anything)
}

type panickingProvider struct {
	mockProvider
}

func (p *panickingProvider) Details(context.Context, string, []string) (json.RawMessage, error) {
	panic("nil map write")
}

func TestStandardRecoversFromPanickingLookup(t *testing.T) {
	provider := &panickingProvider{}
	provider.On("NearbySearch", mock.Anything, mock.Anything).Return([]json.RawMessage{rawPlace("c1", 4, 10, 40, -89)}, nil)

	competitors, err := New(provider, places.Normalizer{}).Standard(context.Background(), subject(), (&counter{}).charge)

	require.NoError(t, err)
	assert.Empty(t, competitors)
}

func TestProRanksByStrengthAndScores(t *testing.T) {
	provider := &mockProvider{}
	var results []json.RawMessage
	for i := 1; i <= 12; i++ {
		results = append(results, rawPlace(fmt.Sprintf("c%d", i), 4.0, i*10, 40, -89))
	}
	provider.On("NearbySearch", mock.Anything, mock.MatchedBy(func(req places.NearbyRequest) bool {
		return req.RadiusMeters == MilesToMeters(2)
	})).Return(results, nil)
	provider.On("Details", mock.Anything, mock.Anything, places.CompetitorFields).Return(rawPlace("x", 4.7, 120, 40.1, -89), nil)

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	c := &counter{}
	res, err := New(provider, places.Normalizer{}, WithClock(func() time.Time { return now })).
		Pro(context.Background(), subject(), 2500, c.charge)

	require.NoError(t, err)
	assert.Equal(t, MilesToMeters(2), res.RadiusMeters)
	require.Len(t, res.Notes, 1)
	require.Len(t, res.Competitors, 10)
	assert.Equal(t, 11, c.calls)

	provider.AssertCalled(t, "Details", mock.Anything, "c12", places.CompetitorFields)
	provider.AssertCalled(t, "Details", mock.Anything, "c3", places.CompetitorFields)
	provider.AssertNotCalled(t, "Details", mock.Anything, "c2", mock.Anything)
	provider.AssertNotCalled(t, "Details", mock.Anything, "c1", mock.Anything)

	for _, comp := range res.Competitors {
		require.NotNil(t, comp.DistanceMiles)
		assert.InDelta(t, 6.91, *comp.DistanceMiles, 0.01)
		require.NotNil(t, comp.OverallScore)
		assert.Len(t, comp.Scores, 5)
		assert.GreaterOrEqual(t, *comp.OverallScore, 0)
		assert.LessOrEqual(t, *comp.OverallScore, 100)
	}
}

func TestProWithoutCompetitorsEncodesEmptyList(t *testing.T) {
	provider := &mockProvider{}
	provider.On("NearbySearch", mock.Anything, mock.Anything).
		Return([]json.RawMessage{rawPlace("self", 4.5, 40, 40, -89)}, nil)

	res, err := New(provider, places.Normalizer{}).Pro(context.Background(), subject(), MilesToMeters(3), (&counter{}).charge)

	require.NoError(t, err)
	require.NotNil(t, res.Competitors)
	encoded, err := json.Marshal(res.Competitors)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(encoded))
	provider.AssertNotCalled(t, "Details", mock.Anything, mock.Anything, mock.Anything)
}

func TestDistanceMiles(t *testing.T) {
	d := DistanceMiles(entity.GeoPoint{Lat: 0, Lng: 0}, entity.GeoPoint{Lat: 0, Lng: 1})
	assert.InDelta(t, 69.09, d, 0.01)
	assert.Zero(t, DistanceMiles(entity.GeoPoint{Lat: 10, Lng: 10}, entity.GeoPoint{Lat: 10, Lng: 10}))
}

func TestSnapRadius(t *testing.T) {
	cases := []struct {
		meters  float64
		want    float64
		changed bool
	}{
		{MilesToMeters(5), MilesToMeters(5), false},
		{2500, MilesToMeters(2), true},
		{100, MilesToMeters(1), true},
		{50000, MilesToMeters(5), true},
	}
	for _, tc := range cases {
		got, changed := SnapRadius(tc.meters)
		assert.InDelta(t, tc.want, got, 0.001, "meters=%v", tc.meters)
		assert.Equal(t, tc.changed, changed, "meters=%v", tc.meters)
	}
}

type stubFetcher struct {
	text string
	ok   bool
}

func (s stubFetcher) FetchText(context.Context, string) (string, bool) { return s.text, s.ok }

func TestCheckNAP(t *testing.T) {
	s := entity.PlaceProfile{
		Website:          "https://acme.example",
		Phone:            "(217) 555-0100",
		FormattedAddress: "12 Main St, Springfield, IL 62701",
	}

	l := New(&mockProvider{}, places.Normalizer{}, WithFetcher(stubFetcher{text: "Call 217.555.0100 today", ok: true}))
	check, notes := l.CheckNAP(context.Background(), s)
	assert.True(t, check.Fetched)
	assert.Equal(t, entity.True, check.PhoneFound)
	assert.Equal(t, entity.False, check.AddressFound)
	assert.Equal(t, []string{noteNAPAddress}, notes)

	l = New(&mockProvider{}, places.Normalizer{}, WithFetcher(stubFetcher{}))
	check, notes = l.CheckNAP(context.Background(), s)
	assert.False(t, check.Fetched)
	assert.Equal(t, entity.Unknown, check.PhoneFound)
	assert.Equal(t, entity.Unknown, check.AddressFound)
	assert.Equal(t, []string{noteNAPUnchecked}, notes)

	check, notes = l.CheckNAP(context.Background(), entity.PlaceProfile{})
	assert.False(t, check.Fetched)
	assert.Empty(t, notes)
}
