package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/presence-audit/internal/apperror"
	"github.com/octobees/presence-audit/internal/config"
	"github.com/octobees/presence-audit/internal/entity"
	"github.com/octobees/presence-audit/internal/service"
	"github.com/octobees/presence-audit/internal/webtext"
)

func TestFetchCandidates(t *testing.T) {
	assert.Equal(t, []string{webtext.DirectCandidate}, fetchCandidates(nil))
	assert.Equal(t,
		[]string{webtext.DirectCandidate, "https://a/?u=%s", "https://b/%s"},
		fetchCandidates([]string{"https://a/?u=%s", webtext.DirectCandidate, "https://b/%s"}))
}

func TestBuildWithoutPlacesKey(t *testing.T) {
	cfg := &config.Config{
		QuotaBackend:         config.QuotaBackendMemory,
		PhoneRegion:          "US",
		StandardRadiusMeters: 3000,
	}

	a, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	result := a.Audits.CalculateSelfAudit(entity.Checklist{HasHours: true}, entity.SelfAuditInputs{})
	assert.Equal(t, entity.TierSelf, result.Tier)
	assert.Equal(t, 5, result.OverallScore)

	_, err = a.Audits.AnalyzeStandard(context.Background(), "cli", service.StandardRequest{Query: "joe's pizza"}, 10)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConfiguration, apperror.CodeOf(err))
}

func TestBuildPostgresQuotaNeedsDatabase(t *testing.T) {
	cfg := &config.Config{QuotaBackend: config.QuotaBackendPostgres}
	_, err := Build(context.Background(), cfg, nil)
	require.Error(t, err)
}
