package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordEstimate(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(EstimatesTotal)

	assert.NotPanics(t, func() {
		RecordEstimate(0.02)
	})
	assert.Equal(t, before+1, testutil.ToFloat64(EstimatesTotal))
}

func TestRecordYearLookup(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name    string
		outcome string
	}{
		{name: "success", outcome: "ok"},
		{name: "missing store", outcome: "store_unavailable"},
		{name: "unresolved zone", outcome: "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(YearLookupsTotal.WithLabelValues(tt.outcome))
			RecordYearLookup(tt.outcome)
			assert.Equal(t, before+1, testutil.ToFloat64(YearLookupsTotal.WithLabelValues(tt.outcome)))
		})
	}
}

func TestRecordNeighborSearch(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordNeighborSearch("tiebreak", 3)
	})
	assert.GreaterOrEqual(t, testutil.ToFloat64(NeighborSearchesTotal.WithLabelValues("tiebreak")), 1.0)
}

func TestUpdateCacheHitRatio(t *testing.T) {
	InitRegistry()

	UpdateCacheHitRatio(0.75)
	assert.Equal(t, 0.75, testutil.ToFloat64(CacheHitRatio))
}

func TestHandlerServesRegistry(t *testing.T) {
	InitRegistry()
	RecordYearLookup("ok")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "permit_odds_year_lookups_total"))
}
