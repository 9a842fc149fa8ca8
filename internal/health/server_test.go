package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/permit-odds/internal/metrics"
)

type stubChecker struct{ err error }

func (s stubChecker) Check(context.Context) error { return s.err }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "permit-odds", Version: "test"})

	for _, path := range []string{"/health", "/live"} {
		rec := get(t, s.Handler(), path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "permit-odds", body.Service)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		stores     StoreChecker
		wantStatus int
		wantChecks map[string]string
	}{
		{name: "not marked ready", ready: false, wantStatus: http.StatusServiceUnavailable, wantChecks: map[string]string{"service": "not_ready"}},
		{name: "ready without stores", ready: true, wantStatus: http.StatusOK, wantChecks: map[string]string{"service": "ok"}},
		{name: "stores ok", ready: true, stores: stubChecker{}, wantStatus: http.StatusOK, wantChecks: map[string]string{"service": "ok", "stores": "ok"}},
		{name: "stores missing", ready: true, stores: stubChecker{err: errors.New("odds_2023.db missing")}, wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "ok", "stores": "error: odds_2023.db missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "permit-odds", Stores: tt.stores})
			s.SetReady(tt.ready)

			rec := get(t, s.Handler(), "/ready")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantChecks, body.Checks)
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	metrics.InitRegistry()
	metrics.RecordYearLookup("ok")

	s := NewServer(Config{ServiceName: "permit-odds", MetricsPath: "/prom", MetricsHandler: metrics.Handler()})
	rec := get(t, s.Handler(), "/prom")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "permit_odds_year_lookups_total")

	rec = get(t, NewServer(Config{}).Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
