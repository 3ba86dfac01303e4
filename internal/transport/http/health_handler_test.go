package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundview/internal/dataset"
	"fundview/internal/services"
	"fundview/internal/shared/testutil"
	"fundview/pkg/contracts"
)

type statusStub dataset.Status

func (s statusStub) Status() dataset.Status { return dataset.Status(s) }

func newHealthHandler(t *testing.T, status dataset.Status) *HealthHandler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewHealthHandler(services.NewHealthService(statusStub(status), nil, logger), logger)
}

func TestHealthHandler_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		status     dataset.Status
		wantCode   int
		wantStatus string
	}{
		{
			name:       "loaded",
			status:     dataset.Status{Loaded: true, Rows: 18, LoadedAt: time.Now()},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
		},
		{
			name:       "missing workbook",
			status:     dataset.Status{LastError: "Data file not found: Fundraising Data.xlsx"},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHealthHandler(t, tt.status)

			rec := httptest.NewRecorder()
			h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, decodeBody(t, rec)["status"])
		})
	}
}

func TestHealthHandler_HealthCheckIgnoresData(t *testing.T) {
	h := newHealthHandler(t, dataset.Status{LastError: "Data file not found: Fundraising Data.xlsx"})

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, contracts.Version, body["version"])
}

func TestHealthHandler_LivenessAndVersion(t *testing.T) {
	h := newHealthHandler(t, dataset.Status{})

	rec := httptest.NewRecorder()
	h.LivenessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", decodeBody(t, rec)["status"])

	rec = httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, contracts.Version, body["version"])
	assert.Equal(t, contracts.APIVersion, body["api_version"])
}

func TestMetricsHandler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		h := NewMetricsHandler(nil)
		assert.False(t, h.Enabled())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("fundview_dataset_rows 18\n"))
		})
		h := NewMetricsHandler(exporter)
		assert.True(t, h.Enabled())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "fundview_dataset_rows")
	})
}

func TestHealthHandler_Register(t *testing.T) {
	h := newHealthHandler(t, dataset.Status{})
	r := chi.NewRouter()
	r.Route("/api", h.Register)

	for _, path := range []string{"/api/health", "/api/health/live", "/api/health/ready"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEqual(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"), path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, retryAfterSeconds, rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
