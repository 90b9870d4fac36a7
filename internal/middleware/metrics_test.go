package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/backend/internal/metrics"
	"github.com/travelhub/backend/internal/middleware"
)

func TestMetrics_recordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.NewMetrics())
	r.Get("/api/trips/{tripID}/days", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/trips/abc/days", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `travelhub_http_requests_total{method="GET",route="/api/trips/{tripID}/days",status="200"}`)
	assert.Contains(t, string(body), `route="unmatched"`)
}
