package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestStatusRecorderCapturesStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := NewStatusRecorder(rec)
	sr.WriteHeader(http.StatusTeapot)
	n, err := sr.Write([]byte("short and stout"))
	require.NoError(t, err)
	require.Equal(t, 15, n)
	require.Equal(t, http.StatusTeapot, sr.Status())
	require.EqualValues(t, 15, sr.BytesWritten())
}

func TestRoutePatternMiddlewareExposesPattern(t *testing.T) {
	var captured string
	r := chi.NewRouter()
	r.Use(RoutePatternMiddleware)
	r.Get("/pos/sessions/{id}", func(w http.ResponseWriter, req *http.Request) {
		captured = RoutePatternFromContext(req.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/pos/sessions/abc", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "/pos/sessions/{id}", captured)
}

func TestHTTPObsCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics("thrive_test", nil, reg)

	r := chi.NewRouter()
	r.Use(RoutePatternMiddleware)
	r.Use(HTTPObs{Metrics: metrics}.Middleware)
	r.Get("/health/live", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	require.True(t, names["thrive_test_http_requests_total"])
}
