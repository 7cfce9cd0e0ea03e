package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/bakery-api/internal/metrics"
)

func TestMiddlewareKeepsFlusher(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)

	var flushed bool
	r.Get("/stream", func(w http.ResponseWriter, _ *http.Request) {
		f, ok := w.(http.Flusher)
		require.True(t, ok, "wrapped writer must still implement http.Flusher")
		_, _ = w.Write([]byte("chunk"))
		f.Flush()
		flushed = true
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))

	assert.True(t, flushed)
	assert.True(t, w.Flushed)
	assert.Equal(t, "chunk", w.Body.String())
}

func TestMiddlewareLabelsStatusAndRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/teapot/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/silent", func(http.ResponseWriter, *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/silent", nil))

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `bakery_http_requests_total{method="GET",route="/teapot/{id}",status="418"}`)
	assert.Contains(t, body, `bakery_http_requests_total{method="GET",route="/silent",status="200"}`)
}
