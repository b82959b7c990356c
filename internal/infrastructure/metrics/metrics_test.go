package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/orders/{orderId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"aaaaaaaaaa", "bbbbbbbbbb"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Requests.WithLabelValues("/orders/{orderId}", "GET", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.LatencyMS))
}

func TestObserveTransition(t *testing.T) {
	m := New(prometheus.NewRegistry(), "test")

	m.ObserveTransition("confirmed")
	m.ObserveTransition("confirmed")
	m.ObserveBotUpdate("message")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Transitions.WithLabelValues("confirmed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BotUpdates.WithLabelValues("message")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "test")
	m.ObserveTransition("shipped")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `orderdesk_test_order_transitions_total{status="shipped"} 1`))
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg, "test")

	assert.Panics(t, func() { New(reg, "test") })
}
