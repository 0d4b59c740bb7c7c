package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveHTTP(http.MethodPost, "/solve", 200, 30*time.Millisecond)
	m.ObserveHTTP(http.MethodPost, "/solve", 200, 10*time.Millisecond)
	m.ObserveHeuristic("nn", true, time.Millisecond)
	m.ObserveHeuristic("nn", false, time.Millisecond)
	m.ObserveCache(CacheHit)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/solve", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HeuristicRunsTotal.WithLabelValues("nn", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HeuristicRunsTotal.WithLabelValues("nn", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues(CacheHit)))
}

func TestObserveHeuristicWithoutKey(t *testing.T) {
	m := New()
	m.ObserveHeuristic("", true, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HeuristicRunsTotal.WithLabelValues(HeuristicOther, "true")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HeuristicRunsTotal))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveHeuristic("nn", true, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ttp_heuristic_runs_total")
	assert.Contains(t, string(body), "go_goroutines")
}
