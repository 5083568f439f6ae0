package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/session"
)

func TestMetrics_ObserverCounters(t *testing.T) {
	m := NewMetrics()
	p := session.Params{Strategy: api.Ultra, Symbol: api.QQQ}

	m.BacktestRequested(p)
	m.BacktestRequested(p)
	m.BacktestCompleted(p, session.OutcomeAccepted)
	m.BacktestCompleted(p, session.OutcomeStale)
	m.ExplanationFetched(session.OutcomeError)
	m.ExplanationCacheHit()
	m.ExplanationCacheHit()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BacktestRequests.WithLabelValues("ultra", "QQQ")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BacktestCompletions.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BacktestCompletions.WithLabelValues("stale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExplanationFetches.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExplanationHits))
}

func TestMetrics_Router(t *testing.T) {
	m := NewMetrics()
	m.ExplanationCacheHit()

	srv := httptest.NewServer(m.Router())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "tradetutor_explanation_cache_hits_total 1")

	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
