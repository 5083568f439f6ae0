// Package telemetry exposes session activity as Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Dallionking/tradetutor/internal/session"
)

// Metrics implements session.Observer on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	BacktestRequests    *prometheus.CounterVec
	BacktestCompletions *prometheus.CounterVec
	ExplanationFetches  *prometheus.CounterVec
	ExplanationHits     prometheus.Counter
}

var _ session.Observer = (*Metrics)(nil)

// NewMetrics creates and registers every tradetutor metric.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		BacktestRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradetutor_backtest_requests_total",
				Help: "Backtest requests issued by strategy and symbol",
			},
			[]string{"strategy", "symbol"},
		),

		BacktestCompletions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradetutor_backtest_completions_total",
				Help: "Backtest completions by outcome (accepted, stale, error)",
			},
			[]string{"outcome"},
		),

		ExplanationFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradetutor_explanation_fetches_total",
				Help: "Trade explanation fetch completions by outcome",
			},
			[]string{"outcome"},
		),

		ExplanationHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tradetutor_explanation_cache_hits_total",
				Help: "Trade explanations served from the session cache",
			},
		),
	}

	m.registry.MustRegister(
		m.BacktestRequests,
		m.BacktestCompletions,
		m.ExplanationFetches,
		m.ExplanationHits,
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) BacktestRequested(p session.Params) {
	m.BacktestRequests.WithLabelValues(string(p.Strategy), string(p.Symbol)).Inc()
}

func (m *Metrics) BacktestCompleted(_ session.Params, outcome session.Outcome) {
	m.BacktestCompletions.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) ExplanationFetched(outcome session.Outcome) {
	m.ExplanationFetches.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) ExplanationCacheHit() {
	m.ExplanationHits.Inc()
}

// Handler returns an HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Router mounts /metrics and a liveness probe.
func (m *Metrics) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return r
}

// Serve exposes the router on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
