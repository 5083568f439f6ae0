package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backtestPayload = `{
  "equity_curve": [
    {"date": "2023-01-03T00:00:00", "equity": 10000.0, "buy_hold": 10000.0},
    {"date": "2023-01-04T00:00:00", "equity": 10120.5, "buy_hold": 10050.0}
  ],
  "metrics": {"total_return": 0.18, "max_drawdown": -0.07, "sharpe_ratio": 1.3, "num_trades": 2},
  "buy_hold_metrics": {"total_return": 0.12, "max_drawdown": -0.15, "sharpe_ratio": 0.9},
  "trades": [
    {"entry_date": "2023-01-03T00:00:00", "exit_date": "2023-01-10T00:00:00",
     "entry_price": 380.1, "exit_price": 387.7, "pnl": 0.02, "bullish_prob": 0.71,
     "features": {"return_5d": 0.011, "volatility_20d": 0.18}},
    {"entry_date": "2023-02-01", "exit_date": "2023-02-08",
     "entry_price": 401.0, "exit_price": 397.0, "pnl": -0.01, "bullish_prob": 0.66,
     "features": {"return_5d": -0.004, "volatility_20d": 0.22}}
  ],
  "winning_trades": 1,
  "losing_trades": 1,
  "feature_comparison": {"return_5d": {"winning": 0.011, "losing": -0.004}},
  "max_drawdown_explanation": "The largest drawdown happened in March.",
  "strategy_type": "ultra",
  "symbol": "QQQ"
}`

// fakeService stands in for the analytics service.
type fakeService struct {
	router *mux.Router
	hits   atomic.Int32
}

func newFakeService() *fakeService {
	fs := &fakeService{router: mux.NewRouter()}
	fs.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fs.hits.Add(1)
			next.ServeHTTP(w, r)
		})
	})
	return fs
}

func (fs *fakeService) handle(path string, fn http.HandlerFunc) {
	fs.router.HandleFunc(path, fn).Methods(http.MethodGet)
}

func (fs *fakeService) start(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(fs.router)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientOptions{
		BaseURL:         srv.URL,
		Timeout:         5 * time.Second,
		RequestsPerSec:  1000,
		BreakerFailures: 3,
	})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_Backtest_DecodesPayload(t *testing.T) {
	fs := newFakeService()
	var gotStrategy, gotSymbol string
	fs.handle("/api/backtest", func(w http.ResponseWriter, r *http.Request) {
		gotStrategy = r.URL.Query().Get("strategy")
		gotSymbol = r.URL.Query().Get("symbol")
		writeJSON(w, http.StatusOK, backtestPayload)
	})
	c := fs.start(t)

	res, err := c.Backtest(context.Background(), Ultra, QQQ)
	require.NoError(t, err)

	assert.Equal(t, "ultra", gotStrategy)
	assert.Equal(t, "QQQ", gotSymbol)

	require.Len(t, res.EquityCurve, 2)
	assert.Equal(t, "2023-01-04", res.EquityCurve[1].Date.Short())
	assert.InDelta(t, 10050.0, res.EquityCurve[1].BuyHold, 1e-9)

	require.Len(t, res.Trades, 2)
	assert.True(t, res.Trades[0].IsWin())
	assert.False(t, res.Trades[1].IsWin())
	assert.Equal(t, "2023-02-01", res.Trades[1].EntryDate.Short())
	assert.InDelta(t, 0.22, res.Trades[1].Features["volatility_20d"], 1e-9)

	require.NotNil(t, res.Metrics.NumTrades)
	assert.Equal(t, 2, *res.Metrics.NumTrades)
	assert.Nil(t, res.BuyHoldMetrics.NumTrades)

	assert.Equal(t, 1, res.WinningTrades)
	assert.Equal(t, 1, res.LosingTrades)
	assert.InDelta(t, -0.004, res.FeatureComparison["return_5d"].Losing, 1e-9)
	assert.Equal(t, "The largest drawdown happened in March.", res.MaxDrawdownExplanation)
	assert.Equal(t, "QQQ", res.Symbol)
}

func TestClient_ExplainTrade_NotFoundDoesNotTripBreaker(t *testing.T) {
	fs := newFakeService()
	fs.handle("/api/trades/{index}/explain", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["index"] == "7" {
			writeJSON(w, http.StatusOK, `{"trade": {"pnl": 0.03, "entry_date": "2023-05-01T00:00:00", "exit_date": null, "features": {}}, "explanation": "Momentum was strong."}`)
			return
		}
		writeJSON(w, http.StatusNotFound, `{"detail": "Trade not found"}`)
	})
	c := fs.start(t)

	for i := 0; i < 5; i++ {
		_, err := c.ExplainTrade(context.Background(), 99)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusNotFound, se.StatusCode)
		assert.Equal(t, "Trade not found", se.Detail)
		assert.Equal(t, "404 Not Found: Trade not found", err.Error())
	}
	assert.Equal(t, "closed", c.BreakerState())

	exp, err := c.ExplainTrade(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Momentum was strong.", exp.Explanation)
	assert.True(t, exp.Trade.ExitDate.IsZero())
}

func TestClient_ExplainTrade_RejectsNegativeIndex(t *testing.T) {
	fs := newFakeService()
	c := fs.start(t)

	_, err := c.ExplainTrade(context.Background(), -1)
	require.Error(t, err)
	assert.Equal(t, int32(0), fs.hits.Load())
}

func TestClient_ServerErrorsTripBreaker(t *testing.T) {
	fs := newFakeService()
	fs.handle("/api/backtest", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"detail": "Backtest failed: no data"}`)
	})
	c := fs.start(t)

	for i := 0; i < 3; i++ {
		_, err := c.Backtest(context.Background(), Conservative, SPY)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Backtest failed: no data")
	}
	assert.Equal(t, "open", c.BreakerState())

	_, err := c.Backtest(context.Background(), Conservative, SPY)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(3), fs.hits.Load())
}

func TestClient_FeatureImportance(t *testing.T) {
	fs := newFakeService()
	fs.handle("/api/feature-importance", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"features": [
			{"name": "return_5d", "coefficient": 0.42, "abs_importance": 0.42},
			{"name": "volatility_20d", "coefficient": -0.9, "abs_importance": 0.9}
		]}`)
	})
	c := fs.start(t)

	features, err := c.FeatureImportance(context.Background())
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "volatility_20d", features[1].Name)
	assert.InDelta(t, -0.9, features[1].Coefficient, 1e-9)
}

func TestClient_CompareTrades(t *testing.T) {
	fs := newFakeService()
	fs.handle("/api/trades/compare", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"winning_trade": {"pnl": 0.04}, "losing_trade": {"pnl": -0.02}, "comparison": "The winner entered on stronger momentum."}`)
	})
	c := fs.start(t)

	cmp, err := c.CompareTrades(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.04, cmp.WinningTrade.PnL, 1e-9)
	assert.InDelta(t, -0.02, cmp.LosingTrade.PnL, 1e-9)
	assert.Contains(t, cmp.Comparison, "momentum")
}

func TestClient_DatasetPreview(t *testing.T) {
	var gotRows []string
	fs := newFakeService()
	fs.handle("/api/dataset/preview", func(w http.ResponseWriter, r *http.Request) {
		gotRows = append(gotRows, r.URL.Query().Get("rows"))
		writeJSON(w, http.StatusOK, `{
			"data": [
				{"date": "2015-01-02T00:00:00", "close": 205.43, "return_5d": null, "return_20d": null, "ma_ratio": null, "rsi": null, "volatility_20d": null},
				{"date": "2024-06-28T00:00:00", "close": 544.22, "return_5d": 0.011, "return_20d": 0.032, "ma_ratio": 1.04, "rsi": 61.5, "volatility_20d": 0.009}
			],
			"total_rows": 2389,
			"date_range": {"start": "2015-01-02T00:00:00", "end": "2024-06-28T00:00:00"}
		}`)
	})
	c := fs.start(t)

	preview, err := c.DatasetPreview(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2389, preview.TotalRows)
	require.Len(t, preview.Data, 2)
	assert.Nil(t, preview.Data[0].RSI, "warm-up rows carry no indicators")
	require.NotNil(t, preview.Data[1].RSI)
	assert.InDelta(t, 61.5, *preview.Data[1].RSI, 1e-9)
	assert.Equal(t, "2024-06-28", preview.DateRange.End.Short())

	_, err = c.DatasetPreview(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", ""}, gotRows)
}

func TestClient_WaitReady_RetriesUntilUp(t *testing.T) {
	fs := newFakeService()
	var calls atomic.Int32
	fs.handle("/", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, `{"detail": "warming up"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"message": "AI Trading Tutor API", "version": "1.0.0", "disclaimer": "Educational only"}`)
	})
	c := fs.start(t)

	info, err := c.WaitReady(context.Background(), 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_WaitReady_GivesUpOnClientError(t *testing.T) {
	fs := newFakeService()
	fs.handle("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `forbidden`)
	})
	c := fs.start(t)

	_, err := c.WaitReady(context.Background(), 10*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403 Forbidden: forbidden")
	assert.Equal(t, int32(1), fs.hits.Load())
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"empty", "", true},
		{"no scheme", "localhost:8000", true},
		{"ftp", "ftp://example.com", true},
		{"http", "http://localhost:8000", false},
		{"https with path", "https://example.com/tutor/", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(ClientOptions{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, c.BaseURL())
		})
	}
}
