package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dallionking/tradetutor/internal/analytics"
	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/config"
	"github.com/Dallionking/tradetutor/internal/session"
)

func sampleReport() backtestReport {
	n := 2
	r := &api.BacktestResult{
		EquityCurve: []api.EquityPoint{
			{Equity: 10000, BuyHold: 10000},
			{Equity: 10150, BuyHold: 10600},
		},
		Metrics:        api.Metrics{TotalReturn: 0.015, MaxDrawdown: -0.04, SharpeRatio: 0.6, NumTrades: &n},
		BuyHoldMetrics: api.Metrics{TotalReturn: 0.06, MaxDrawdown: -0.11, SharpeRatio: 1.1},
		Trades: []api.Trade{
			{EntryPrice: 100, ExitPrice: 104, PnL: 0.04, BullishProb: 0.7},
			{EntryPrice: 104, ExitPrice: 102, PnL: -0.019, BullishProb: 0.68},
		},
		WinningTrades:          1,
		LosingTrades:           1,
		FeatureComparison:      map[string]api.FeatureStats{"rsi": {Winning: 60, Losing: 50}},
		MaxDrawdownExplanation: "The drawdown came from a gap down after earnings.",
	}
	return backtestReport{
		Params:  session.Params{Strategy: api.Aggressive, Symbol: api.TSLA},
		Summary: analytics.Summarize(r),
		Result:  r,
	}
}

func TestRenderReport(t *testing.T) {
	rep := sampleReport()
	rep.Importance = analytics.RankImportance([]api.FeatureImportance{
		{Name: "volatility", Coefficient: -0.9, AbsImportance: 0.9},
	})

	out := renderReport(rep, 80)
	assert.Contains(t, out, "Backtest: Aggressive / TSLA")
	assert.Contains(t, out, "+1.50%")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "higher in winning trades")
	assert.Contains(t, out, "20-Day Volatility")
	assert.Contains(t, out, "gap down after earnings")
}

func TestWriteStructured(t *testing.T) {
	rep := sampleReport()

	var buf bytes.Buffer
	ok, err := writeStructured(&buf, formatJSON, rep)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), `"win_rate": 0.5`)
	assert.Contains(t, buf.String(), `"strategy": "aggressive"`)

	buf.Reset()
	ok, err = writeStructured(&buf, formatYAML, rep)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "win_rate: 0.5")
	assert.Contains(t, buf.String(), "symbol: TSLA")

	buf.Reset()
	ok, err = writeStructured(&buf, formatText, rep)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, buf.Len())
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat("yaml"))
	assert.Error(t, validateFormat("xml"))
}

func TestLessonIndex(t *testing.T) {
	tests := []struct {
		step    string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"1", 0, false},
		{"3", 2, false},
		{"risk", 5, false},
		{"0", 0, true},
		{"99", 0, true},
		{"nope", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			got, err := lessonIndex(tt.step)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveParams(t *testing.T) {
	cfg = &config.Config{Defaults: config.Defaults{Strategy: "ultra", Symbol: "NVDA"}}
	t.Cleanup(func() { cfg = nil })

	p, err := resolveParams("", "")
	require.NoError(t, err)
	assert.Equal(t, session.Params{Strategy: api.Ultra, Symbol: api.NVDA}, p)

	p, err = resolveParams("conservative", "")
	require.NoError(t, err)
	assert.Equal(t, api.Conservative, p.Strategy)
	assert.Equal(t, api.NVDA, p.Symbol)

	_, err = resolveParams("", "DOGE")
	assert.Error(t, err)

	cfg.Defaults.Strategy = "yolo"
	_, err = resolveParams("", "")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"dashboard", "report", "explain", "compare", "importance", "strategies", "learn", "health", "config", "version", "serve", "dataset"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
}

func TestReloadConfig_LoadsThenApplies(t *testing.T) {
	savedLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(savedLevel)
		cfg = nil
	})

	path := filepath.Join(t.TempDir(), config.FileName)
	write := func(body string) {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	write(`{"log": {"level": "warn"}}`)
	initial, err := config.Load(path)
	require.NoError(t, err)
	cfg = initial

	write(`{"log": {"level": "debug"}, "api": {"baseURL": "http://tutor.internal:9000"}}`)
	loaded, err := reloadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", loaded.Log.Level)
	assert.Same(t, initial, cfg, "loading does not install the config")

	applyConfig(loaded)
	assert.Same(t, loaded, cfg)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	write(`{"defaults": {"strategy": "yolo"}}`)
	_, err = reloadConfig()
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Same(t, loaded, cfg)
}

func TestRenderDataset(t *testing.T) {
	rsi, ret := 61.5, 0.011
	start, err := api.ParseDate("2015-01-02")
	require.NoError(t, err)
	end, err := api.ParseDate("2024-06-28")
	require.NoError(t, err)

	out := renderDataset(&api.DatasetPreview{
		Data: []api.DatasetRow{
			{Date: start, Close: 205.43},
			{Date: end, Close: 544.22, RSI: &rsi, Return5d: &ret},
		},
		TotalRows: 2389,
		DateRange: api.DateRange{Start: start, End: end},
	})
	assert.Contains(t, out, "2389 rows, 2015-01-02 to 2024-06-28")
	assert.Contains(t, out, "544.22")
	assert.Contains(t, out, "61.5")
	assert.Contains(t, out, "+1.10%")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	first := lines[len(lines)-2]
	assert.True(t, strings.HasPrefix(first, "2015-01-02"))
	assert.Equal(t, 5, strings.Count(first, " -"), "warm-up row has no signals")
}

func TestHelpText_StatesWhatTheServiceReceives(t *testing.T) {
	assert.Contains(t, explainCmd.Long, "takes only the index")
	assert.Contains(t, compareCmd.Long, "takes no strategy or symbol")
	for _, c := range []string{explainCmd.Long, compareCmd.Long} {
		assert.NotContains(t, c, "most recent backtest")
	}
}
