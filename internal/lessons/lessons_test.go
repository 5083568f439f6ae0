package lessons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dallionking/tradetutor/internal/analytics"
	"github.com/Dallionking/tradetutor/internal/api"
)

type label string

func (l label) String() string { return string(l) }

func TestAll_KeysAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, l := range All() {
		require.NotEmpty(t, l.Markdown, l.Key)
		assert.False(t, seen[l.Key], "duplicate key %s", l.Key)
		seen[l.Key] = true
	}
	assert.Equal(t, len(All()), len(Keys()))
}

func TestFind(t *testing.T) {
	l, ok := Find(" Strategies ")
	require.True(t, ok)
	assert.Contains(t, l.Markdown, "Conservative")
	assert.Contains(t, l.Markdown, "65%")

	_, ok = Find("nope")
	assert.False(t, ok)
}

func TestSignalName(t *testing.T) {
	assert.Equal(t, "RSI (14)", SignalName("rsi"))
	assert.Equal(t, "custom", SignalName("custom"))
}

func TestDocument_ContainsEveryTitle(t *testing.T) {
	doc := Document()
	for _, l := range All() {
		assert.Contains(t, doc, "# "+l.Title)
	}
}

func TestForResult(t *testing.T) {
	assert.Empty(t, ForResult(label("x"), nil, analytics.Summary{}))

	n := 4
	r := &api.BacktestResult{
		Metrics:        api.Metrics{TotalReturn: 0.10, MaxDrawdown: -0.08, SharpeRatio: 0.9, NumTrades: &n},
		BuyHoldMetrics: api.Metrics{TotalReturn: 0.25, MaxDrawdown: -0.20, SharpeRatio: 1.1},
		WinningTrades:  2,
		LosingTrades:   2,
		FeatureComparison: map[string]api.FeatureStats{
			"rsi":        {Winning: 55, Losing: 50},
			"volatility": {Winning: 0.1, Losing: 0.2},
		},
		MaxDrawdownExplanation: "The drawdown came during a sell-off.",
	}
	out := ForResult(label("conservative/SPY"), r, analytics.Summarize(r))

	assert.Contains(t, out, "conservative/SPY")
	assert.Contains(t, out, "Buy & hold **won by 15.00 points**")
	assert.Contains(t, out, "win rate **50.0%**")
	// volatility moved -50%, rsi +10%.
	assert.Contains(t, out, "**20-Day Volatility**")
	assert.Contains(t, out, "> The drawdown came during a sell-off.")
}
