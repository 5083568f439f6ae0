package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("  Aggressive ")
	require.NoError(t, err)
	assert.Equal(t, Aggressive, s)

	_, err = ParseStrategy("yolo")
	assert.Error(t, err)
}

func TestParseSymbol(t *testing.T) {
	s, err := ParseSymbol("nvda")
	require.NoError(t, err)
	assert.Equal(t, NVDA, s)

	_, err = ParseSymbol("BTC")
	assert.Error(t, err)
}

func TestStrategyAndSymbolCycle(t *testing.T) {
	assert.Equal(t, Aggressive, Conservative.Next())
	assert.Equal(t, Conservative, Ultra.Next())
	assert.Equal(t, QQQ, SPY.Next())
	assert.Equal(t, SPY, AAPL.Next())
	assert.Equal(t, "Tesla", TSLA.Info().Name)
	assert.False(t, Ultra.Preset().Cooldown)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	var p EquityPoint
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-15T00:00:00","equity":1,"buy_hold":2}`), &p))
	assert.Equal(t, "2024-03-15", p.Date.Short())

	out, err := json.Marshal(p.Date)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-03-15T00:00:00"`, string(out))

	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"15/03/2024"`), &d))
	assert.Equal(t, "-", Date{}.Short())
}
