package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestNumberFormatting(t *testing.T) {
	assert.Equal(t, "12.34%", Percent(0.1234))
	assert.Equal(t, "+3.10%", SignedPercent(0.031))
	assert.Equal(t, "-3.10%", SignedPercent(-0.031))
	assert.Equal(t, "$101.50", Price(101.5))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Return 5d", Humanize("return_5d"))
	assert.Equal(t, "Rsi", Humanize("rsi"))
	assert.Equal(t, "", Humanize(""))
}

func TestRangeOf(t *testing.T) {
	r := RangeOf([]float64{3, 5}, []float64{1, 4}, nil)
	assert.Equal(t, SparkRange{Lo: 1, Hi: 5}, r)
	assert.Equal(t, SparkRange{}, RangeOf())
}

func TestSparkline(t *testing.T) {
	assert.Empty(t, Sparkline(nil, 10, StrategyLine))
	assert.Empty(t, Sparkline([]float64{1}, 0, StrategyLine))

	out := Sparkline([]float64{1, 2, 3, 4}, 8, StrategyLine)
	assert.Equal(t, 8, lipgloss.Width(out))

	// A flat series stays at the bottom of the ramp.
	assert.Contains(t, SparklineIn([]float64{2, 2}, 2, SparkRange{Lo: 2, Hi: 2}, StrategyLine), "⡀⡀")
}

func TestTruncateWithEllipsis(t *testing.T) {
	assert.Equal(t, "short", TruncateWithEllipsis("short", 10))
	assert.Equal(t, "abcd...", TruncateWithEllipsis("abcdefghij", 7))
	assert.Equal(t, "abc", TruncateWithEllipsis("abcdefghij", 3))
}

func TestPhaseBadge(t *testing.T) {
	assert.Contains(t, PhaseBadge("ready"), "READY")
	assert.Contains(t, PhaseBadge("error"), "ERROR")
	assert.Contains(t, PhaseBadge("idle"), "IDLE")
}
