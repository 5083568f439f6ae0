package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dallionking/tradetutor/internal/analytics"
	"github.com/Dallionking/tradetutor/internal/api"
)

func TestTabBar_NumbersTabs(t *testing.T) {
	out := TabBar{Tabs: []string{"Overview", "Trades"}, ActiveTab: 1, Width: 40}.Render()
	assert.Contains(t, out, "1 Overview")
	assert.Contains(t, out, "2 Trades")
	assert.Contains(t, out, "│")
	assert.Empty(t, TabBar{}.Render())
}

func TestHeader_ShowsSelection(t *testing.T) {
	out := Header{Strategy: api.Ultra, Symbol: api.TSLA, Phase: "loading", Spinner: "*", Width: 120}.Render()
	assert.Contains(t, out, "Ultra")
	assert.Contains(t, out, "TSLA")
	assert.Contains(t, out, "LOADING")
}

func TestDashboardFooter_TradesTabAddsExplain(t *testing.T) {
	hints := func(f Footer) []string {
		var keys []string
		for _, h := range f.Hints {
			keys = append(keys, h.Desc)
		}
		return keys
	}
	assert.NotContains(t, hints(DashboardFooter(80, false)), "explain")
	assert.Contains(t, hints(DashboardFooter(80, true)), "explain")
	assert.Contains(t, hints(ErrorFooter(80)), "retry")
}

func TestMetricGauge_Colors(t *testing.T) {
	tests := []struct {
		name  string
		gauge MetricGauge
		want  lipgloss.Color
	}{
		{"sharpe good", MetricGauge{Value: 1.5, Thresholds: [2]float64{1, 0}, HighIsGood: true}, "#22c55e"},
		{"sharpe weak", MetricGauge{Value: 0.5, Thresholds: [2]float64{1, 0}, HighIsGood: true}, "#f59e0b"},
		{"sharpe negative", MetricGauge{Value: -0.2, Thresholds: [2]float64{1, 0}, HighIsGood: true}, "#ef4444"},
		{"deep drawdown", MetricGauge{Value: -0.3, Thresholds: [2]float64{-0.10, -0.25}, HighIsGood: true}, "#ef4444"},
		{"low is good", MetricGauge{Value: 5, Thresholds: [2]float64{3, 10}}, "#f59e0b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.gauge.gaugeColor())
		})
	}
}

func TestMetricsGauges_FormatsPercent(t *testing.T) {
	gauges := MetricsGauges(api.Metrics{TotalReturn: 0.1234, MaxDrawdown: -0.05, SharpeRatio: 1.3}, 0)
	require.Len(t, gauges, 3)
	assert.Contains(t, gauges[0].Render(), "+12.34%")
	assert.Contains(t, gauges[1].Render(), "-5.00%")
	assert.Contains(t, gauges[2].Render(), "1.30")
}

func TestComparisonBar(t *testing.T) {
	insights := analytics.FeatureInsights(map[string]api.FeatureStats{
		"rsi":        {Winning: 60, Losing: 50},
		"volatility": {Winning: 0.1, Losing: 0.2},
	})
	scale := ComparisonScale(insights)
	assert.Equal(t, 60.0, scale)

	out := ComparisonBar{Insight: insights[0], Scale: scale, Width: 60}.Render()
	assert.Contains(t, out, "Rsi")
	assert.Contains(t, out, "▲ +20.0%")
	assert.Contains(t, out, "higher in winning trades")

	out = ComparisonBar{Insight: insights[1], Scale: scale, Width: 60}.Render()
	assert.Contains(t, out, "▼ -50.0%")
}

func TestTitledPanel_KeepsWidth(t *testing.T) {
	out := TitledPanel("Trades", "row one\nrow two", 40)
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "Trades")
	for _, l := range lines {
		assert.Equal(t, 40, lipgloss.Width(l))
	}
}

func TestWindowLines(t *testing.T) {
	lines := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	assert.Equal(t, lines[:3], windowLines(lines[:3], 1, 5))
	assert.Equal(t, []string{"5", "6", "7", "8", "9"}, windowLines(lines, 9, 5))

	got := windowLines(lines, 4, 3)
	assert.Contains(t, got, "4")
	assert.Len(t, got, 3)
}

func TestProgressStep_NarrowFallback(t *testing.T) {
	p := ProgressStep{Steps: []string{"Welcome", "Signals", "Model"}, Current: 1}
	assert.Contains(t, p.Render(), "Signals")

	p.Width = 10
	assert.Contains(t, p.Render(), "Lesson 2/3: ")
}

func TestStrategyCard(t *testing.T) {
	out := StrategyCard{Strategy: api.Ultra, Active: true}.Render()
	assert.Contains(t, out, "Ultra")
	assert.Contains(t, out, "15 days")
	assert.Contains(t, out, "(selected)")

	assert.Contains(t, StrategyCard{Strategy: api.Conservative}.RenderCompact(), "entry ≥ 65%")
}

func TestRenderMarkdown_FallsBackToPlainText(t *testing.T) {
	out := RenderMarkdown("# Title\n\nSome **bold** text.", 40)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}
