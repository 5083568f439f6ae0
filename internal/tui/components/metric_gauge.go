package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// MetricGauge displays a single metric with color coding based on thresholds.
type MetricGauge struct {
	Label      string
	Value      float64
	Format     string     // "%.2f", "%.1f%%", "%d"
	Scale      float64    // multiplier applied before formatting; 0 means 1
	Thresholds [2]float64 // [warn, critical], compared against the raw Value
	HighIsGood bool       // drawdown is negative, so it is high-is-good too
	Width      int
}

// gaugeColor returns the appropriate color based on value and thresholds.
func (m MetricGauge) gaugeColor() lipgloss.Color {
	warn := m.Thresholds[0]
	critical := m.Thresholds[1]

	if m.HighIsGood {
		// Thresholds are [warn_below, critical_below].
		if m.Value <= critical {
			return styles.StatusError
		}
		if m.Value <= warn {
			return styles.StatusWarn
		}
		return styles.StatusOK
	}

	if m.Value >= critical {
		return styles.StatusError
	}
	if m.Value >= warn {
		return styles.StatusWarn
	}
	return styles.StatusOK
}

// Render returns the styled metric gauge.
func (m MetricGauge) Render() string {
	color := m.gaugeColor()

	format := m.Format
	if format == "" {
		format = "%.2f"
	}
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}

	valueStr := fmt.Sprintf(format, m.Value*scale)

	valueStyle := lipgloss.NewStyle().
		Foreground(color).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	block := lipgloss.JoinVertical(
		lipgloss.Center,
		valueStyle.Render(valueStr),
		labelStyle.Render(m.Label),
	)
	if m.Width > 0 {
		block = lipgloss.PlaceHorizontal(m.Width, lipgloss.Center, block)
	}
	return block
}

// MetricsGauges builds the gauge row for one side of a backtest: total
// return, max drawdown and Sharpe ratio.
func MetricsGauges(mt api.Metrics, width int) []MetricGauge {
	return []MetricGauge{
		{
			Label:      "Total Return",
			Value:      mt.TotalReturn,
			Format:     "%+.2f%%",
			Scale:      100,
			Thresholds: [2]float64{0.0001, 0},
			HighIsGood: true,
			Width:      width,
		},
		{
			Label:      "Max Drawdown",
			Value:      mt.MaxDrawdown,
			Format:     "%.2f%%",
			Scale:      100,
			Thresholds: [2]float64{-0.10, -0.25},
			HighIsGood: true,
			Width:      width,
		},
		{
			Label:      "Sharpe Ratio",
			Value:      mt.SharpeRatio,
			Format:     "%.2f",
			Thresholds: [2]float64{1.0, 0},
			HighIsGood: true,
			Width:      width,
		},
	}
}

// RenderGauges lays gauges out side by side.
func RenderGauges(gauges []MetricGauge) string {
	blocks := make([]string, len(gauges))
	for i, g := range gauges {
		blocks[i] = g.Render()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}
