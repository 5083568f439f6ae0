package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/tradetutor/internal/analytics"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// ComparisonBar shows one feature's average at entry for winning and losing
// trades as a pair of horizontal bars, with the percent difference.
type ComparisonBar struct {
	Insight analytics.FeatureInsight
	Scale   float64 // largest |value| across all bars; bars are drawn relative to it
	Width   int
}

// Render returns the three-line block for the feature.
func (c ComparisonBar) Render() string {
	width := c.Width
	if width <= 0 {
		width = 60
	}
	barWidth := max(width-28, 6)

	arrow := "▼"
	arrowColor := styles.StatusError
	if c.Insight.Direction == analytics.HigherInWinners {
		arrow = "▲"
		arrowColor = styles.StatusOK
	}

	name := lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true).
		Render(styles.Humanize(c.Insight.Name))
	delta := lipgloss.NewStyle().Foreground(arrowColor).Bold(true).
		Render(fmt.Sprintf("%s %+.1f%%", arrow, c.Insight.DeltaPercent))
	label := styles.Dim(c.Insight.Label)

	title := name + "  " + delta + "  " + label
	win := comparisonLine("win", c.Insight.Winning, c.Scale, barWidth, styles.StatusOK)
	loss := comparisonLine("loss", c.Insight.Losing, c.Scale, barWidth, styles.StatusError)

	return lipgloss.JoinVertical(lipgloss.Left, title, win, loss)
}

func comparisonLine(label string, value, scale float64, barWidth int, color lipgloss.Color) string {
	filled := 0
	if scale > 0 {
		filled = int(math.Round(math.Abs(value) / scale * float64(barWidth)))
	}
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	labelStr := lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(6).Render(label)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(strings.Repeat("░", empty))
	valueStr := lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true).
		Render(fmt.Sprintf("%10.4f", value))

	return labelStr + " [" + filledStr + emptyStr + "] " + valueStr
}

// ComparisonScale returns the largest absolute feature average so every bar
// shares one axis.
func ComparisonScale(insights []analytics.FeatureInsight) float64 {
	var scale float64
	for _, in := range insights {
		scale = math.Max(scale, math.Max(math.Abs(in.Winning), math.Abs(in.Losing)))
	}
	return scale
}

// TitledPanel draws a rounded panel with title set into its top border.
func TitledPanel(title, content string, width int) string {
	width = max(width, 12)

	label := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true).
		Render(" " + title + " ")

	panelStyle := lipgloss.NewStyle().
		Background(styles.BgPanel).
		Border(styles.RoundedBorder).
		BorderForeground(styles.BorderNormal).
		Padding(0, 1).
		Width(width - 2)

	rendered := panelStyle.Render(content)

	// Replace the start of the top border with the title, keeping the corner.
	lines := splitLines(rendered)
	if len(lines) == 0 {
		return rendered
	}
	border := lipgloss.NewStyle().Foreground(styles.BorderNormal)
	top := border.Render(styles.RoundedBorder.TopLeft+"─") + label
	fill := width - lipgloss.Width(top) - 1
	if fill < 0 {
		return rendered
	}
	lines[0] = top + border.Render(strings.Repeat("─", fill)+styles.RoundedBorder.TopRight)
	return joinLines(lines)
}
