package styles

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Convenience color helpers
// ---------------------------------------------------------------------------

// Cyan renders s in AccentPrimary.
func Cyan(s string) string {
	return lipgloss.NewStyle().Foreground(AccentPrimary).Render(s)
}

// Gold renders s in AccentGold.
func Gold(s string) string {
	return lipgloss.NewStyle().Foreground(AccentGold).Render(s)
}

// Green renders s in StatusOK.
func Green(s string) string {
	return lipgloss.NewStyle().Foreground(StatusOK).Render(s)
}

// Red renders s in StatusError.
func Red(s string) string {
	return lipgloss.NewStyle().Foreground(StatusError).Render(s)
}

// Dim renders s in TextMuted.
func Dim(s string) string {
	return lipgloss.NewStyle().Foreground(TextMuted).Render(s)
}

// Bold renders s in bold TextPrimary.
func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(TextPrimary).Render(s)
}

// ---------------------------------------------------------------------------
// Number formatting
// ---------------------------------------------------------------------------

// Percent formats a ratio (0.1234) as "12.34%".
func Percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// SignedPercent formats a ratio with an explicit sign, e.g. "+3.10%".
func SignedPercent(ratio float64) string {
	return fmt.Sprintf("%+.2f%%", ratio*100)
}

// Price formats a dollar amount.
func Price(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// PnL renders a trade return ratio colored by sign.
func PnL(ratio float64) string {
	style := LossText
	if ratio > 0 {
		style = ProfitText
	}
	return style.Render(SignedPercent(ratio))
}

// ---------------------------------------------------------------------------
// Sparkline
// ---------------------------------------------------------------------------

// brailleRamp maps normalized 0..7 buckets to braille bar characters.
var brailleRamp = []rune{'⡀', '⡄', '⡆', '⡇', '⣇', '⣧', '⣷', '⣿'}

// SparkRange is a shared vertical scale so two series can be compared on
// the same chart.
type SparkRange struct {
	Lo, Hi float64
}

// RangeOf returns the combined min/max across every series.
func RangeOf(series ...[]float64) SparkRange {
	var r SparkRange
	first := true
	for _, s := range series {
		for _, v := range s {
			if first {
				r.Lo, r.Hi = v, v
				first = false
				continue
			}
			r.Lo = math.Min(r.Lo, v)
			r.Hi = math.Max(r.Hi, v)
		}
	}
	return r
}

// Sparkline produces a compact braille bar chart that fits in width columns,
// scaled to its own min/max.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	return SparklineIn(values, width, RangeOf(values), color)
}

// SparklineIn draws values against a fixed range. If values is empty or
// width is <= 0 an empty string is returned.
func SparklineIn(values []float64, width int, r SparkRange, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	// Resample to the requested width using nearest-neighbour.
	sampled := make([]float64, width)
	for i := 0; i < width; i++ {
		idx := i * len(values) / width
		if idx >= len(values) {
			idx = len(values) - 1
		}
		sampled[i] = values[idx]
	}

	span := r.Hi - r.Lo
	if span == 0 {
		span = 1 // flat series
	}

	var b strings.Builder
	b.Grow(width * 4)
	for _, v := range sampled {
		norm := (v - r.Lo) / span
		bucket := int(math.Round(norm * float64(len(brailleRamp)-1)))
		bucket = max(0, min(bucket, len(brailleRamp)-1))
		b.WriteRune(brailleRamp[bucket])
	}

	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

// ---------------------------------------------------------------------------
// Text utilities
// ---------------------------------------------------------------------------

// TruncateWithEllipsis shortens s to max runes, appending "..." when
// truncation occurs. If max is less than 4 the string is simply cut.
func TruncateWithEllipsis(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 4 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// Humanize turns a snake_case feature name into "Return 5d".
func Humanize(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
