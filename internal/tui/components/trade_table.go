package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/session"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// TradeTable lists trades with an inline explanation under the expanded row.
type TradeTable struct {
	Trades   []api.Trade
	Cache    *session.ExplanationCache
	Selected int
	Spinner  string // rendered spinner frame for pending explanations
	Width    int
	Height   int // visible lines, including the header
}

const tradeRowFormat = "%4s  %-10s  %-10s  %9s  %9s  %8s  %6s"

// Render returns the visible window of the table, scrolled so the selected
// row stays on screen.
func (t TradeTable) Render() string {
	if len(t.Trades) == 0 {
		return styles.Dim("  No trades in this backtest.")
	}
	width := t.Width
	if width <= 0 {
		width = 80
	}

	header := styles.TableHeader.Render(fmt.Sprintf(tradeRowFormat,
		"#", "Entry", "Exit", "Entry $", "Exit $", "P&L", "Bull"))

	var lines []string
	selectedLine := 0
	for i, tr := range t.Trades {
		if i == t.Selected {
			selectedLine = len(lines)
		}
		lines = append(lines, t.renderRow(i, tr, width))
		if t.Cache != nil && t.Cache.IsExpanded(i) {
			lines = append(lines, t.renderExplanation(i, width)...)
		}
	}

	body := windowLines(lines, selectedLine, max(t.Height-1, 1))
	return header + "\n" + joinLines(body)
}

func (t TradeTable) renderRow(i int, tr api.Trade, width int) string {
	marker := " "
	if t.Cache != nil {
		if e, ok := t.Cache.Entry(i); ok && e.State == session.EntryResolved {
			marker = "✓"
		}
	}

	cells := fmt.Sprintf("%4d  %-10s  %-10s  %9s  %9s  ",
		i, tr.EntryDate.Short(), tr.ExitDate.Short(), styles.Price(tr.EntryPrice), styles.Price(tr.ExitPrice))
	pnl := lipgloss.NewStyle().Width(8).Align(lipgloss.Right).Render(styles.PnL(tr.PnL))
	prob := fmt.Sprintf("  %5.1f%% %s", tr.BullishProb*100, styles.Dim(marker))

	style := styles.TableRow(i%2 == 0, i == t.Selected).Width(width)
	if i == t.Selected {
		style = style.Bold(true)
	}
	return style.Render(cells + pnl + prob)
}

func (t TradeTable) renderExplanation(i int, width int) []string {
	entry, _ := t.Cache.Entry(i)

	var text string
	switch entry.State {
	case session.EntryPending:
		text = styles.Cyan(strings.TrimSpace(t.Spinner + " Asking the tutor why this trade happened..."))
	case session.EntryFailed:
		text = styles.Red(entry.Text)
	default:
		text = lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(entry.Text)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(styles.AccentTertiary).
		PaddingLeft(1).
		MarginLeft(6).
		Width(max(width-10, 20)).
		Render(text)
	return splitLines(box)
}

// windowLines returns at most height lines containing focus.
func windowLines(lines []string, focus, height int) []string {
	if len(lines) <= height {
		return lines
	}
	start := max(0, focus-height/3)
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}
