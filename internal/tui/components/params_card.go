package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// StrategyCard shows the trading rules behind a strategy variant.
type StrategyCard struct {
	Strategy api.Strategy
	Active   bool
	Width    int
}

// riskColor grades strategies from cautious to reckless.
func riskColor(s api.Strategy) lipgloss.Color {
	switch s {
	case api.Conservative:
		return styles.StatusOK
	case api.Aggressive:
		return styles.StatusWarn
	case api.Ultra:
		return styles.StatusError
	default:
		return styles.TextMuted
	}
}

// Render returns the styled strategy card as a multi-line block.
func (s StrategyCard) Render() string {
	p := s.Strategy.Preset()
	color := riskColor(s.Strategy)

	nameStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true)
	line1 := nameStyle.Render(p.Label) + "  " + styles.Badge(strings.ToUpper(s.Strategy.String()), color)
	if s.Active {
		line1 += "  " + styles.Cyan("(selected)")
	}

	cooldown := styles.Red("no")
	if p.Cooldown {
		cooldown = styles.Green("yes")
	}

	sep := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("  │  ")
	line2 := styles.Label.Render("Entry ≥ ") + styles.Value.Render(p.Entry) + sep +
		styles.Label.Render("Hold: ") + styles.Value.Render(p.Hold) + sep +
		styles.Label.Render("Vol cap: ") + styles.Value.Render(p.Volatility) + sep +
		styles.Label.Render("Cooldown: ") + cooldown

	border := styles.BorderNormal
	if s.Active {
		border = styles.BorderFocused
	}
	cardStyle := lipgloss.NewStyle().
		Background(styles.BgSurface).
		Border(styles.ThinBorder).
		BorderForeground(border).
		Padding(0, 1)
	if s.Width > 0 {
		cardStyle = cardStyle.Width(s.Width - 2)
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, line1, line2))
}

// RenderCompact returns a single-line representation for use in tables.
func (s StrategyCard) RenderCompact() string {
	p := s.Strategy.Preset()
	dot := lipgloss.NewStyle().Foreground(riskColor(s.Strategy)).Render("●")
	name := lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(p.Label)
	cooldown := "cooldown"
	if !p.Cooldown {
		cooldown = "no cooldown"
	}
	rules := styles.Dim(fmt.Sprintf("entry ≥ %s, hold %s, vol ≤ %s, %s", p.Entry, p.Hold, p.Volatility, cooldown))
	return fmt.Sprintf("%s %-14s %s", dot, name, rules)
}

// SymbolCard is the one-line instrument summary.
type SymbolCard struct {
	Symbol api.Symbol
	Active bool
}

// Render returns "● SPY  S&P 500 ETF  Broad market, low volatility".
func (s SymbolCard) Render() string {
	info := s.Symbol.Info()
	dot := styles.Dim("○")
	ticker := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true).Width(5).Render(string(info.Symbol))
	if s.Active {
		dot = styles.Cyan("●")
		ticker = lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true).Width(5).Render(string(info.Symbol))
	}
	return dot + " " + ticker + " " + styles.Bold(info.Name) + "  " + styles.Dim(info.Description)
}
