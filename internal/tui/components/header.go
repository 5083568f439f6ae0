package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// Header renders the app header bar.
type Header struct {
	Strategy api.Strategy
	Symbol   api.Symbol
	Phase    string // session phase name
	Spinner  string // rendered spinner frame, shown while loading
	Session  string // short session id
	Width    int
}

// Render returns the styled header string.
func (h Header) Render() string {
	width := h.Width
	if width <= 0 {
		width = 80
	}

	logo := lipgloss.NewStyle().
		Foreground(styles.AccentPrimary).
		Bold(true).
		Render(styles.CompactLogo)

	sep := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("  │  ")

	strategy := styles.Label.Render("Strategy: ") +
		lipgloss.NewStyle().Foreground(styles.AccentGold).Bold(true).Render(h.Strategy.Preset().Label)

	info := h.Symbol.Info()
	symbol := styles.Label.Render("Symbol: ") +
		styles.Value.Render(string(h.Symbol)) + " " + styles.Dim(info.Name)

	phase := styles.PhaseBadge(h.Phase)
	if h.Phase == "loading" && h.Spinner != "" {
		phase = h.Spinner + " " + phase
	}

	content := logo + sep + strategy + sep + symbol + sep + phase
	if h.Session != "" && width >= 100 {
		content += sep + styles.Dim("session "+h.Session)
	}

	headerStyle := lipgloss.NewStyle().
		Background(styles.BgDeep).
		Foreground(styles.TextPrimary).
		Width(width).
		PaddingLeft(1).
		PaddingRight(1)

	return headerStyle.Render(content)
}
