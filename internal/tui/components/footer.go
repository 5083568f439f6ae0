package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// KeyHint describes a single keybinding hint for display in the footer.
type KeyHint struct {
	Key  string // "q", "tab", "up/dn"
	Desc string // "quit", "switch", "navigate"
}

// Footer renders context-aware keybinding hints.
type Footer struct {
	Hints []KeyHint
	Width int
}

// Render returns the styled footer string.
func (f Footer) Render() string {
	width := f.Width
	if width <= 0 {
		width = 80
	}

	keyStyle := lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	sepStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	var parts []string
	for _, h := range f.Hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Desc))
	}

	content := strings.Join(parts, sepStyle.Render(" • "))

	footerStyle := lipgloss.NewStyle().
		Background(styles.BgDeep).
		Foreground(styles.TextMuted).
		Width(width).
		PaddingLeft(1).
		PaddingRight(1)

	return footerStyle.Render(content)
}

// DashboardFooter returns the footer for a dashboard tab. The trades tab adds
// row navigation and the explain key.
func DashboardFooter(width int, tradesTab bool) Footer {
	hints := []KeyHint{
		{Key: "tab", Desc: "switch"},
		{Key: "s", Desc: "strategy"},
		{Key: "y", Desc: "symbol"},
		{Key: "r", Desc: "refresh"},
		{Key: "b", Desc: "buy & hold"},
	}
	if tradesTab {
		hints = append(hints,
			KeyHint{Key: "↑↓", Desc: "select"},
			KeyHint{Key: "enter", Desc: "explain"},
		)
	}
	hints = append(hints, KeyHint{Key: "q", Desc: "quit"})
	return Footer{Hints: hints, Width: width}
}

// ErrorFooter is shown while a fetch failure blocks the result tabs.
func ErrorFooter(width int) Footer {
	return Footer{
		Hints: []KeyHint{
			{Key: "r", Desc: "retry"},
			{Key: "s", Desc: "strategy"},
			{Key: "y", Desc: "symbol"},
			{Key: "q", Desc: "quit"},
		},
		Width: width,
	}
}

// LessonFooter returns the footer for the lessons walkthrough.
func LessonFooter(width int, last bool) Footer {
	next := KeyHint{Key: "enter/->", Desc: "next"}
	if last {
		next = KeyHint{Key: "enter", Desc: "finish"}
	}
	return Footer{
		Hints: []KeyHint{
			next,
			{Key: "backspace/<-", Desc: "back"},
			{Key: "↑↓", Desc: "scroll"},
			{Key: "q", Desc: "quit"},
		},
		Width: width,
	}
}
