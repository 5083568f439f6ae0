package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// TabBar renders horizontal tab selection. Tabs are numbered so they can be
// jumped to with the digit keys.
type TabBar struct {
	Tabs      []string
	ActiveTab int
	Disabled  bool // dim every tab, e.g. while no result is loaded
	Width     int
}

// Render returns the styled tab bar string.
func (t TabBar) Render() string {
	if len(t.Tabs) == 0 {
		return ""
	}

	activeStyle := lipgloss.NewStyle().
		Foreground(styles.AccentPrimary).
		Bold(true).
		Underline(true).
		PaddingLeft(1).
		PaddingRight(1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		PaddingLeft(1).
		PaddingRight(1)

	if t.Disabled {
		activeStyle = activeStyle.Foreground(styles.TextMuted)
		inactiveStyle = inactiveStyle.Foreground(styles.TextMuted)
	}

	var tabs []string
	for i, tab := range t.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if i == t.ActiveTab {
			tabs = append(tabs, activeStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveStyle.Render(label))
		}
	}

	sep := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("│")
	content := strings.Join(tabs, sep)

	barStyle := lipgloss.NewStyle().
		Background(styles.BgDeep).
		Width(t.Width)

	return barStyle.Render(content)
}
