package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// ProgressStep shows how far the reader is through the lessons.
type ProgressStep struct {
	Steps   []string // lesson labels
	Current int      // 0-indexed current lesson
	Width   int
}

// Render returns the styled progress indicator. Finished lessons get a
// filled green dot, the current one a bold cyan dot, later ones an empty
// circle. Narrow terminals fall back to "Lesson 2/7: Label".
func (p ProgressStep) Render() string {
	if len(p.Steps) == 0 {
		return ""
	}
	current := max(0, min(p.Current, len(p.Steps)-1))

	var parts []string
	for i, label := range p.Steps {
		var dot, labelStr string

		switch {
		case i < current:
			dot = lipgloss.NewStyle().Foreground(styles.StatusOK).Render("●")
			labelStr = lipgloss.NewStyle().Foreground(styles.StatusOK).Render(label)
		case i == current:
			dot = lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true).Render("●")
			labelStr = lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true).Render(label)
		default:
			dot = lipgloss.NewStyle().Foreground(styles.TextMuted).Render("○")
			labelStr = lipgloss.NewStyle().Foreground(styles.TextMuted).Render(label)
		}

		parts = append(parts, dot+" "+labelStr)
	}

	full := strings.Join(parts, "  ")
	if p.Width <= 0 || lipgloss.Width(full) <= p.Width {
		return full
	}

	return styles.Title.Render(fmt.Sprintf("Lesson %d/%d: ", current+1, len(p.Steps))) +
		styles.Bold(p.Steps[current])
}
