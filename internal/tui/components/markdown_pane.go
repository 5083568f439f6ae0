package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// MarkdownStyle is the glamour standard style used for every rendered
// document. Set it to "notty" to strip colors.
var MarkdownStyle = "dark"

// RenderMarkdown renders md word-wrapped to width. On renderer failure the
// raw markdown is returned.
func RenderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(MarkdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// MarkdownPane is a scrollable rendered-markdown viewer.
type MarkdownPane struct {
	title    string
	source   string
	viewport viewport.Model
	width    int
	height   int
}

// NewMarkdownPane creates a pane with the given outer dimensions. One line is
// reserved for the title.
func NewMarkdownPane(title string, width, height int) MarkdownPane {
	vp := viewport.New(width, max(height-1, 1))
	vp.Style = lipgloss.NewStyle().Background(styles.BgPanel)
	return MarkdownPane{
		title:    title,
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// SetMarkdown replaces the document and scrolls back to the top.
func (p *MarkdownPane) SetMarkdown(md string) {
	p.source = md
	p.viewport.SetContent(RenderMarkdown(md, max(p.width-2, 20)))
	p.viewport.GotoTop()
}

// SetTitle changes the heading line.
func (p *MarkdownPane) SetTitle(title string) { p.title = title }

// Resize re-renders the current document at the new dimensions.
func (p *MarkdownPane) Resize(width, height int) {
	offset := p.viewport.YOffset
	p.width = width
	p.height = height
	p.viewport.Width = width
	p.viewport.Height = max(height-1, 1)
	p.viewport.SetContent(RenderMarkdown(p.source, max(width-2, 20)))
	p.viewport.SetYOffset(offset)
}

// Update handles scroll keys and mouse wheel messages.
func (p MarkdownPane) Update(msg tea.Msg) (MarkdownPane, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View returns the title line and the viewport.
func (p MarkdownPane) View() string {
	title := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true).
		Render(p.title)

	if !p.viewport.AtTop() || !p.viewport.AtBottom() {
		title += styles.Dim(fmt.Sprintf("  %3.0f%%", p.viewport.ScrollPercent()*100))
	}
	return title + "\n" + p.viewport.View()
}
