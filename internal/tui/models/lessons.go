package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/lessons"
	"github.com/Dallionking/tradetutor/internal/tui/components"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// LessonModel is the Bubble Tea model for the lessons walkthrough. The left
// panel holds the lesson text, the right panel a reference card for it.
type LessonModel struct {
	lessons []lessons.Lesson
	step    int
	pane    components.MarkdownPane

	width  int
	height int
}

// NewLessonModel creates a walkthrough starting at lesson start (0-based).
// Out-of-range starts begin at the first lesson.
func NewLessonModel(start int) LessonModel {
	all := lessons.All()
	if start < 0 || start >= len(all) {
		start = 0
	}
	m := LessonModel{
		lessons: all,
		step:    start,
		width:   80,
		height:  24,
	}
	m.pane = components.NewMarkdownPane("", m.leftPanelWidth()-4, m.contentHeight()-2)
	m.loadStep()
	return m
}

// Step returns the current lesson index.
func (m LessonModel) Step() int { return m.step }

// ---------------------------------------------------------------------------
// Bubble Tea Interface
// ---------------------------------------------------------------------------

func (m LessonModel) Init() tea.Cmd { return nil }

// Update handles navigation and scrolling.
func (m LessonModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pane.Resize(m.leftPanelWidth()-4, m.contentHeight()-2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter", "right", "l":
			return m.advance()
		case "backspace", "left", "h":
			return m.goBack(), nil
		}
		var cmd tea.Cmd
		m.pane, cmd = m.pane.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the full lessons screen.
func (m LessonModel) View() string {
	progress := m.renderProgress()
	left := m.renderLeftPanel()
	right := m.renderRightPanel()
	footer := components.LessonFooter(m.width, m.step == len(m.lessons)-1).Render()

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	return lipgloss.JoinVertical(lipgloss.Left,
		progress,
		"",
		body,
		"",
		footer,
	)
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

func (m LessonModel) advance() (tea.Model, tea.Cmd) {
	if m.step >= len(m.lessons)-1 {
		return m, tea.Quit
	}
	m.step++
	m.loadStep()
	return m, nil
}

func (m LessonModel) goBack() LessonModel {
	if m.step == 0 {
		return m
	}
	m.step--
	m.loadStep()
	return m
}

func (m *LessonModel) loadStep() {
	l := m.lessons[m.step]
	m.pane.SetTitle(styles.Title.Render(fmt.Sprintf("Lesson %d: %s", m.step+1, l.Title)))
	m.pane.SetMarkdown(l.Markdown)
}

// ---------------------------------------------------------------------------
// View: Panels
// ---------------------------------------------------------------------------

func (m LessonModel) renderProgress() string {
	labels := make([]string, len(m.lessons))
	for i, l := range m.lessons {
		labels[i] = l.Label
	}
	return components.ProgressStep{Steps: labels, Current: m.step, Width: m.width}.Render()
}

func (m LessonModel) leftPanelWidth() int {
	return max((m.width-1)*3/5, 30)
}

func (m LessonModel) rightPanelWidth() int {
	return max(m.width-m.leftPanelWidth()-1, 30)
}

func (m LessonModel) contentHeight() int {
	return max(m.height-6, 10)
}

func (m LessonModel) renderLeftPanel() string {
	return styles.PanelFocused.
		Padding(0, 1).
		Width(m.leftPanelWidth()).
		Height(m.contentHeight()).
		Render(m.pane.View())
}

func (m LessonModel) renderRightPanel() string {
	w := m.rightPanelWidth()
	h := m.contentHeight()
	innerW := max(w-4, 20)
	innerH := max(h-2, 5)

	var content string
	switch m.lessons[m.step].Key {
	case "strategies":
		content = renderStrategyCards(innerW)
	case "signals", "model":
		content = renderSignalList(innerW)
	case "buyhold", "takeaways":
		content = styles.Title.Render("Try it") + "\n\n" +
			styles.Subtitle.Render("Run `tradetutor dashboard`, pick Ultra on TSLA and press b to compare against buy & hold.")
	default:
		content = lipgloss.NewStyle().Foreground(styles.AccentPrimary).Render(strings.TrimPrefix(styles.Logo, "\n")) +
			"\n\n" + renderSymbolList()
	}

	return styles.Panel.
		Padding(0, 1).
		Width(w).
		Height(h).
		Render(truncateToHeight(content, innerH))
}

func renderStrategyCards(width int) string {
	var cards []string
	for _, s := range api.AllStrategies() {
		cards = append(cards, components.StrategyCard{Strategy: s, Width: width}.Render())
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func renderSignalList(width int) string {
	lines := []string{styles.Title.Render("Model inputs"), ""}
	for _, s := range lessons.Signals {
		lines = append(lines,
			styles.Bold(s.Name)+" "+styles.Dim(s.Key),
			"  "+styles.Subtitle.Render(styles.TruncateWithEllipsis(s.Description, max(width-2, 10))))
	}
	return strings.Join(lines, "\n")
}

func renderSymbolList() string {
	lines := []string{styles.Title.Render("Symbols you can test"), ""}
	for _, info := range api.AllSymbols() {
		lines = append(lines, components.SymbolCard{Symbol: info.Symbol}.Render())
	}
	return strings.Join(lines, "\n")
}

func truncateToHeight(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[:maxLines], "\n")
}
