package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border shapes.
var (
	RoundedBorder = lipgloss.RoundedBorder()
	DoubleBorder  = lipgloss.DoubleBorder()
	ThinBorder    = lipgloss.NormalBorder()
)

// ---------------------------------------------------------------------------
// Panel styles
// ---------------------------------------------------------------------------

// Panel is the default panel style: BgPanel background, rounded border in
// BorderNormal, with 1-cell padding on all sides.
var Panel = lipgloss.NewStyle().
	Background(BgPanel).
	Border(RoundedBorder).
	BorderForeground(BorderNormal).
	Padding(1)

// PanelFocused is identical to Panel but uses the cyan focus border.
var PanelFocused = lipgloss.NewStyle().
	Background(BgPanel).
	Border(RoundedBorder).
	BorderForeground(BorderFocused).
	Padding(1)

// ErrorPanel frames the blocking fetch-failure message.
var ErrorPanel = lipgloss.NewStyle().
	Border(DoubleBorder).
	BorderForeground(StatusError).
	Foreground(TextPrimary).
	Padding(1, 2)

// Card is a compact elevated surface with a thin border and horizontal
// padding only.
var Card = lipgloss.NewStyle().
	Background(BgSurface).
	Border(ThinBorder).
	BorderForeground(BorderNormal).
	PaddingLeft(1).
	PaddingRight(1)

// ---------------------------------------------------------------------------
// Badge helpers
// ---------------------------------------------------------------------------

// Badge returns an inline colored badge such as "● READY".
func Badge(text string, color lipgloss.Color) string {
	dot := lipgloss.NewStyle().Foreground(color).Render("●")
	label := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(text)
	return dot + " " + label
}

// PhaseBadge returns the badge for a fetch phase name ("idle", "loading",
// "ready", "error").
func PhaseBadge(phase string) string {
	switch strings.ToLower(phase) {
	case "ready":
		return Badge("READY", StatusOK)
	case "loading":
		return Badge("LOADING", StatusWarn)
	case "error":
		return Badge("ERROR", StatusError)
	default:
		return Badge(strings.ToUpper(phase), TextMuted)
	}
}

// ---------------------------------------------------------------------------
// Typography styles
// ---------------------------------------------------------------------------

// Title is bold AccentPrimary text for section headings.
var Title = lipgloss.NewStyle().
	Foreground(AccentPrimary).
	Bold(true)

// Subtitle is regular TextSecondary text for secondary headings.
var Subtitle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// Label is TextMuted text for field labels.
var Label = lipgloss.NewStyle().
	Foreground(TextMuted)

// Value is bold TextPrimary text for data values.
var Value = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Bold(true)

var ProfitText = lipgloss.NewStyle().
	Foreground(StatusOK).
	Bold(true)

var LossText = lipgloss.NewStyle().
	Foreground(StatusError).
	Bold(true)

// ---------------------------------------------------------------------------
// Table helpers
// ---------------------------------------------------------------------------

// TableHeader is bold, underlined, TextSecondary for column headings.
var TableHeader = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Bold(true).
	Underline(true)

// TableRow returns a row style. Selected rows are highlighted, the rest get
// zebra-stripe backgrounds.
func TableRow(even, selected bool) lipgloss.Style {
	bg := BgPanel
	if !even {
		bg = BgSurface
	}
	if selected {
		bg = BgHover
	}
	return lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(bg)
}

// Divider returns a horizontal rule of the given width.
func Divider(width int) string {
	if width <= 0 {
		return ""
	}
	line := strings.Repeat("─", width)
	return lipgloss.NewStyle().Foreground(BorderNormal).Render(line)
}
