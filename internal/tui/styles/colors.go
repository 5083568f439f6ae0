package styles

import "github.com/charmbracelet/lipgloss"

// Trading-floor palette: midnight panels, cyan for the strategy, gold for
// the buy-and-hold benchmark.

var (
	// Backgrounds (darkest to lightest)
	BgDeep    = lipgloss.Color("#0a0e14") // Main background
	BgPanel   = lipgloss.Color("#11151c") // Panel/card background
	BgSurface = lipgloss.Color("#1a1f2e") // Elevated surface
	BgHover   = lipgloss.Color("#232a3b") // Selected trade row

	// Accents
	AccentPrimary   = lipgloss.Color("#4fc1ff") // Cyan -- focus, strategy series
	AccentSecondary = lipgloss.Color("#39c5bb") // Teal -- secondary info
	AccentTertiary  = lipgloss.Color("#7c3aed") // Purple -- lessons
	AccentGold      = lipgloss.Color("#f5a623") // Gold -- benchmark, highlights

	// Status
	StatusOK    = lipgloss.Color("#22c55e") // Green -- profit, ready
	StatusWarn  = lipgloss.Color("#f59e0b") // Amber -- loading
	StatusError = lipgloss.Color("#ef4444") // Red -- loss, error
	StatusInfo  = lipgloss.Color("#4fc1ff") // Cyan

	// Text
	TextPrimary   = lipgloss.Color("#e2e8f0")
	TextSecondary = lipgloss.Color("#94a3b8")
	TextMuted     = lipgloss.Color("#64748b")

	// Borders
	BorderNormal  = lipgloss.Color("#2d3748")
	BorderFocused = lipgloss.Color("#4fc1ff")
)

// Chart series.
var (
	StrategyLine  = AccentPrimary
	BenchmarkLine = AccentGold
)

// SignColor returns StatusOK for positive values and StatusError otherwise.
func SignColor(v float64) lipgloss.Color {
	if v > 0 {
		return StatusOK
	}
	return StatusError
}
