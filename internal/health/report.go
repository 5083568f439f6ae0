package health

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/tradetutor/internal/tui/components"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// reportWidth is the panel width used by FormatReport.
const reportWidth = 72

var categoryTitles = map[string]string{
	CategoryConfig:  "Configuration",
	CategoryService: "Analytics Service",
	CategoryRuntime: "Runtime",
}

// FormatReport renders a report for the terminal: a verdict header, what the
// analytics service said about itself, one panel per category and the
// remedies for everything that did not pass.
func FormatReport(r *Report) string {
	var b strings.Builder

	b.WriteString("\n  " + styles.Title.Render(styles.CompactLogo) + "  " + verdictBadge(r.Verdict()) + "\n\n")

	if r.Service != nil {
		b.WriteString(indent(components.TitledPanel("Service", serviceCard(r.Service), reportWidth)))
		b.WriteString("\n")
	}

	for _, cat := range categories {
		var rows []string
		for _, res := range r.Results {
			if res.Category == cat {
				rows = append(rows, resultRow(res))
			}
		}
		if len(rows) == 0 {
			continue
		}
		title := fmt.Sprintf("%s  %d/%d", categoryTitles[cat], passedIn(r.Results, cat), len(rows))
		b.WriteString(indent(components.TitledPanel(title, strings.Join(rows, "\n"), reportWidth)))
		b.WriteString("\n")
	}

	if steps := nextSteps(r.Results); len(steps) > 0 {
		b.WriteString("\n  " + styles.Subtitle.Render("Next steps") + "\n")
		for _, s := range steps {
			b.WriteString("  " + styles.Dim("→ ") + s + "\n")
		}
	}

	b.WriteString("\n  " + summaryLine(r) + "\n")
	return b.String()
}

func verdictBadge(v Verdict) string {
	switch v {
	case VerdictReady:
		return styles.Badge(v.String(), styles.StatusOK)
	case VerdictDegraded:
		return styles.Badge(v.String(), styles.StatusWarn)
	case VerdictServiceDown, VerdictBroken:
		return styles.Badge(v.String(), styles.StatusError)
	default:
		return styles.Badge(v.String(), styles.TextMuted)
	}
}

func serviceCard(s *ServiceSnapshot) string {
	field := func(label, value string) string {
		return styles.Label.Render(fmt.Sprintf("%-9s", label)) + value
	}

	lines := []string{field("URL", styles.Value.Render(s.BaseURL))}
	if s.Reachable {
		name := s.Banner
		if s.Version != "" {
			name += "  " + styles.Dim("v"+s.Version)
		}
		lines = append(lines, field("Service", name))
	} else {
		lines = append(lines, field("Service", lipgloss.NewStyle().Foreground(styles.StatusError).Render("not answering")))
	}
	if s.Breaker != "" {
		lines = append(lines, field("Breaker", breakerText(s.Breaker)))
	}
	if s.Reachable {
		lines = append(lines, field("Model", fmt.Sprintf("%d features", s.Features)))
	}
	if s.Disclaimer != "" {
		lines = append(lines, styles.Dim(styles.TruncateWithEllipsis(s.Disclaimer, reportWidth-6)))
	}
	return strings.Join(lines, "\n")
}

func breakerText(state string) string {
	color := styles.StatusError
	switch state {
	case "closed":
		color = styles.StatusOK
	case "half-open":
		color = styles.StatusWarn
	}
	return lipgloss.NewStyle().Foreground(color).Render(state)
}

func resultRow(res CheckResult) string {
	name := lipgloss.NewStyle().Width(20).Foreground(styles.TextPrimary).Render(res.Name)
	msg := lipgloss.NewStyle().Width(34).Foreground(styles.TextSecondary).Render(styles.TruncateWithEllipsis(res.Message, 33))
	dur := lipgloss.NewStyle().Width(7).Foreground(styles.TextMuted).Align(lipgloss.Right).Render(formatDuration(res.Duration.Milliseconds()))
	return statusMark(res.Status) + " " + name + msg + dur
}

func statusMark(s Status) string {
	switch s {
	case StatusPass:
		return lipgloss.NewStyle().Foreground(styles.StatusOK).Bold(true).Render("✓")
	case StatusWarn:
		return lipgloss.NewStyle().Foreground(styles.StatusWarn).Bold(true).Render("!")
	default:
		return lipgloss.NewStyle().Foreground(styles.StatusError).Bold(true).Render("✗")
	}
}

func passedIn(results []CheckResult, cat string) int {
	n := 0
	for _, res := range results {
		if res.Category == cat && res.Status == StatusPass {
			n++
		}
	}
	return n
}

// nextSteps lists remedies, failures first, without repeating a hint.
func nextSteps(results []CheckResult) []string {
	var steps []string
	seen := make(map[string]bool)
	for _, want := range []Status{StatusFail, StatusWarn} {
		for _, res := range results {
			if res.Status != want || res.Hint == "" || seen[res.Hint] {
				continue
			}
			seen[res.Hint] = true
			steps = append(steps, styles.Value.Render(res.Name)+": "+res.Hint)
		}
	}
	return steps
}

func summaryLine(r *Report) string {
	parts := []string{fmt.Sprintf("%d/%d passed", r.Passed, r.Total)}
	if r.Warned > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", r.Warned))
	}
	if r.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", r.Failed))
	}
	parts = append(parts, "in "+formatDuration(r.Duration.Milliseconds()))
	return styles.Subtitle.Render(strings.Join(parts, ", "))
}

func formatDuration(ms int64) string {
	switch {
	case ms < 1:
		return "<1ms"
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	default:
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
}

func indent(block string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
