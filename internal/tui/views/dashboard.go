package views

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dallionking/tradetutor/internal/session"
	"github.com/Dallionking/tradetutor/internal/tui/models"
)

// RunDashboard launches the interactive backtest dashboard over sess and
// blocks until the user quits.
func RunDashboard(sess *session.Session, opts models.DashboardOptions) error {
	model := models.NewDashboardModel(sess, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(opts.Context))
	if _, err := p.Run(); err != nil {
		// Cancelling the context (SIGINT, SIGTERM) is a normal exit.
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

// RunLessons launches the lessons walkthrough at lesson start (0-based).
func RunLessons(start int) error {
	model := models.NewLessonModel(start)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running lessons: %w", err)
	}
	return nil
}
