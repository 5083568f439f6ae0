package models

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dallionking/tradetutor/internal/lessons"
)

func TestLessonModel_Navigation(t *testing.T) {
	m := NewLessonModel(-3)
	assert.Equal(t, 0, m.Step())

	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = model.(LessonModel)
	assert.Equal(t, 1, m.Step())
	assert.Contains(t, m.View(), "Model inputs")

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, model.(LessonModel).Step())
}

func TestLessonModel_FinishQuits(t *testing.T) {
	last := len(lessons.All()) - 1
	m := NewLessonModel(last)
	require.Equal(t, last, m.Step())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestLessonModel_StrategiesShowsCards(t *testing.T) {
	m := NewLessonModel(3)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	view := model.View()
	assert.Contains(t, view, "Conservative")
	assert.Contains(t, view, "Aggressive")
}
