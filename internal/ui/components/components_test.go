package components

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"

	"github.com/tutolearn/tuto/internal/ui/theme"
)

func TestProgressBar_Width(t *testing.T) {
	for _, pct := range []int{-5, 0, 37, 100, 140} {
		bar := NewProgressBar("Day 1", pct, true, 40).View(theme.Dark)
		assert.Equal(t, 40, lipgloss.Width(bar), "percent %d", pct)
	}
}

func TestProgressBar_ClampsPercent(t *testing.T) {
	assert.Contains(t, NewProgressBar("", 140, true, 30).View(theme.Dark), "100%")
	assert.Contains(t, NewProgressBar("", -1, true, 30).View(theme.Light), "0%")
}

func TestMultiChoice_View(t *testing.T) {
	m := NewMultiChoice(1, "Which keyword?", []string{"var", "let", "function", "const"}, 1)

	view := m.View(theme.Dark)
	assert.Contains(t, view, "1. Which keyword?")
	assert.Contains(t, view, "B)  let")
	assert.False(t, m.IsCorrect())

	graded := m.Grade(3, "let is block-scoped.")
	assert.False(t, graded.IsCorrect())
	assert.Contains(t, graded.View(theme.Dark), "Incorrect.")
	assert.Contains(t, graded.View(theme.Dark), "let is block-scoped.")

	right := m.Grade(1, "")
	assert.True(t, right.IsCorrect())
	assert.True(t, strings.Contains(right.View(theme.Light), "Correct!"))
}
