package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tutolearn/tuto/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     int // 0-100
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent int, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View(t theme.Theme) string {
	var result string

	if p.Label != "" {
		result += t.Body().Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := max(p.Width-labelWidth-percentWidth, 4)
	pct := min(max(p.Percent, 0), 100)
	filled := barWidth * pct / 100
	empty := barWidth - filled

	result += lipgloss.NewStyle().Foreground(t.Secondary).Render(strings.Repeat("█", filled))
	result += lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("░", empty))

	if p.ShowPercent {
		result += t.Subtitle().Render(fmt.Sprintf("  %3d%%", pct))
	}

	return result
}
