package layout

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tutolearn/tuto/internal/ui/theme"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// RenderHeader renders a boxed title line with an optional right-aligned
// status.
func RenderHeader(t theme.Theme, title, status string, width int) string {
	left := t.Title().Render("  Tuto")
	center := t.Body().Render(title)
	right := t.Notice().Render(status)

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := max(width-4, 0) // account for border padding

	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Render(content)
}

// RenderSection renders a heading followed by indented lines.
func RenderSection(t theme.Theme, heading string, lines []string) string {
	var b strings.Builder
	b.WriteString(t.Title().Render(heading))
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString("  ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}
