package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Names of the persisted themes.
const (
	NameDark  = "dark"
	NameLight = "light"
)

// Theme is a color palette for terminal output.
type Theme struct {
	Name      string
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	Border    color.Color
}

var (
	Dark = Theme{
		Name:      NameDark,
		Primary:   lipgloss.Color("#8B5CF6"), // Vivid Purple
		Secondary: lipgloss.Color("#14B8A6"), // Teal
		Accent:    lipgloss.Color("#F97316"), // Orange
		Success:   lipgloss.Color("#22C55E"), // Green
		Error:     lipgloss.Color("#F43F5E"), // Rose
		Text:      lipgloss.Color("#F8FAFC"), // White
		TextDim:   lipgloss.Color("#94A3B8"), // Slate
		Border:    lipgloss.Color("#334155"), // Slate
	}

	Light = Theme{
		Name:      NameLight,
		Primary:   lipgloss.Color("#6D28D9"),
		Secondary: lipgloss.Color("#0F766E"),
		Accent:    lipgloss.Color("#C2410C"),
		Success:   lipgloss.Color("#15803D"),
		Error:     lipgloss.Color("#BE123C"),
		Text:      lipgloss.Color("#0F172A"),
		TextDim:   lipgloss.Color("#475569"),
		Border:    lipgloss.Color("#CBD5E1"),
	}
)

// ForName returns the theme called name, Dark for anything unknown.
func ForName(name string) Theme {
	if name == NameLight {
		return Light
	}
	return Dark
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	return name == NameDark || name == NameLight
}

// Typography

func (t Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
}

func (t Theme) Subtitle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextDim)
}

func (t Theme) Body() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}

func (t Theme) Hint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextDim).Italic(true)
}

// States

func (t Theme) Correct() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) Incorrect() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) Notice() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent)
}

// Card frames a block of text.
func (t Theme) Card() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
}
