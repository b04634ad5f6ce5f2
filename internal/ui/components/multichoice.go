package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tutolearn/tuto/internal/ui/theme"
)

// NoChoice marks a question without a recorded selection.
const NoChoice = -1

// MultiChoice renders one multiple-choice question, before or after
// grading.
type MultiChoice struct {
	Number       int
	Question     string
	Options      []string
	CorrectIndex int
	ChosenIndex  int
	Explanation  string
	Graded       bool
}

// NewMultiChoice creates an ungraded question view.
func NewMultiChoice(number int, question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Number:       number,
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  NoChoice,
	}
}

// Grade records the learner's choice.
func (m MultiChoice) Grade(chosen int, explanation string) MultiChoice {
	m.ChosenIndex = chosen
	m.Explanation = explanation
	m.Graded = true
	return m
}

// View renders the question with lettered options.
func (m MultiChoice) View(t theme.Theme) string {
	var b strings.Builder
	b.WriteString(t.Body().Bold(true).Render(fmt.Sprintf("%d. %s", m.Number, m.Question)))
	b.WriteString("\n")

	for i, opt := range m.Options {
		line := fmt.Sprintf("   %c)  %s", 'A'+i, opt)

		style := t.Body()
		if m.Graded {
			switch {
			case i == m.CorrectIndex:
				style = t.Correct()
			case i == m.ChosenIndex:
				style = t.Incorrect()
			default:
				style = lipgloss.NewStyle().Foreground(t.TextDim)
			}
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if m.Graded {
		verdict := t.Incorrect().Render("Incorrect.")
		if m.IsCorrect() {
			verdict = t.Correct().Render("Correct!")
		}
		b.WriteString("   " + verdict)
		if m.Explanation != "" {
			b.WriteString(" " + t.Hint().Render(m.Explanation))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect returns true if the learner chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Graded && m.ChosenIndex == m.CorrectIndex
}
