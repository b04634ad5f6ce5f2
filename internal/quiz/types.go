// Package quiz builds short multiple-choice quizzes for a study day, falling
// back to a fixed question bank whenever the AI path yields nothing usable.
package quiz

import (
	"strings"

	"github.com/tutolearn/tuto/internal/plan"
)

// OptionCount is the number of choices every question carries.
const OptionCount = 4

// Question is one multiple-choice question. Answer indexes Options.
type Question struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Valid reports whether q can be shown: non-empty text, four options and an
// answer index in range.
func (q Question) Valid() bool {
	return strings.TrimSpace(q.Question) != "" &&
		len(q.Options) == OptionCount &&
		q.Answer >= 0 && q.Answer < OptionCount
}

// LessonContext is everything the generator knows about the lesson.
type LessonContext struct {
	Day         plan.Day
	ContextText string
	PlanTitle   string
	UserLevel   string
}

// Result is a usable quiz. Fallback is set when the questions came from the
// bank, and Reason then holds the error that caused it.
type Result struct {
	Questions []Question
	Fallback  bool
	Reason    error
}
