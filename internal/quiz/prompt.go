package quiz

import (
	"fmt"
	"strings"
)

const (
	promptContextLimit = 1200
	systemContextLimit = 4000
)

// lessonTopic is the subject the quiz is about.
func lessonTopic(lc LessonContext) string {
	if len(lc.Day.Topics) > 0 && strings.TrimSpace(lc.Day.Topics[0]) != "" {
		return lc.Day.Topics[0]
	}
	if strings.TrimSpace(lc.Day.Title) != "" {
		return lc.Day.Title
	}
	return "Current Lesson"
}

func buildPrompt(topic, contextText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a multiple-choice quiz for the lesson.\nTopic: %s\n\n", topic)
	b.WriteString(`Return STRICT JSON only with the following shape (no markdown, no commentary):
{
  "questions": [
    {
      "question": "...",
      "options": ["...", "...", "...", "..."],
      "answer": <index_of_correct_option_0_to_3>,
      "explanation": "why the correct option is right in one sentence"
    }
  ]
}
Constraints:
- 3 questions, 4 options each.
- Keep questions concise and based on the given lesson context below.
- If context is insufficient, ask about core fundamentals of the topic.

`)
	fmt.Fprintf(&b, "Lesson context (may be truncated):\n%s\n", truncate(contextText, promptContextLimit))
	return b.String()
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
