package quiz

import (
	"fmt"
	"strings"
)

// family is one row of the fallback table. Keywords are matched as
// case-insensitive substrings of the topic.
type family struct {
	name      string
	keywords  []string
	questions func(topic string) []Question
}

func fixed(qs ...Question) func(string) []Question {
	return func(string) []Question { return qs }
}

// Bank is the deterministic topic to question-set table. Families are tried
// in order; the last one matches everything.
type Bank struct {
	families []family
}

// DefaultBank returns the built-in table.
func DefaultBank() *Bank {
	return &Bank{families: []family{
		{
			name:     "javascript",
			keywords: []string{"javascript", "js"},
			questions: fixed(
				Question{
					Question:    "Which keyword declares a block-scoped variable in JavaScript?",
					Options:     []string{"var", "let", "function", "const"},
					Answer:      1,
					Explanation: "let (and const) are block-scoped; var is function-scoped.",
				},
				Question{
					Question:    "What does typeof null evaluate to?",
					Options:     []string{"null", "object", "undefined", "number"},
					Answer:      1,
					Explanation: `Historically, typeof null returns "object".`,
				},
				Question{
					Question:    "Which method converts a JSON string into an object?",
					Options:     []string{"JSON.parse()", "JSON.stringify()", "Object.assign()", "toString()"},
					Answer:      0,
					Explanation: "JSON.parse parses a JSON string to an object.",
				},
			),
		},
		{
			name:     "python",
			keywords: []string{"python"},
			questions: fixed(
				Question{
					Question:    "Which data type is immutable in Python?",
					Options:     []string{"list", "dict", "set", "tuple"},
					Answer:      3,
					Explanation: "Tuples are immutable.",
				},
				Question{
					Question:    `What is the output of len("hello")?`,
					Options:     []string{"4", "5", "6", "Error"},
					Answer:      1,
					Explanation: "There are 5 characters.",
				},
				Question{
					Question:    "Which keyword defines a function?",
					Options:     []string{"func", "def", "function", "lambda"},
					Answer:      1,
					Explanation: "def defines a named function; lambda defines anonymous functions.",
				},
			),
		},
		{
			name:     "web",
			keywords: []string{"html", "css"},
			questions: fixed(
				Question{
					Question:    "Which HTML tag is used to create a hyperlink?",
					Options:     []string{"<p>", "<a>", "<link>", "<href>"},
					Answer:      1,
					Explanation: "The <a> tag defines a hyperlink.",
				},
				Question{
					Question:    "Which CSS property changes text color?",
					Options:     []string{"background-color", "color", "text-color", "font-color"},
					Answer:      1,
					Explanation: "The color property sets the text color.",
				},
				Question{
					Question:    `Which is a valid CSS selector for an element with id="main"?`,
					Options:     []string{".main", "#main", "main[]", "id(main)"},
					Answer:      1,
					Explanation: "#main selects by id.",
				},
			),
		},
		{
			name: "generic",
			questions: func(topic string) []Question {
				return []Question{
					{
						Question:    fmt.Sprintf("Which approach helps you learn %s effectively?", topic),
						Options:     []string{"Skim only", "Practice with examples", "Avoid feedback", "Memorize blindly"},
						Answer:      1,
						Explanation: "Active practice with examples accelerates learning.",
					},
					{
						Question:    "What is a good strategy for long-term retention?",
						Options:     []string{"Cram once", "Spaced repetition", "Never review", "Disable practice"},
						Answer:      1,
						Explanation: "Spaced repetition improves retention.",
					},
					{
						Question:    "How should you handle mistakes during practice?",
						Options:     []string{"Ignore them", "Analyze and correct", "Quit immediately", "Blame the tool"},
						Answer:      1,
						Explanation: "Analyzing and correcting mistakes builds understanding.",
					},
				}
			},
		},
	}}
}

// For returns the question set for topic. An empty topic is treated as
// "General Knowledge". The returned slice is a fresh copy.
func (b *Bank) For(topic string) []Question {
	if strings.TrimSpace(topic) == "" {
		topic = "General Knowledge"
	}
	f := b.match(topic)
	qs := f.questions(topic)
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Family names the table row that topic falls into.
func (b *Bank) Family(topic string) string {
	return b.match(topic).name
}

func (b *Bank) match(topic string) family {
	t := strings.ToLower(topic)
	for _, f := range b.families {
		for _, kw := range f.keywords {
			if strings.Contains(t, kw) {
				return f
			}
		}
	}
	return b.families[len(b.families)-1]
}
