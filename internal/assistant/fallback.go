package assistant

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// route is one row of the local responder table. match sees the lowercased
// message; reply sees the original message and the lesson topic.
type route struct {
	name  string
	match func(q string) bool
	reply func(message, topic string) string
}

func containsAny(words ...string) func(string) bool {
	return func(q string) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}
}

// snippet is a code example for a topic family.
type snippet struct {
	keywords []string
	label    string
	code     string
}

var snippets = []snippet{
	{
		keywords: []string{"javascript", "js"},
		label:    "Example (JavaScript)",
		code:     "const greet = (name) => `Hello, ${name}!`;\nconsole.log(greet('Tuto'));",
	},
	{
		keywords: []string{"python"},
		label:    "Example (Python)",
		code:     "def greet(name):\n    return f\"Hello, {name}!\"\n\nprint(greet('Tuto'))",
	},
}

func exampleReply(_, topic string) string {
	t := strings.ToLower(topic)
	for _, sn := range snippets {
		if containsAny(sn.keywords...)(t) {
			return sn.label + "\n\n" + indent(sn.code)
		}
	}
	return fmt.Sprintf("Example\n\nConsider a simple, minimal example related to %s and build up incrementally.", topic)
}

func indent(code string) string {
	lines := strings.Split(code, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "    " + l
		}
	}
	return strings.Join(lines, "\n")
}

func defaultRoutes() []route {
	return []route{
		{
			name:  "hint",
			match: containsAny("hint", "help"),
			reply: func(_, topic string) string {
				return "Hint\n" +
					"- Break the problem into smaller steps.\n" +
					fmt.Sprintf("- Relate it to examples from today's lesson on %s.\n", topic) +
					"- Try a minimal example and inspect the output."
			},
		},
		{
			name:  "example",
			match: containsAny("example", "code"),
			reply: exampleReply,
		},
		{
			name: "explain",
			match: func(q string) bool {
				return strings.HasPrefix(q, "what is") || strings.HasPrefix(q, "define") || strings.Contains(q, "explain")
			},
			reply: func(message, topic string) string {
				return fmt.Sprintf("Explanation\n\n%s. In the context of %s, focus on core concepts, common pitfalls, and a small practical application.",
					strings.TrimRight(capitalizeFirst(message), "?!."), topic)
			},
		},
	}
}

// fallback routes message through the table, ending with a generic nudge.
func (s *Session) fallback(message, topic string) string {
	if strings.TrimSpace(topic) == "" {
		topic = "the topic"
	}
	q := strings.ToLower(strings.TrimSpace(message))
	if q != "" {
		for _, r := range s.routes {
			if r.match(q) {
				return r.reply(strings.TrimSpace(message), topic)
			}
		}
	}
	return fmt.Sprintf("I'm here to help with %s. Try asking for a hint, an example, or a concept explanation.", topic)
}

// Route names the table row message would take, or "generic".
func (s *Session) Route(message string) string {
	q := strings.ToLower(strings.TrimSpace(message))
	if q == "" {
		return "generic"
	}
	for _, r := range s.routes {
		if r.match(q) {
			return r.name
		}
	}
	return "generic"
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
