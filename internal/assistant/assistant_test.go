package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutolearn/tuto/internal/llm"
)

func TestAsk_FromAI(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "  Closures capture their scope.\n"})
	s := NewSession(llm.NewClient(mock, llm.ClientOptions{}), nil)

	reply := s.Ask(context.Background(), "what is a closure?", Context{
		LessonTitle:   "Closures",
		LessonContent: strings.Repeat("y", 5000),
		PlanTitle:     "JavaScript",
	})

	assert.False(t, reply.Fallback)
	assert.Equal(t, "Closures capture their scope.", reply.Text)

	req, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, "what is a closure?", req.Messages[0].Content)
	assert.Contains(t, req.System, `the lesson "Closures" from the study plan "JavaScript"`)
	assert.Contains(t, req.System, "- User Level: Intermediate")
	assert.Len(t, req.Context["lessonContent"], 4000)
}

func TestAsk_FallbackOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ProviderError{Provider: llm.OpenAI, Status: 401}})
	s := NewSession(llm.NewClient(mock, llm.ClientOptions{}), nil)

	reply := s.Ask(context.Background(), "Can I get a hint?", Context{LessonTitle: "Recursion"})
	assert.True(t, reply.Fallback)
	assert.Contains(t, reply.Text, "Hint")
	assert.Contains(t, reply.Text, "today's lesson on Recursion")
}

func TestAsk_FallbackOnEmptyReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "   "})
	s := NewSession(llm.NewClient(mock, llm.ClientOptions{}), nil)

	reply := s.Ask(context.Background(), "hello", Context{LessonTitle: "Loops"})
	assert.True(t, reply.Fallback)
	assert.Equal(t, "I'm here to help with Loops. Try asking for a hint, an example, or a concept explanation.", reply.Text)
}

func TestAsk_BlankMessageSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider()
	s := NewSession(llm.NewClient(mock, llm.ClientOptions{}), nil)

	reply := s.Ask(context.Background(), "   ", Context{})
	assert.True(t, reply.Fallback)
	assert.NotEmpty(t, reply.Text)
	assert.Zero(t, mock.CallCount())
}

func TestFallbackRoutes(t *testing.T) {
	s := NewSession(nil, nil)

	tests := []struct {
		message string
		topic   string
		route   string
		want    string
	}{
		{"please help", "Go", "hint", "Break the problem into smaller steps."},
		{"show me an example", "JavaScript arrays", "example", "Example (JavaScript)"},
		{"some code please", "Python basics", "example", "    def greet(name):"},
		{"example?", "Rust", "example", "minimal example related to Rust"},
		{"what is recursion?", "Algorithms", "explain", "What is recursion. In the context of Algorithms"},
		{"Define a closure", "JS", "explain", "Define a closure."},
		{"can you explain scope", "JS", "explain", "Can you explain scope."},
		{"difference between let and var", "JS", "generic", "help with JS"},
		{"thanks!", "", "generic", "help with the topic"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.route, s.Route(tt.message))
			reply := s.Ask(context.Background(), tt.message, Context{LessonTitle: tt.topic})
			assert.True(t, reply.Fallback)
			assert.Contains(t, reply.Text, tt.want)
			assert.NotContains(t, reply.Text, "<", "replies are plain text")
		})
	}
}

func TestFallback_UnroutedMessageGetsGenericReply(t *testing.T) {
	s := NewSession(nil, nil)
	want := "I'm here to help with Python lists. Try asking for a hint, an example, or a concept explanation."

	for _, msg := range []string{"How do I complete day 3?", "I want to listen to a podcast", "what about const and let"} {
		t.Run(msg, func(t *testing.T) {
			assert.Equal(t, "generic", s.Route(msg))
			reply := s.Ask(context.Background(), msg, Context{LessonTitle: "Python lists"})
			assert.True(t, reply.Fallback)
			assert.Equal(t, want, reply.Text)
			assert.NotContains(t, reply.Text, "JavaScript")
		})
	}
}

func TestFallbackNeverEmpty(t *testing.T) {
	s := NewSession(nil, nil)
	for _, msg := range []string{"", "?", "hint", "code", "what is", "explain", "var", "list", "zzz"} {
		for _, topic := range []string{"", "JavaScript", "Python", "Cooking"} {
			assert.NotEmpty(t, strings.TrimSpace(s.fallback(msg, topic)), "msg=%q topic=%q", msg, topic)
		}
	}
}

func TestCapitalizeFirst(t *testing.T) {
	assert.Equal(t, "Éclair", capitalizeFirst("éclair"))
	assert.Equal(t, "", capitalizeFirst(""))
}
