package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBank_Family(t *testing.T) {
	b := DefaultBank()

	tests := []struct {
		topic string
		want  string
	}{
		{"JavaScript Basics", "javascript"},
		{"Node.js streams", "javascript"},
		{"JSON", "javascript"},
		{"Python decorators", "python"},
		{"HTML semantics", "web"},
		{"Modern CSS", "web"},
		{"Python and JS interop", "javascript"},
		{"Statistics", "generic"},
		{"", "generic"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Family(tt.topic), "topic %q", tt.topic)
	}
}

func TestBank_GenericInterpolatesTopic(t *testing.T) {
	b := DefaultBank()

	qs := b.For("Statistics")
	assert.Len(t, qs, 3)
	assert.Equal(t, "Which approach helps you learn Statistics effectively?", qs[0].Question)

	qs = b.For("  ")
	assert.Equal(t, "Which approach helps you learn General Knowledge effectively?", qs[0].Question)
}

func TestBank_ForReturnsCopies(t *testing.T) {
	b := DefaultBank()

	qs := b.For("python")
	qs[0].Options[0] = "mutated"
	qs[0].Answer = 0

	again := b.For("python")
	assert.Equal(t, "list", again[0].Options[0])
	assert.Equal(t, 3, again[0].Answer)
}

func TestBank_AllValid(t *testing.T) {
	b := DefaultBank()
	for _, topic := range []string{"javascript", "python", "css", "other"} {
		for _, q := range b.For(topic) {
			assert.True(t, q.Valid(), "%s: %q", topic, q.Question)
		}
	}
}
