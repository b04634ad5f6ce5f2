package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{
			name: "direct object",
			in:   `{"a":1}`,
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "surrounding whitespace",
			in:   "\n  {\"a\":1}\n",
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "prose wrapper",
			in:   `Here you go: {"duration":"7 days","schedule":[]} Enjoy!`,
			want: map[string]any{"duration": "7 days", "schedule": []any{}},
		},
		{
			name: "markdown fence",
			in:   "```json\n{\"questions\":[]}\n```",
			want: map[string]any{"questions": []any{}},
		},
		{
			name: "no json",
			in:   "no json here",
			want: map[string]any{},
		},
		{
			name: "empty input",
			in:   "",
			want: map[string]any{},
		},
		{
			name: "two objects defeat the greedy span",
			in:   `first {"a":1} then {"b":2}`,
			want: map[string]any{},
		},
		{
			name: "top-level array falls through",
			in:   `[{"a":1}]`,
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "nested braces",
			in:   `ok {"a":{"b":{"c":3}}} done`,
			want: map[string]any{"a": map[string]any{"b": map[string]any{"c": float64(3)}}},
		},
		{
			name: "null literal",
			in:   `null`,
			want: map[string]any{},
		},
		{
			name: "closing brace before opening",
			in:   `} nothing {`,
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JSON(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Duration string `json:"duration"`
	}
	require.NoError(t, Decode("```\n{\"duration\":\"5 days\"}\n```", &out))
	assert.Equal(t, "5 days", out.Duration)

	err := Decode("sorry, I can't help with that", &out)
	var ee *ExtractionError
	assert.True(t, errors.As(err, &ee))
}
