// Package extract pulls a JSON object out of free-form model output.
//
// Models often wrap the requested object in prose or markdown fences. JSON
// tries the whole text first, then the span from the first '{' to the last
// '}'. The span is taken greedily: braces inside string values, or two
// separate objects in one reply, make that second attempt fail and the
// result is an empty object.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JSON returns the JSON object found in text, or an empty map when none
// parses. It never fails and never returns nil.
func JSON(text string) map[string]any {
	if obj, ok := parseObject(text); ok {
		return obj
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if obj, ok := parseObject(text[start : end+1]); ok {
			return obj
		}
	}

	return map[string]any{}
}

// parseObject accepts only a top-level JSON object; arrays, strings and
// numbers fall through to the brace scan.
func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// ExtractionError reports that no JSON object could be recovered.
type ExtractionError struct {
	Text string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("no JSON object in model output (%d bytes)", len(e.Text))
}

// Decode extracts the object in text and decodes it into v.
func Decode(text string, v any) error {
	obj := JSON(text)
	if len(obj) == 0 {
		return &ExtractionError{Text: text}
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("re-encode extracted object: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode extracted object: %w", err)
	}
	return nil
}
