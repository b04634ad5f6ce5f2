package llm

import "context"

// Purpose labels why a request was made. It shows up in the event log and
// selects the plan endpoint on the local server.
const (
	PurposePlan      = "plan"
	PurposeQuiz      = "quiz"
	PurposeAssistant = "assistant"
)

type contextKey string

const purposeKey contextKey = "llm_purpose"

// WithPurpose attaches a purpose label to the context.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
