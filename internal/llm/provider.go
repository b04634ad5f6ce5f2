package llm

import "context"

// Provider is the transport abstraction over a single AI backend.
// Implementations send one chat request and return the reply text verbatim;
// they never parse, repair, or substitute content.
type Provider interface {
	// Generate sends the request and returns the provider's reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the backend.
type Request struct {
	// System is the system instruction block.
	System string

	// Messages is the conversation. Tuto always sends a single user turn.
	Messages []Message

	// Context carries the lesson fields for backends that accept them as
	// structured data instead of a system prompt (the local server).
	Context map[string]string

	MaxTokens   int
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the backend's output.
type Response struct {
	// Text is the raw reply text, untouched.
	Text string

	Usage Usage

	// Model is the model that served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// lastUserMessage returns the content of the final user turn.
func lastUserMessage(req Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			return req.Messages[i].Content
		}
	}
	return ""
}
