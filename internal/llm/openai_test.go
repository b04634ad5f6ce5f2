package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "llama3-8b-8192",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     40,
			"completion_tokens": 25,
			"total_tokens":      65,
		},
	}
}

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(Groq, ProviderConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1/",
		Model:   "llama3-8b-8192",
	})
	require.NoError(t, err)
	return p
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("Closures capture variables."))
	}

	p := newTestOpenAIProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:      "You are a tutor.",
		Messages:    []Message{{Role: RoleUser, Content: "What is a closure?"}},
		MaxTokens:   2000,
		Temperature: 0.7,
	})
	require.NoError(t, err)

	assert.Equal(t, "Closures capture variables.", resp.Text)
	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, 25, resp.Usage.OutputTokens)
	assert.Equal(t, "end", resp.StopReason)

	assert.Equal(t, "llama3-8b-8192", body["model"])
	assert.EqualValues(t, 2000, body["max_tokens"])
	assert.InDelta(t, 0.7, body["temperature"], 0.001)
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
	assert.Equal(t, "What is a closure?", msgs[1].(map[string]any)["content"])
}

func TestOpenAIProvider_ReturnsTextVerbatim(t *testing.T) {
	raw := "Sure!\n```json\n{\"duration\": \"7 days\"}\n```"
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(raw))
	})

	resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "plan"}}})
	require.NoError(t, err)
	assert.Equal(t, raw, resp.Text)
}

func TestOpenAIProvider_ErrorStatusCarried(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		transient bool
	}{
		{"rate limit", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, true},
		{"unauthorized", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"message": "nope", "type": "error"},
				})
			})

			_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
			var pe *ProviderError
			require.True(t, errors.As(err, &pe), "expected *ProviderError, got %T", err)
			assert.Equal(t, tt.status, pe.Status)
			assert.Equal(t, Groq, pe.Provider)
			assert.Equal(t, tt.transient, pe.Transient())
		})
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}})
	})

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}

func TestAzureProvider_DeploymentURL(t *testing.T) {
	var gotPath, gotVersion, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.URL.Query().Get("api-version")
		gotKey = r.Header.Get("api-key")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("hello from azure"))
	}))
	t.Cleanup(server.Close)

	p, err := NewAzureProvider(ProviderConfig{
		APIKey:     "azure-key",
		BaseURL:    server.URL + "/openai/deployments/tutor-gpt4",
		APIVersion: "2023-05-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "tutor-gpt4", p.ModelID())

	resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.NoError(t, err)
	assert.Equal(t, "hello from azure", resp.Text)
	assert.Equal(t, "/openai/deployments/tutor-gpt4/chat/completions", gotPath)
	assert.Equal(t, "2023-05-15", gotVersion)
	assert.Equal(t, "azure-key", gotKey)
}

func TestSplitAzureURL(t *testing.T) {
	tests := []struct {
		in, endpoint, deployment string
	}{
		{"https://r.openai.azure.com", "https://r.openai.azure.com", ""},
		{"https://r.openai.azure.com/openai/deployments/gpt4/", "https://r.openai.azure.com", "gpt4"},
		{"https://r.openai.azure.com/openai/deployments/gpt4/chat/completions", "https://r.openai.azure.com", "gpt4"},
	}
	for _, tt := range tests {
		endpoint, deployment := splitAzureURL(tt.in)
		assert.Equal(t, tt.endpoint, endpoint, tt.in)
		assert.Equal(t, tt.deployment, deployment, tt.in)
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAI, ProviderConfig{Model: "gpt-4"})
	assert.Error(t, err)
}
