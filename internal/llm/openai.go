package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider for every OpenAI wire-compatible
// family: OpenAI itself, Groq (base URL override) and Azure OpenAI.
type OpenAIProvider struct {
	client *openai.Client
	name   ProviderName
	model  string
}

// NewOpenAIProvider creates a provider for the openai or groq family.
func NewOpenAIProvider(name ProviderName, cfg ProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		name:   name,
		model:  cfg.Model,
	}, nil
}

// NewAzureProvider creates a provider for Azure OpenAI. The base URL may be
// the bare resource endpoint, in which case Model names the deployment, or
// a full ".../openai/deployments/<name>" URL.
func NewAzureProvider(cfg ProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("azure API key is required")
	}

	endpoint, deployment := splitAzureURL(cfg.BaseURL)
	if deployment == "" {
		deployment = cfg.Model
	}

	config := openai.DefaultAzureConfig(cfg.APIKey, endpoint)
	if cfg.APIVersion != "" {
		config.APIVersion = cfg.APIVersion
	}
	config.AzureModelMapperFunc = func(string) string { return deployment }

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		name:   Azure,
		model:  deployment,
	}, nil
}

func splitAzureURL(raw string) (endpoint, deployment string) {
	raw = strings.TrimRight(raw, "/")
	i := strings.Index(raw, "/openai/deployments/")
	if i < 0 {
		return raw, ""
	}
	rest := raw[i+len("/openai/deployments/"):]
	if j := strings.Index(rest, "/"); j >= 0 {
		rest = rest[:j]
	}
	return raw[:i], rest
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    buildOpenAIMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, mapOpenAIError(p.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{
			Provider: p.name,
			Err:      fmt.Errorf("no choices in response"),
		}
	}

	return &Response{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: mapOpenAIStopReason(resp.Choices[0].FinishReason),
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

func buildOpenAIMessages(req Request) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage

	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	return messages
}

func mapOpenAIStopReason(reason openai.FinishReason) string {
	if reason == openai.FinishReasonLength {
		return "max_tokens"
	}
	return "end"
}

func mapOpenAIError(name ProviderName, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider: name,
			Status:   apiErr.HTTPStatusCode,
			Message:  apiErr.Message,
			Err:      err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{
			Provider: name,
			Status:   reqErr.HTTPStatusCode,
			Message:  http.StatusText(reqErr.HTTPStatusCode),
			Err:      err,
		}
	}
	return &ProviderError{Provider: name, Err: err}
}
