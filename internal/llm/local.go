package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// LocalProvider talks to a self-hosted AI server that exposes a /chat
// endpoint and a dedicated /generate-plan endpoint.
type LocalProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

type localChatRequest struct {
	Model       string            `json:"model"`
	Message     string            `json:"message"`
	Context     map[string]string `json:"context,omitempty"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
}

type localPlanRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

// NewLocalProvider creates a provider for the local server.
func NewLocalProvider(cfg ProviderConfig, client *http.Client) *LocalProvider {
	if client == nil {
		client = &http.Client{}
	}
	return &LocalProvider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  client,
	}
}

// Generate routes plan requests to /generate-plan and everything else to
// /chat.
func (p *LocalProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if PurposeFrom(ctx) == PurposePlan {
		return p.generatePlan(ctx, req)
	}

	var out struct {
		Response *string `json:"response"`
	}
	err := p.post(ctx, "/chat", localChatRequest{
		Model:       p.model,
		Message:     lastUserMessage(req),
		Context:     req.Context,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Response == nil {
		return nil, &ErrInvalidResponse{Provider: Local, Err: fmt.Errorf("missing response field")}
	}

	return &Response{Text: *out.Response, Model: p.model, StopReason: "end"}, nil
}

// generatePlan returns the server's plan object re-encoded as JSON text so
// callers extract it like any other reply.
func (p *LocalProvider) generatePlan(ctx context.Context, req Request) (*Response, error) {
	var out struct {
		Plan json.RawMessage `json:"plan"`
	}
	err := p.post(ctx, "/generate-plan", localPlanRequest{
		Prompt: lastUserMessage(req),
		Model:  p.model,
	}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Plan) == 0 || string(out.Plan) == "null" {
		return nil, &ErrInvalidResponse{Provider: Local, Err: fmt.Errorf("missing plan field")}
	}

	text := string(out.Plan)
	var s string
	if json.Unmarshal(out.Plan, &s) == nil {
		text = s
	}
	return &Response{Text: text, Model: p.model, StopReason: "end"}, nil
}

func (p *LocalProvider) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &ProviderError{Provider: Local, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return &ProviderError{Provider: Local, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{Provider: Local, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProviderError{
			Provider: Local,
			Status:   resp.StatusCode,
			Message:  strings.TrimSpace(truncate(string(data), 200)),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &ErrInvalidResponse{Provider: Local, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (p *LocalProvider) ModelID() string {
	return p.model
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
