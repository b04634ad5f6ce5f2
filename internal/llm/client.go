package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tutolearn/tuto/internal/store"
)

// Completer is the single call the plan, quiz and assistant components
// depend on.
type Completer interface {
	Complete(ctx context.Context, prompt string, sc SystemContext) (string, error)
}

// SystemContext describes the lesson a request is about. When Instructions
// is set it replaces the tutor prompt built from the other fields.
type SystemContext struct {
	LessonTitle   string
	LessonContent string
	PlanTitle     string
	UserLevel     string
	Instructions  string
}

// SystemPrompt renders the system message for the request.
func (sc SystemContext) SystemPrompt() string {
	if sc.Instructions != "" {
		return sc.Instructions
	}

	lesson := sc.LessonTitle
	plan := orDefault(sc.PlanTitle, "Study Plan")
	level := orDefault(sc.UserLevel, "Beginner")

	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI learning assistant for the Tuto learning platform. You're helping a student with the lesson %q from the study plan %q.\n\n", lesson, plan)
	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "- Lesson: %s\n", lesson)
	fmt.Fprintf(&b, "- Study Plan: %s\n", plan)
	fmt.Fprintf(&b, "- User Level: %s\n\n", level)
	b.WriteString(`Your role is to:
1. Provide clear, accurate explanations related to the current lesson
2. Give practical examples when helpful
3. Answer questions about programming concepts, syntax, and best practices
4. Help students understand common mistakes and how to avoid them
5. Suggest related topics and practice exercises
6. Keep responses concise but comprehensive
7. Use a friendly, encouraging tone

If the student asks about something not covered in the current lesson, guide them back to relevant topics or suggest they explore related lessons. Always be supportive and educational.`)
	return b.String()
}

func (sc SystemContext) fields() map[string]string {
	m := map[string]string{
		"lessonTitle":   sc.LessonTitle,
		"lessonContent": sc.LessonContent,
		"planTitle":     sc.PlanTitle,
		"userLevel":     sc.UserLevel,
	}
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Client sends one prompt to the configured provider and returns the raw
// reply text. It never retries and never substitutes content.
type Client struct {
	provider    Provider
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

// ClientOptions are the per-request settings of a Client.
type ClientOptions struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// NewClient wraps a Provider.
func NewClient(p Provider, opts ClientOptions) *Client {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2000
	}
	return &Client{
		provider:    p,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
	}
}

// Open builds a Client for the active provider in cfg. The configuration
// is validated before any adapter is constructed.
func Open(ctx context.Context, cfg Config, events store.EventRepo, log *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var pc ProviderConfig
	if !cfg.UseMock {
		_, pc, _ = cfg.Active()
	}

	p, err := NewProvider(ctx, cfg, events, log)
	if err != nil {
		return nil, err
	}

	return NewClient(p, ClientOptions{
		MaxTokens:   pc.MaxTokens,
		Temperature: pc.Temperature,
		Timeout:     cfg.Timeout,
	}), nil
}

// Provider returns the wrapped provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// WithProvider returns a copy of c that sends through p.
func (c *Client) WithProvider(p Provider) *Client {
	cp := *c
	cp.provider = p
	return &cp
}

// Complete sends prompt as the user turn with the system message derived
// from sc.
func (c *Client) Complete(ctx context.Context, prompt string, sc SystemContext) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.provider.Generate(ctx, Request{
		System:      sc.SystemPrompt(),
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		Context:     sc.fields(),
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			var pe *ProviderError
			if !errors.As(err, &pe) {
				err = &ProviderError{Status: 0, Message: "request timed out", Err: err}
			}
		}
		return "", err
	}
	return resp.Text, nil
}

// StatusText is a short human label for a provider failure.
func StatusText(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Status != 0 {
		return fmt.Sprintf("%d %s", pe.Status, http.StatusText(pe.Status))
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return "not configured"
	}
	return "unavailable"
}
