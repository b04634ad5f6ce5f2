package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tutolearn/tuto/internal/store"
)

// NewProvider creates the adapter for the active provider in cfg, wrapped
// with event logging when eventRepo is non-nil. Retry is not applied here;
// callers that want it wrap the result with WithRetry.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	var (
		base Provider
		name ProviderName
		pc   ProviderConfig
		err  error
	)
	if cfg.UseMock {
		name = Mock
	} else if name, pc, err = cfg.Active(); err != nil {
		return nil, err
	}

	switch name {
	case Mock:
		base = NewMockProvider()
	case OpenAI, Groq:
		base, err = NewOpenAIProvider(name, pc)
	case Azure:
		base, err = NewAzureProvider(pc)
	case Anthropic:
		base, err = NewAnthropicProvider(pc)
	case Local:
		base = NewLocalProvider(pc, nil)
	case Gemini:
		base, err = NewGeminiProvider(ctx, pc)
	default:
		return nil, &ConfigError{Msg: fmt.Sprintf("unknown provider %q", name)}
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", name, err)
	}

	if eventRepo == nil {
		return base, nil
	}
	return WithLogging(base, name, eventRepo, log), nil
}
