package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tutolearn/tuto/internal/extract"
	"github.com/tutolearn/tuto/internal/llm"
)

// Generator produces study plans. Unlike quizzes, a failed plan has no
// generic substitute, so every failure is returned to the caller.
type Generator struct {
	ai  llm.Completer
	log *zap.Logger
	now func() time.Time
}

// NewGenerator creates a Generator. A nil logger discards output.
func NewGenerator(ai llm.Completer, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{ai: ai, log: log, now: time.Now}
}

// Generate asks the model for a plan on topic and returns it normalized.
// All failures are *GenerationError.
func (g *Generator) Generate(ctx context.Context, topic string, prefs Preferences) (*StudyPlan, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &GenerationError{Cause: fmt.Errorf("%w: topic is required", ErrInvalidPreferences)}
	}
	if err := prefs.Validate(); err != nil {
		return nil, &GenerationError{Cause: err}
	}

	ctx = llm.WithPurpose(ctx, llm.PurposePlan)
	text, err := g.ai.Complete(ctx, Prompt(topic, prefs), llm.SystemContext{
		Instructions: plannerInstructions,
	})
	if err != nil {
		g.log.Warn("plan generation failed", zap.String("topic", topic), zap.Error(err))
		return nil, &GenerationError{Cause: err}
	}

	obj := extract.JSON(text)
	if err := validateShape(obj); err != nil {
		g.log.Warn("plan reply rejected", zap.String("topic", topic), zap.Error(err))
		return nil, &GenerationError{Cause: err}
	}

	p := normalize(obj, topic, prefs, g.now())
	g.log.Debug("plan generated",
		zap.Int64("plan_id", p.ID),
		zap.Int("weeks", len(p.Schedule)),
		zap.Int("days", p.TotalDays()),
	)
	return p, nil
}
