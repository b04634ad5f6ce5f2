package quiz

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tutolearn/tuto/internal/extract"
	"github.com/tutolearn/tuto/internal/llm"
)

// ErrNoValidQuestions is the fallback reason when the reply held no
// question that survived normalization.
var ErrNoValidQuestions = errors.New("AI returned no valid questions")

// Config tunes the generator.
type Config struct {
	// StrictMode discards questions whose answer index is missing or not
	// an integer in range, instead of defaulting it to 0.
	StrictMode bool
}

// Generator produces quizzes. GenerateQuiz never fails.
type Generator struct {
	ai     llm.Completer
	bank   *Bank
	config Config
	log    *zap.Logger
}

// NewGenerator creates a Generator backed by the default bank.
func NewGenerator(ai llm.Completer, cfg Config, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{ai: ai, bank: DefaultBank(), config: cfg, log: log}
}

// GenerateQuiz asks the model for three questions about the lesson. Any
// provider failure or unusable reply yields the bank's set instead.
func (g *Generator) GenerateQuiz(ctx context.Context, lc LessonContext) Result {
	topic := lessonTopic(lc)

	qs, err := g.fromAI(ctx, topic, lc)
	if err == nil {
		return Result{Questions: qs}
	}

	var bankTopic string
	if len(lc.Day.Topics) > 0 {
		bankTopic = lc.Day.Topics[0]
	}
	g.log.Warn("using a fallback quiz",
		zap.String("topic", topic),
		zap.String("family", g.bank.Family(bankTopic)),
		zap.Error(err),
	)
	return Result{Questions: g.bank.For(bankTopic), Fallback: true, Reason: err}
}

func (g *Generator) fromAI(ctx context.Context, topic string, lc LessonContext) ([]Question, error) {
	if g.ai == nil {
		return nil, &llm.ConfigError{Msg: "no AI client"}
	}

	planTitle := lc.PlanTitle
	if planTitle == "" {
		planTitle = "Study Plan"
	}
	level := lc.UserLevel
	if level == "" {
		level = "Intermediate"
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)
	reply, err := g.ai.Complete(ctx, buildPrompt(topic, lc.ContextText), llm.SystemContext{
		LessonTitle:   topic,
		LessonContent: truncate(lc.ContextText, systemContextLimit),
		PlanTitle:     planTitle,
		UserLevel:     level,
	})
	if err != nil {
		return nil, err
	}

	qs := g.normalize(extract.JSON(reply))
	if len(qs) == 0 {
		return nil, ErrNoValidQuestions
	}
	return qs, nil
}

// normalize keeps every entry of "questions" that can be coerced into a
// valid Question.
func (g *Generator) normalize(obj map[string]any) []Question {
	items, _ := obj["questions"].([]any)
	out := make([]Question, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}

		q := Question{
			Question:    text(m["question"]),
			Explanation: text(m["explanation"]),
		}
		opts, _ := m["options"].([]any)
		if len(opts) > OptionCount {
			opts = opts[:OptionCount]
		}
		for _, o := range opts {
			q.Options = append(q.Options, text(o))
		}

		answer, ok := answerIndex(m["answer"])
		if !ok {
			if g.config.StrictMode {
				continue
			}
			answer = 0
		}
		q.Answer = answer

		if q.Valid() {
			out = append(out, q)
		}
	}
	return out
}

// answerIndex accepts only a whole number in [0, OptionCount).
func answerIndex(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < 0 || f >= OptionCount {
		return 0, false
	}
	return int(f), true
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}
