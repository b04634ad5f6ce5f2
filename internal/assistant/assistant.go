// Package assistant answers free-form learner questions about the current
// lesson, with a keyword-routed local responder when the AI is unavailable.
package assistant

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tutolearn/tuto/internal/llm"
)

const lessonContentLimit = 4000

// Context describes the lesson the learner is working on.
type Context struct {
	LessonTitle   string
	LessonContent string
	PlanTitle     string
	UserLevel     string
}

// Reply is a display-ready plain text answer. Fallback is set when the
// text came from the local responder.
type Reply struct {
	Text     string
	Fallback bool
}

// Session sends one message per Ask; it keeps no conversation history.
type Session struct {
	ai     llm.Completer
	routes []route
	log    *zap.Logger
}

// NewSession creates a Session. A nil client always uses the local
// responder.
func NewSession(ai llm.Completer, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{ai: ai, routes: defaultRoutes(), log: log}
}

// Ask returns an answer to message. It never fails and never returns empty
// text.
func (s *Session) Ask(ctx context.Context, message string, lc Context) Reply {
	message = strings.TrimSpace(message)
	if message == "" || s.ai == nil {
		return Reply{Text: s.fallback(message, lc.LessonTitle), Fallback: true}
	}

	sc := llm.SystemContext{
		LessonTitle:   orDefault(lc.LessonTitle, "Current Lesson"),
		LessonContent: truncate(lc.LessonContent, lessonContentLimit),
		PlanTitle:     orDefault(lc.PlanTitle, "Study Plan"),
		UserLevel:     orDefault(lc.UserLevel, "Intermediate"),
	}

	text, err := s.ai.Complete(llm.WithPurpose(ctx, llm.PurposeAssistant), message, sc)
	if err == nil && strings.TrimSpace(text) != "" {
		return Reply{Text: strings.TrimSpace(text)}
	}

	if err != nil {
		s.log.Warn("assistant reply failed; using local responder",
			zap.String("lesson", lc.LessonTitle),
			zap.Error(err),
		)
	} else {
		s.log.Warn("assistant reply was empty; using local responder", zap.String("lesson", lc.LessonTitle))
	}
	return Reply{Text: s.fallback(message, lc.LessonTitle), Fallback: true}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
