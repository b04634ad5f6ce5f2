package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tutolearn/tuto/internal/llm"
	"github.com/tutolearn/tuto/internal/material"
	"github.com/tutolearn/tuto/internal/plan"
)

var errStale = errors.New("result arrived after the request was superseded; discarded")

// lessonText is the context fed to quiz and assistant prompts: the file's
// text when one is given, else a summary of the day itself.
func lessonText(day plan.Day, contextFile string) (string, error) {
	if contextFile != "" {
		text, err := material.Load(contextFile)
		if err != nil {
			return "", fmt.Errorf("load lesson context: %w", err)
		}
		return text, nil
	}

	var b strings.Builder
	b.WriteString(day.Title)
	if len(day.Topics) > 0 {
		fmt.Fprintf(&b, "\nTopics: %s", strings.Join(day.Topics, ", "))
	}
	if len(day.Activities) > 0 {
		fmt.Fprintf(&b, "\nActivities: %s", strings.Join(day.Activities, ", "))
	}
	if day.TimeRequired > 0 {
		fmt.Fprintf(&b, "\nTime: %d minutes", day.TimeRequired)
	}
	return b.String(), nil
}

// optionalClient opens the AI client for components that have a local
// fallback. A configuration problem is logged and yields a nil Completer.
func optionalClient(ctx context.Context, e *env) llm.Completer {
	c, _, err := e.client(ctx)
	if err != nil {
		e.log.Warn("AI provider unavailable; using local fallback", zap.Error(err))
		return nil
	}
	return c
}
