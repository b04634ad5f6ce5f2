package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tutolearn/tuto/internal/llm"
	"github.com/tutolearn/tuto/internal/plan"
	"github.com/tutolearn/tuto/internal/quiz"
	"github.com/tutolearn/tuto/internal/session"
	"github.com/tutolearn/tuto/internal/ui/components"
)

var errNoKeptQuiz = errors.New("no quiz kept for this day; run without --answers first")

func newQuizCmd(opts *rootOptions) *cobra.Command {
	var (
		answers     string
		contextFile string
		fresh       bool
		strict      bool
	)

	c := &cobra.Command{
		Use:   "quiz <planID> <day>",
		Short: "Take a three-question quiz on a day",
		Long: "Without --answers the quiz is shown and kept for the day. " +
			"Run again with --answers to grade it, e.g. --answers 1,2,0 (0-based, A-D also accepted, - to skip).",
		Args: cobra.ExactArgs(2),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			ctx := cmd.Context()
			p, err := loadPlan(cmd, e, args[0])
			if err != nil {
				return err
			}
			ref, day, err := resolveDay(p, args[1])
			if err != nil {
				return err
			}

			var selections []int
			if answers != "" {
				if selections, err = parseAnswers(answers); err != nil {
					return err
				}
			}

			qs, ok, err := quiz.LoadLast(ctx, e.kv, p.ID, ref)
			if err != nil {
				return err
			}
			switch {
			case selections == nil:
				if ok && !fresh {
					break
				}
				if qs, err = generateQuiz(cmd, e, p, ref, day, contextFile, strict); err != nil {
					return err
				}
			case fresh:
				return errors.New("--new shows a new quiz; run it without --answers, then grade")
			case !ok:
				return errNoKeptQuiz
			}

			if selections == nil {
				for i, q := range qs {
					fmt.Fprintln(e.out, components.NewMultiChoice(i+1, q.Question, q.Options, q.Answer).View(e.theme))
				}
				fmt.Fprintf(e.out, "Submit with: tuto quiz %d %s --answers %s\n", p.ID, args[1], exampleAnswers(len(qs)))
				return nil
			}

			score := quiz.Grade(qs, selections)
			for i, q := range qs {
				chosen := quiz.Unanswered
				if i < len(selections) {
					chosen = selections[i]
				}
				mc := components.NewMultiChoice(i+1, q.Question, q.Options, q.Answer).Grade(chosen, q.Explanation)
				fmt.Fprintln(e.out, mc.View(e.theme))
			}

			summary := fmt.Sprintf("Quiz submitted: %d/%d correct (%d%%)", score.Correct, score.Total, score.Percent)
			if score.Passed() {
				fmt.Fprintln(e.out, e.theme.Correct().Render(summary))
			} else {
				fmt.Fprintln(e.out, e.theme.Notice().Render(summary))
			}

			pct, err := e.progress.RecordQuizCompletion(ctx, p.ID, ref)
			if err != nil {
				e.log.Warn("record quiz completion", zap.Error(err))
				return nil
			}
			fmt.Fprintln(e.out, components.NewProgressBar(day.Title, pct, true, 60).View(e.theme))
			return nil
		}),
	}

	f := c.Flags()
	f.StringVarP(&answers, "answers", "a", "", "Comma-separated answers to grade, e.g. 1,2,0")
	f.StringVar(&contextFile, "context-file", "", "Lesson notes (.txt, .md or .pdf) to base the questions on")
	f.BoolVar(&fresh, "new", false, "Generate new questions even if a quiz is kept for this day")
	f.BoolVar(&strict, "strict", false, "Drop AI questions with a missing or invalid answer instead of defaulting it")
	return c
}

// generateQuiz produces a quiz for the day and keeps it for grading.
func generateQuiz(cmd *cobra.Command, e *env, p *plan.StudyPlan, ref plan.DayRef, day plan.Day, contextFile string, strict bool) ([]quiz.Question, error) {
	ctx := cmd.Context()
	text, err := lessonText(day, contextFile)
	if err != nil {
		return nil, err
	}

	gen := quiz.NewGenerator(optionalClient(ctx, e), quiz.Config{StrictMode: strict}, e.log)
	sess := session.New(p.ID)
	sess.SelectDay(ref)

	res, current, _ := session.Guard(ctx, sess, session.ActionQuiz, func(ctx context.Context) (quiz.Result, error) {
		return gen.GenerateQuiz(ctx, quiz.LessonContext{
			Day:         day,
			ContextText: text,
			PlanTitle:   p.Topic,
			UserLevel:   string(p.Difficulty),
		}), nil
	})
	if ctx.Err() != nil {
		sess.Cancel(session.ActionQuiz)
		return nil, ctx.Err()
	}
	if !current {
		return nil, errStale
	}

	if res.Fallback {
		fmt.Fprintln(e.out, e.theme.Notice().Render(
			fmt.Sprintf("AI quiz generation failed (%s). Using a fallback quiz.", llm.StatusText(res.Reason))))
	}
	if err := quiz.SaveLast(ctx, e.kv, p.ID, ref, res.Questions); err != nil {
		e.log.Warn("keep quiz", zap.Error(err))
	}
	return res.Questions, nil
}

// parseAnswers reads 0-based indices, letters A-D, or "-" for unanswered.
func parseAnswers(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, raw := range parts {
		a := strings.TrimSpace(raw)
		switch {
		case a == "" || a == "-":
			out = append(out, quiz.Unanswered)
		case len(a) == 1 && strings.ContainsAny(strings.ToUpper(a), "ABCD"):
			out = append(out, int(strings.ToUpper(a)[0]-'A'))
		default:
			n, err := strconv.Atoi(a)
			if err != nil {
				return nil, fmt.Errorf("invalid answer %q: use 0-3, A-D or -", a)
			}
			out = append(out, n)
		}
	}
	return out, nil
}

func exampleAnswers(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = strconv.Itoa(i % quiz.OptionCount)
	}
	return strings.Join(parts, ",")
}
