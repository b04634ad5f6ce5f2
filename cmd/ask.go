package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tutolearn/tuto/internal/assistant"
	"github.com/tutolearn/tuto/internal/session"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var contextFile string

	c := &cobra.Command{
		Use:   "ask <planID> <day> <message...>",
		Short: "Ask the assistant about a day's lesson",
		Args:  cobra.MinimumNArgs(3),
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
			text, err := lessonText(day, contextFile)
			if err != nil {
				return err
			}

			sess := session.New(p.ID)
			sess.SelectDay(ref)
			a := assistant.NewSession(optionalClient(ctx, e), e.log)

			reply, current, _ := session.Guard(ctx, sess, session.ActionAssistant, func(ctx context.Context) (assistant.Reply, error) {
				return a.Ask(ctx, strings.Join(args[2:], " "), assistant.Context{
					LessonTitle:   day.PrimaryTopic(),
					LessonContent: text,
					PlanTitle:     p.Topic,
					UserLevel:     string(p.Difficulty),
				}), nil
			})
			if ctx.Err() != nil {
				sess.Cancel(session.ActionAssistant)
				return ctx.Err()
			}
			if !current {
				return errStale
			}

			if reply.Fallback {
				fmt.Fprintln(e.out, e.theme.Notice().Render("AI assistant response failed. Showing a basic hint instead."))
			}
			fmt.Fprintln(e.out, e.theme.Card().Render(reply.Text))
			return nil
		}),
	}
	c.Flags().StringVar(&contextFile, "context-file", "", "Lesson notes (.txt, .md or .pdf) to ground the answer")
	return c
}
