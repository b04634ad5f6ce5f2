package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutolearn/tuto/internal/progress"
	"github.com/tutolearn/tuto/internal/ui/components"
)

func newDayCmd(opts *rootOptions) *cobra.Command {
	dayCmd := &cobra.Command{
		Use:   "day",
		Short: "Record progress on a day of a plan",
	}
	dayCmd.AddCommand(newDayCompleteCmd(opts), newDayInteractCmd(opts))
	return dayCmd
}

func newDayCompleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <planID> <day>",
		Short: "Mark a day complete",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			p, err := loadPlan(cmd, e, args[0])
			if err != nil {
				return err
			}
			ref, day, err := resolveDay(p, args[1])
			if err != nil {
				return err
			}

			updated, err := e.progress.MarkDayComplete(cmd.Context(), p.ID, ref)
			if err != nil {
				return err
			}

			fmt.Fprintln(e.out, e.theme.Correct().Render(fmt.Sprintf("Day completed: %s", day.Title)))
			fmt.Fprintln(e.out, components.NewProgressBar("Overall", updated.Progress, true, 60).View(e.theme))
			if updated.Progress == 100 {
				fmt.Fprintln(e.out, e.theme.Notice().Render("Plan complete. Well done!"))
			} else if next, ok := nextOpenDay(updated, args[1]); ok {
				fmt.Fprintf(e.out, "Up next: day %d\n", next)
			}
			return nil
		}),
	}
}

func newDayInteractCmd(opts *rootOptions) *cobra.Command {
	var sections, code int

	c := &cobra.Command{
		Use:   "interact <planID> <day>",
		Short: "Record lesson sections read and code examples tried",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			p, err := loadPlan(cmd, e, args[0])
			if err != nil {
				return err
			}
			ref, day, err := resolveDay(p, args[1])
			if err != nil {
				return err
			}

			pct, err := e.progress.RecordInteraction(cmd.Context(), p.ID, ref, sections, code)
			if err != nil {
				return err
			}

			fmt.Fprintln(e.out, components.NewProgressBar(day.Title, pct, true, 60).View(e.theme))
			if msg := progress.Encouragement(pct); msg != "" {
				fmt.Fprintln(e.out, e.theme.Notice().Render(msg))
			}
			return nil
		}),
	}
	c.Flags().IntVar(&sections, "sections", 0, fmt.Sprintf("Lesson sections completed (0-%d)", progress.TrackedSections))
	c.Flags().IntVar(&code, "code", 0, fmt.Sprintf("Code examples interacted with (counts up to %d)", progress.TrackedCodeExamples))
	return c
}
