package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tutolearn/tuto/internal/llm"
	"github.com/tutolearn/tuto/internal/plan"
	"github.com/tutolearn/tuto/internal/progress"
	"github.com/tutolearn/tuto/internal/ui/components"
	"github.com/tutolearn/tuto/internal/ui/layout"
)

func newPlanCmd(opts *rootOptions) *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Create and inspect study plans",
	}
	planCmd.AddCommand(newPlanCreateCmd(opts), newPlanListCmd(opts), newPlanShowCmd(opts))
	return planCmd
}

func newPlanCreateCmd(opts *rootOptions) *cobra.Command {
	defaults := plan.DefaultPreferences()
	var (
		days       int
		difficulty string
		minutes    int
		styles     []string
		retries    int
	)

	c := &cobra.Command{
		Use:   "create <topic...>",
		Short: "Generate a new study plan with the configured AI provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			d, ok := plan.ParseDifficulty(difficulty)
			if !ok {
				return fmt.Errorf("unknown difficulty %q (want Beginner, Intermediate or Advanced)", difficulty)
			}
			prefs := plan.Preferences{Duration: days, Difficulty: d, TimePerDay: minutes, LearningStyles: styles}
			if err := prefs.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			client, cfg, err := e.client(ctx)
			if err != nil {
				return providerSetupError(err)
			}
			if retries > 1 {
				rc := cfg.Retry
				rc.MaxAttempts = retries
				client = client.WithProvider(llm.WithRetry(client.Provider(), rc))
			}

			topic := strings.Join(args, " ")
			fmt.Fprintln(e.out, e.theme.Subtitle().Render(fmt.Sprintf("Generating a %d-day plan for %s...", days, topic)))

			p, err := plan.NewGenerator(client, e.log).Generate(ctx, topic, prefs)
			if err != nil {
				e.log.Warn("plan not created", zap.Error(err))
				return fmt.Errorf("%w\n\nNothing was saved. Try again, or pass --retries 3", err)
			}

			id, err := e.progress.AddPlan(ctx, p)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, e.theme.Correct().Render(fmt.Sprintf("Created plan %d: %s", id, p.Topic)))
			fmt.Fprintf(e.out, "%d weeks, %d days, %s, %s\n", len(p.Schedule), p.TotalDays(), p.Difficulty, p.TimePerDay)
			if p.Overview != "" {
				fmt.Fprintln(e.out, e.theme.Hint().Render(p.Overview))
			}
			fmt.Fprintf(e.out, "\nNext: tuto plan show %d\n", id)
			return nil
		}),
	}

	f := c.Flags()
	f.IntVar(&days, "days", defaults.Duration, "Plan length in days (1-90)")
	f.StringVar(&difficulty, "difficulty", string(defaults.Difficulty), "Beginner, Intermediate or Advanced")
	f.IntVar(&minutes, "minutes", defaults.TimePerDay, "Study time per day in minutes (5-480)")
	f.StringSliceVar(&styles, "style", nil, "Learning style, repeatable (e.g. visual, hands-on)")
	f.IntVar(&retries, "retries", 1, "Attempts on transient provider errors")
	return c
}

func newPlanListCmd(opts *rootOptions) *cobra.Command {
	var status, search string

	c := &cobra.Command{
		Use:   "list",
		Short: "List study plans, newest first",
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			st := plan.Status(strings.ToLower(status))
			switch st {
			case "", plan.StatusPlanning, plan.StatusActive, plan.StatusCompleted:
			default:
				return fmt.Errorf("unknown status %q (want planning, active or completed)", status)
			}

			plans, err := e.progress.Filter(cmd.Context(), st, search)
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Fprintln(e.out, "No study plans found.")
				return nil
			}

			fmt.Fprintf(e.out, "%-14s  %-28s  %-12s  %-10s  %5s  %s\n",
				"ID", "Topic", "Difficulty", "Status", "Days", "Progress")
			fmt.Fprintln(e.out, strings.Repeat("─", 90))
			for _, p := range plans {
				bar := components.NewProgressBar("", progress.OverallProgress(&p), true, 22)
				fmt.Fprintf(e.out, "%-14d  %-28s  %-12s  %-10s  %5d  %s\n",
					p.ID, truncate(p.Topic, 28), p.Difficulty, p.Status, p.TotalDays(), bar.View(e.theme))
			}
			return nil
		}),
	}
	c.Flags().StringVar(&status, "status", "", "Only plans with this status (planning, active, completed)")
	c.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive match on topic, overview or difficulty")
	return c
}

func newPlanShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <planID>",
		Short: "Show a plan with per-day progress",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			ctx := cmd.Context()
			p, err := loadPlan(cmd, e, args[0])
			if err != nil {
				return err
			}

			overall := progress.OverallProgress(p)
			fmt.Fprintln(e.out, layout.RenderHeader(e.theme, p.Topic, string(p.Status), layout.DefaultWidth))
			fmt.Fprintf(e.out, "%s · %s · %s · created %s\n",
				p.Duration, p.Difficulty, p.TimePerDay, p.CreatedAt.Local().Format("2006-01-02"))
			if len(p.LearningStyles) > 0 {
				fmt.Fprintf(e.out, "Learning styles: %s\n", strings.Join(p.LearningStyles, ", "))
			}
			if p.Overview != "" {
				fmt.Fprintln(e.out, e.theme.Hint().Render(p.Overview))
			}
			fmt.Fprintln(e.out)
			fmt.Fprintln(e.out, components.NewProgressBar("Overall", overall, true, layout.DefaultWidth).View(e.theme))
			fmt.Fprintf(e.out, "%d of %d days complete\n\n", p.CompletedDays(), p.TotalDays())

			flat := plan.Flatten(p)
			for wi, w := range p.Schedule {
				var lines []string
				for _, fd := range flat {
					if fd.WeekIndex != wi {
						continue
					}
					lines = append(lines, dayLine(e, fd, e.progress.DayPercent(ctx, p.ID, fd.Ref())))
				}
				fmt.Fprint(e.out, layout.RenderSection(e.theme, w.Title, lines))
			}
			return nil
		}),
	}
}

func dayLine(e *env, fd plan.FlatDay, pct int) string {
	mark := "○"
	if fd.Day.Completed {
		mark = e.theme.Correct().Render("✓")
	}
	bar := components.NewProgressBar("", pct, true, 20).View(e.theme)
	line := fmt.Sprintf("%s %2d. %-36s %s", mark, fd.GlobalDayIndex, truncate(fd.Day.Title, 36), bar)
	if len(fd.Day.Topics) > 0 {
		line += "\n      " + e.theme.Subtitle().Render(strings.Join(fd.Day.Topics, " · "))
	}
	return line
}

// loadPlan parses a plan id argument and loads the plan.
func loadPlan(cmd *cobra.Command, e *env, arg string) (*plan.StudyPlan, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid plan ID %q", arg)
	}
	return e.progress.Plan(cmd.Context(), id)
}

// resolveDay maps the 1-based day number shown by "plan show" to a DayRef.
func resolveDay(p *plan.StudyPlan, arg string) (plan.DayRef, plan.Day, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return plan.DayRef{}, plan.Day{}, fmt.Errorf("invalid day number %q", arg)
	}
	ref, ok := plan.RefAt(p, n-1)
	if !ok {
		return plan.DayRef{}, plan.Day{}, fmt.Errorf("%w: day %d of %d", plan.ErrDayNotFound, n, p.TotalDays())
	}
	day, _ := p.DayAt(ref)
	return ref, *day, nil
}

// providerSetupError adds guidance to configuration failures.
func providerSetupError(err error) error {
	if llm.IsConfigError(err) {
		return fmt.Errorf("%w\n\nConfigure your AI provider: set TUTO_PROVIDER and its API key, or pass --config", err)
	}
	return err
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

// nextOpenDay returns the 1-based number of the first incomplete day after
// the day numbered current.
func nextOpenDay(p *plan.StudyPlan, current string) (int, bool) {
	n, err := strconv.Atoi(current)
	if err != nil {
		return 0, false
	}
	for _, fd := range plan.Flatten(p) {
		if fd.GlobalDayIndex > n && !fd.Day.Completed {
			return fd.GlobalDayIndex, true
		}
	}
	return 0, false
}
