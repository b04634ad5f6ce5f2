package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tutolearn/tuto/internal/llm"
	"github.com/tutolearn/tuto/internal/store"
)

func newLLMCmd(opts *rootOptions) *cobra.Command {
	llmCmd := &cobra.Command{
		Use:   "llm",
		Short: "Inspect AI request/response events",
	}
	llmCmd.AddCommand(newLLMListCmd(opts), newLLMViewCmd(opts), newLLMStatsCmd(opts))
	return llmCmd
}

func newLLMListCmd(opts *rootOptions) *cobra.Command {
	var (
		limit   int
		purpose string
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List recent AI events",
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			events, err := e.db.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}

			if len(events) == 0 {
				fmt.Fprintln(e.out, "No AI events found.")
				return nil
			}

			// Header.
			fmt.Fprintf(e.out, "%-5s  %-19s  %-10s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
				"ID", "Timestamp", "Provider", "Purpose", "Model", "In", "Out", "Ms", "OK")
			fmt.Fprintln(e.out, strings.Repeat("─", 110))

			for _, ev := range events {
				ok := "✓"
				if !ev.Success {
					ok = "✗"
				}
				fmt.Fprintf(e.out, "%-5d  %-19s  %-10s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
					ev.ID,
					ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
					ev.Provider,
					ev.Purpose,
					truncate(ev.Model, 28),
					ev.InputTokens,
					ev.OutputTokens,
					ev.LatencyMs,
					ok,
				)
			}
			return nil
		}),
	}
	c.Flags().IntVarP(&limit, "limit", "n", 20, "Number of events to show")
	c.Flags().StringVarP(&purpose, "purpose", "p", "", "Filter by purpose (plan, quiz, assistant)")
	return c
}

func newLLMViewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "View full request/response for an AI event",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid ID %q: %w", args[0], err)
			}

			ev, err := e.db.EventRepo().GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if ev == nil {
				return fmt.Errorf("event %d not found", id)
			}

			sep := strings.Repeat("─", 60)
			w := e.out

			fmt.Fprintf(w, "ID:        %d\n", ev.ID)
			fmt.Fprintf(w, "Time:      %s\n", ev.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(w, "Provider:  %s\n", ev.Provider)
			fmt.Fprintf(w, "Model:     %s\n", ev.Model)
			fmt.Fprintf(w, "Purpose:   %s\n", ev.Purpose)
			fmt.Fprintf(w, "Tokens:    %d in / %d out\n", ev.InputTokens, ev.OutputTokens)
			fmt.Fprintf(w, "Latency:   %dms\n", ev.LatencyMs)
			fmt.Fprintf(w, "Success:   %v\n", ev.Success)
			if ev.ErrorMessage != "" {
				fmt.Fprintf(w, "Error:     %s\n", ev.ErrorMessage)
			}

			for _, part := range []struct{ title, body string }{
				{"REQUEST", ev.RequestBody},
				{"RESPONSE", ev.ResponseBody},
			} {
				fmt.Fprintln(w)
				fmt.Fprintln(w, sep)
				fmt.Fprintln(w, part.title)
				fmt.Fprintln(w, sep)
				if part.body != "" {
					fmt.Fprintln(w, part.body)
				} else {
					fmt.Fprintln(w, "(not captured)")
				}
			}
			return nil
		}),
	}
}

func newLLMStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregated AI token usage and estimated cost",
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			ctx := cmd.Context()
			w := e.out
			stats, err := e.db.EventRepo().LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}

			if len(stats) == 0 {
				fmt.Fprintln(w, "No AI usage recorded yet.")
				return nil
			}

			// Usage by purpose.
			fmt.Fprintln(w, "Usage by Purpose")
			fmt.Fprintln(w, strings.Repeat("─", 72))
			fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
				"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
			fmt.Fprintln(w, strings.Repeat("─", 72))

			var totalCalls, totalIn, totalOut int
			for _, st := range stats {
				total := st.InputTokens + st.OutputTokens
				fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
					st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, total, st.AvgLatencyMs)
				totalCalls += st.Calls
				totalIn += st.InputTokens
				totalOut += st.OutputTokens
			}

			fmt.Fprintln(w, strings.Repeat("─", 72))
			fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n",
				"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)

			// Cost by model.
			modelUsage, err := e.db.EventRepo().LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			if len(modelUsage) == 0 {
				return nil
			}

			fmt.Fprintln(w)
			fmt.Fprintln(w, "Estimated Cost (USD)")
			fmt.Fprintln(w, strings.Repeat("─", 72))
			fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n",
				"Model", "Calls", "Input", "Output", "Cost")
			fmt.Fprintln(w, strings.Repeat("─", 72))

			var totalCost float64
			var unknownModels []string
			for _, mu := range modelUsage {
				cost := llm.LookupCost(mu.Model)
				if cost == nil {
					unknownModels = append(unknownModels, mu.Model)
					fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
						truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
					continue
				}
				c := cost.Cost(mu.InputTokens, mu.OutputTokens)
				totalCost += c
				fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
					truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
			}

			fmt.Fprintln(w, strings.Repeat("─", 72))
			label := "TOTAL"
			if len(unknownModels) > 0 {
				label = "TOTAL (partial)"
			}
			fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))

			if len(unknownModels) > 0 {
				fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
			}
			return nil
		}),
	}
}
