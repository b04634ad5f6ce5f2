package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutolearn/tuto/internal/store"
	"github.com/tutolearn/tuto/internal/ui/theme"
)

func newThemeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the output color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{theme.NameDark, theme.NameLight},
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(e.out, e.theme.Name)
				return nil
			}
			if !theme.Valid(args[0]) {
				return fmt.Errorf("unknown theme %q (want dark or light)", args[0])
			}
			if err := store.SetTheme(cmd.Context(), e.kv, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(e.out, theme.ForName(args[0]).Title().Render("Theme set to "+args[0]))
			return nil
		}),
	}
}

func newAuthCmd(opts *rootOptions) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent to the local AI server",
	}

	var clear bool
	tokenCmd := &cobra.Command{
		Use:   "token [value]",
		Short: "Show, set or clear the stored token",
		Args:  cobra.MaximumNArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			ctx := cmd.Context()
			switch {
			case clear:
				if err := store.SetAuthToken(ctx, e.kv, ""); err != nil {
					return err
				}
				fmt.Fprintln(e.out, "Token cleared.")
			case len(args) == 1:
				if err := store.SetAuthToken(ctx, e.kv, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(e.out, "Token saved.")
			default:
				token, err := store.AuthToken(ctx, e.kv)
				if err != nil {
					return err
				}
				if token == "" {
					fmt.Fprintln(e.out, "No token set.")
					return nil
				}
				fmt.Fprintln(e.out, maskToken(token))
			}
			return nil
		}),
	}
	tokenCmd.Flags().BoolVar(&clear, "clear", false, "Remove the stored token")

	authCmd.AddCommand(tokenCmd)
	return authCmd
}

// maskToken shows only the last four characters.
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
