package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/studytime/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newLimitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Manage per-user daily effective time limits",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <user>",
			Short: "Show a user's daily limit",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				seconds, override, err := app.Limits.GetLimit(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLimit(args[0], seconds, override))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <user> <seconds>",
			Short: "Override a user's daily limit",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				seconds, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("invalid seconds %q: %w", args[1], err)
				}
				if err := app.Limits.SetLimit(cmd.Context(), args[0], seconds); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLimit(args[0], seconds, true))
				return nil
			},
		},
	)

	return cmd
}
