package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/studytime/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDailyCmd(app *App) *cobra.Command {
	var userID, date string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show a user's committed effective time for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			day, err := resolveDate(date, app.location(), app.now())
			if err != nil {
				return err
			}

			sum, err := app.StudyTime.DailySummary(cmd.Context(), userID, day)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDailySummary(sum))
			return nil
		},
	}

	addUserFlag(cmd.Flags(), &userID)
	addDateFlag(cmd.Flags(), &date)

	return cmd
}
