package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/studytime/internal/cli/formatter"
	"github.com/alexanderramin/studytime/internal/domain"
	"github.com/spf13/cobra"
)

func newRecordsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect and review study time records",
	}

	cmd.AddCommand(
		newRecordsListCmd(app),
		newRecordsShowCmd(app),
		newRecordsReviewCmd(app),
		newRecordsTransitionCmd(app),
	)

	return cmd
}

func newRecordsListCmd(app *App) *cobra.Command {
	var userID, date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's records for one study date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			day, err := resolveDate(date, app.location(), app.now())
			if err != nil {
				return err
			}

			recs, err := app.StudyTime.ListRecords(cmd.Context(), userID, day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecordList(recs))
			return nil
		},
	}

	addUserFlag(cmd.Flags(), &userID)
	addDateFlag(cmd.Flags(), &date)

	return cmd
}

func newRecordsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := app.StudyTime.GetRecord(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecord(rec))
			return nil
		},
	}
}

func newRecordsReviewCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "review",
		Short: "List counted records whose quality needs manual review",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := app.StudyTime.ListNeedingReview(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecordList(recs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records")

	return cmd
}

func newRecordsTransitionCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "transition <id> <status>",
		Short: "Move a record through the review workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := parseStatus(args[1])
			if err != nil {
				return err
			}

			rec, err := app.StudyTime.TransitionStatus(cmd.Context(), args[0], next, note)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Record %s is now %s (effective %s)\n",
				rec.ID, formatter.StatusPill(rec.Status), formatter.FormatSeconds(rec.EffectiveDuration))
			if rec.Status == domain.StatusApproved && rec.InvalidReason != nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(rec.Description))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Reviewer note appended to the description")

	return cmd
}
