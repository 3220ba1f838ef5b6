package cli

import (
	"fmt"

	"github.com/alexanderramin/studytime/internal/cli/formatter"
	"github.com/alexanderramin/studytime/internal/contract"
	"github.com/spf13/cobra"
)

func newProcessCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "process [file]",
		Short: "Evaluate one closed study session (JSON from file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := readRequests(cmd, args)
			if err != nil {
				return err
			}
			if len(reqs) != 1 {
				return fmt.Errorf("process expects exactly one request, got %d (use batch)", len(reqs))
			}

			rec, err := app.StudyTime.ProcessStudyTime(cmd.Context(), reqs[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecord(rec))
			return nil
		},
	}
}

func newBatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "batch [file]",
		Short: "Evaluate many closed study sessions from a JSON array",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := readRequests(cmd, args)
			if err != nil {
				return err
			}

			res := app.StudyTime.BatchProcessStudyTime(cmd.Context(), reqs)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBatch(res))
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d requests failed", res.Failed, len(reqs))
			}
			return nil
		},
	}
}

func readRequests(cmd *cobra.Command, args []string) ([]contract.StudyTimeRequest, error) {
	in, err := openInput(cmd, args)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return contract.DecodeRequests(in)
}
