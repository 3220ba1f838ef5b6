package cli

import (
	"time"

	"github.com/alexanderramin/studytime/internal/cli/formatter"
	"github.com/alexanderramin/studytime/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to the services used by CLI commands.
type App struct {
	StudyTime service.StudyTimeService
	Limits    service.LimitService

	// Location resolves "today" and study dates. Defaults to time.Local.
	Location *time.Location
	// Now is replaceable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (a *App) location() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// NewRootCmd creates the top-level "studytime" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var plain bool

	root := &cobra.Command{
		Use:           "studytime",
		Short:         "Effective study time engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if plain {
				formatter.SetPlain(true)
			}
		},
	}
	root.PersistentFlags().BoolVar(&plain, "plain", false, "Disable colors and borders")

	root.AddCommand(
		newProcessCmd(app),
		newBatchCmd(app),
		newRecordsCmd(app),
		newDailyCmd(app),
		newLimitCmd(app),
	)

	return root
}
