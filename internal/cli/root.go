package cli

import (
	"time"

	"github.com/alexanderramin/peerassign/internal/cli/formatter"
	"github.com/alexanderramin/peerassign/internal/config"
	"github.com/alexanderramin/peerassign/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and defaults used by CLI commands.
type App struct {
	Allocation service.AllocationService
	Runs       service.RunService
	// Defaults supply flag defaults; usually loaded from PEERASSIGN_* env vars.
	Defaults config.Config
	Now      func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "peerassign" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:   "peerassign",
		Short: "Balanced peer-review assignments for student groups",
		Long: `peerassign reads a tab-separated roster (one group per line: group id,
then members) and assigns every student a fixed number of other groups to
review, keeping the review load on each group balanced.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor || app.Defaults.NoColor {
				formatter.DisableColor()
			}
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newAllocateCmd(app),
		newQuotasCmd(app),
		newRunsCmd(app),
	)

	return root
}
