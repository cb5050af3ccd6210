package cli

import (
	"fmt"

	"github.com/alexanderramin/peerassign/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newQuotasCmd(app *App) *cobra.Command {
	var rosterPath string
	var k int

	cmd := &cobra.Command{
		Use:   "quotas",
		Short: "Show how many reviews each group will receive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readRoster(rosterPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			resp, err := app.Allocation.Quotas(cmd.Context(), text, k)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatQuotas(resp))
			return nil
		},
	}

	cmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "Roster file (tab-separated), or - for stdin")
	cmd.Flags().IntVarP(&k, "per-student", "k", app.Defaults.AssignmentsPerStudent, "Groups each student reviews")
	_ = cmd.MarkFlagRequired("roster")

	return cmd
}
