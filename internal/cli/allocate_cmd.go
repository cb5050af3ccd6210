package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/peerassign/internal/cli/formatter"
	"github.com/alexanderramin/peerassign/internal/contract"
	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/report"
	"github.com/spf13/cobra"
)

func newAllocateCmd(app *App) *cobra.Command {
	var (
		rosterPath  string
		name        string
		k           int
		seed        int64
		stallFactor int
		out         string
		dryRun      bool
		summary     bool
	)
	strategy := &strategyFlag{value: domain.Strategy(app.Defaults.Strategy)}
	if strategy.value == "" {
		strategy.value = domain.StrategyRejection
	}

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Assign review groups to every student and write the CSV",
		Example: `  peerassign allocate --roster groups.tsv -k 3 --out reviews.csv
  peerassign allocate --roster - --seed 42 --dry-run < groups.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, fileName, err := readRoster(rosterPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			req := contract.NewAllocateRequest(text)
			req.RosterName = fileName
			if name != "" {
				req.RosterName = name
			}
			req.AssignmentsPerStudent = k
			req.Strategy = strategy.value
			req.StallFactor = stallFactor
			req.DryRun = dryRun
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			resp, err := app.Allocation.Allocate(cmd.Context(), req)
			if err != nil {
				var ae *contract.AllocationError
				if errors.As(err, &ae) {
					if hint := formatter.FailureHint(ae.Code); hint != "" {
						fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("hint: "+hint))
					}
				}
				return err
			}

			err = writeOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return report.WriteCSV(w, resp.Roster, resp.Result)
			})
			if err != nil {
				return err
			}

			if summary {
				// Keep stdout clean for the CSV unless it went to a file.
				sw := cmd.ErrOrStderr()
				if out != "" {
					sw = cmd.OutOrStdout()
				}
				fmt.Fprintln(sw, formatter.FormatAllocationSummary(resp))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "Roster file (tab-separated), or - for stdin")
	cmd.Flags().StringVar(&name, "name", "", "Name stored with the roster (default: file name)")
	cmd.Flags().IntVarP(&k, "per-student", "k", app.Defaults.AssignmentsPerStudent, "Groups each student reviews")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (default: fresh random seed, recorded with the run)")
	cmd.Flags().Var(strategy, "strategy", "Allocation strategy: rejection or flow")
	cmd.Flags().IntVar(&stallFactor, "stall-factor", app.Defaults.StallFactor, "Rejected draws tolerated per pool entry before giving up")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the CSV to this file instead of stdout")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Do not store the run")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a load summary")
	_ = cmd.MarkFlagRequired("roster")

	return cmd
}
