package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/alexiusacademia/gocol/internal/store"
	"github.com/spf13/cobra"
)

var runsLast int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse the history of saved catalog evaluations",
	Long: `Catalog evaluations run with --save (and every evaluation made
through the HTTP API) are kept in a SQLite database, by default
~/.gocol/runs.db. Set database.path or GOCOL_DB to use another file.

Subcommands:
  list    - List saved runs, newest first
  show    - Show the per-section results of a run
  delete  - Delete a run`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *store.Store) error {
			runs, err := s.ListRuns(cmd.Context(), runsLast)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No saved runs.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "  ID\tDATE\tSOURCE\tLENGTH (mm)\tfy (MPa)\tDEAD (N)\tLIVE (N)\tSECTIONS\tFAILED")
			for _, r := range runs {
				fmt.Fprintf(w, "  %d\t%s\t%s\t%.0f\t%.1f\t%.2f\t%.2f\t%d\t%d\n",
					r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Source,
					r.Params.Height, r.Params.YieldStress, r.Params.Dead, r.Params.Live,
					r.Rows, r.Failures)
			}
			return w.Flush()
		})
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the per-section results of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		return withStore(cmd, func(s *store.Store) error {
			run, err := s.GetRun(cmd.Context(), id)
			if err != nil {
				return err
			}
			results, err := s.Results(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Printf("  Run #%d: %s, %s\n", run.ID, run.Source, run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("  L = %.0f mm, fy = %.1f MPa, D = %.2f N, L = %.2f N\n",
				run.Params.Height, run.Params.YieldStress, run.Params.Dead, run.Params.Live)
			fmt.Println("───────────────────────────────────────────────────────────────")

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "  SECTION\tNEd (N)\tNb,Rd (N)\tDCR\t")
			for _, r := range results {
				if r.Error != "" {
					fmt.Fprintf(w, "  %s\t-\t-\t-\t✗ %s\n", r.Section, r.Error)
					continue
				}
				mark := "✓"
				if *r.DCR > 1 {
					mark = "✗"
				}
				fmt.Fprintf(w, "  %s\t%.2f\t%.2f\t%.4f\t%s\n", r.Section, *r.FactoredLoad, *r.AxialResistance, *r.DCR, mark)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Println()
			return nil
		})
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		return withStore(cmd, func(s *store.Store) error {
			if err := s.DeleteRun(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Run #%d deleted.\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)

	runsListCmd.Flags().IntVarP(&runsLast, "last", "n", 20, "Number of runs to list, 0 for all")
}

// withStore opens the configured history database for the duration of fn.
func withStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	s, err := store.Open(cmd.Context(), cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening run history: %w", err)
	}
	defer s.Close()
	return fn(s)
}
