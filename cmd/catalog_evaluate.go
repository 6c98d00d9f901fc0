package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/alexiusacademia/gocol/internal/batch"
	"github.com/alexiusacademia/gocol/internal/catalog"
	"github.com/alexiusacademia/gocol/internal/diagram"
	"github.com/alexiusacademia/gocol/internal/report"
	"github.com/alexiusacademia/gocol/internal/store"
	"github.com/spf13/cobra"
)

var (
	evalFile    string
	evalHeight  float64
	evalFy      float64
	evalDead    float64
	evalLive    float64
	evalPolicy  string
	evalWorkers int
	evalSel     selection

	// Output options
	evalAll         bool
	evalSave        bool
	evalShowDiagram bool
	evalPlotFile    string
	evalPDFFile     string
	evalCSV         string
	evalXLSX        string
)

// evalColumns are shown unless --all is given.
var evalColumns = []string{
	catalog.ColWeight, catalog.ColArea, catalog.ColIy, catalog.ColIz,
	batch.ColFactoredLoad, batch.ColAxialResistance, batch.ColDCR,
}

var catalogEvaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Check every section of a catalog as an axially loaded column",
	Long: `Check every section of a catalog as a pin-ended column of the given
length under the given dead and live loads. Buckling is checked about
the strong axis with curve b.

Six columns are appended to the catalog: Height, Dead, Live,
Factored load, Axial Resistance and DCR. The evaluated catalog can then
be filtered and sorted like any other column.

With --policy abort (the default) the first section that cannot be
evaluated stops the run. With --policy skip it is kept without results
and reported at the end.

Examples:
  # 6 m column, 40 kN dead + 50 kN live, adequate sections by weight
  gocol catalog evaluate -f ipe.csv --height 6000 --dead 40000 --live 50000 \
      --max DCR=1 --sort kg/m

  # Save to the run history and export the results
  gocol catalog evaluate -f ipe.xlsx --height 3000 --dead 1e5 --live 5e4 \
      --save --xlsx results.xlsx --pdf results.pdf --plot dcr.png`,
	RunE: runCatalogEvaluate,
}

func init() {
	catalogCmd.AddCommand(catalogEvaluateCmd)

	catalogEvaluateCmd.Flags().StringVarP(&evalFile, "file", "f", "", "Catalog file (.csv or .xlsx) [required]")
	catalogEvaluateCmd.Flags().Float64Var(&evalHeight, "height", 0, "Column length (mm), defaults to design.height")
	catalogEvaluateCmd.Flags().Float64Var(&evalFy, "fy", 0, "Yield stress fy (MPa), defaults to design.yield_stress")
	catalogEvaluateCmd.Flags().Float64VarP(&evalDead, "dead", "d", 0, "Dead load (N)")
	catalogEvaluateCmd.Flags().Float64VarP(&evalLive, "live", "l", 0, "Live load (N)")
	catalogEvaluateCmd.Flags().StringVar(&evalPolicy, "policy", "", "Failure policy: abort or skip, defaults to batch.failure_policy")
	catalogEvaluateCmd.Flags().IntVarP(&evalWorkers, "workers", "j", 0, "Concurrent workers, defaults to batch.workers")
	catalogEvaluateCmd.MarkFlagRequired("file")
	evalSel.register(catalogEvaluateCmd)

	catalogEvaluateCmd.Flags().BoolVarP(&evalAll, "all", "a", false, "Show every catalog column")
	catalogEvaluateCmd.Flags().BoolVar(&evalSave, "save", false, "Save the run to the history database")
	catalogEvaluateCmd.Flags().BoolVar(&evalShowDiagram, "diagram", false, "Show ASCII DCR bars")
	catalogEvaluateCmd.Flags().StringVarP(&evalPlotFile, "plot", "o", "", "Export DCR chart (png, svg, pdf)")
	catalogEvaluateCmd.Flags().StringVar(&evalPDFFile, "pdf", "", "Write a PDF report")
	catalogEvaluateCmd.Flags().StringVar(&evalCSV, "csv", "", "Write the evaluated catalog to a CSV file")
	catalogEvaluateCmd.Flags().StringVar(&evalXLSX, "xlsx", "", "Write the evaluated catalog to an Excel file")
}

// evalParams merges the flags over the configured defaults.
func evalParams(cmd *cobra.Command) (batch.Params, batch.Policy, error) {
	p := batch.Params{
		Height:      cfg.Design.Height,
		YieldStress: cfg.Design.YieldStress,
		Dead:        evalDead,
		Live:        evalLive,
	}
	if cmd.Flags().Changed("height") {
		p.Height = evalHeight
	}
	if cmd.Flags().Changed("fy") {
		p.YieldStress = evalFy
	}
	if p.Height <= 0 {
		return p, 0, errors.New("--height is required (or set design.height in the config file)")
	}

	policy := cfg.Policy()
	if evalPolicy != "" {
		var err error
		if policy, err = batch.ParsePolicy(evalPolicy); err != nil {
			return p, 0, err
		}
	}
	return p, policy, nil
}

func runCatalogEvaluate(cmd *cobra.Command, args []string) error {
	p, policy, err := evalParams(cmd)
	if err != nil {
		return err
	}

	profiles, err := catalog.Load(evalFile)
	if err != nil {
		return err
	}

	workers := cfg.Batch.Workers
	if cmd.Flags().Changed("workers") {
		workers = evalWorkers
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ev := &batch.Evaluator{Policy: policy, Workers: workers}
	res, err := ev.Evaluate(ctx, profiles, p)
	if err != nil {
		return err
	}

	var runID int64
	if evalSave {
		if runID, err = saveRun(ctx, filepath.Base(evalFile), res); err != nil {
			return err
		}
	}

	out, err := evalSel.apply(res.Table)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("        CATALOG COLUMN CHECK - EC3 6.3.1, CURVE b (x)")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("INPUT DATA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Catalog:\t%s (%d sections)\n", evalFile, profiles.Len())
	fmt.Fprintf(w, "  Column length:\t%.0f mm\n", p.Height)
	fmt.Fprintf(w, "  fy:\t%.1f MPa\n", p.YieldStress)
	fmt.Fprintf(w, "  Dead / Live:\t%.2f / %.2f N\n", p.Dead, p.Live)
	fmt.Fprintf(w, "  Factored load:\t%.2f N\n", p.Load().Factored())
	fmt.Fprintf(w, "  Failure policy:\t%s\n", policy)
	w.Flush()
	fmt.Println()

	fmt.Printf("SECTIONS (%d shown):\n", out.Len())
	fmt.Println("───────────────────────────────────────────────────────────────")
	if evalAll {
		printTable(out, nil)
	} else {
		printTable(out, evalColumns)
	}
	fmt.Println()

	if len(res.Failures) > 0 {
		fmt.Printf("FAILED SECTIONS (%d):\n", len(res.Failures))
		fmt.Println("───────────────────────────────────────────────────────────────")
		for _, f := range res.Failures {
			fmt.Printf("  ✗ %s (row %d): %v\n", f.Section, f.Index+1, f.Err)
		}
		fmt.Println()
	}

	fmt.Println("RESULT:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	sel, err := batch.Best(res.Table)
	switch {
	case errors.Is(err, catalog.ErrEmptyTable):
		fmt.Print(diagram.DrawSummaryBox("NO ADEQUATE SECTION ✗", []string{
			"Every section has DCR > 1.0",
			"Consider a shorter length or a heavier series",
		}))
	case err != nil:
		return err
	default:
		lines := []string{fmt.Sprintf("Adequate sections: %d of %d", sel.Adequate.Len(), res.Table.Len())}
		if sel.Lightest != nil {
			dcr, _ := sel.Lightest.Value(batch.ColDCR)
			lines = append(lines, fmt.Sprintf("Lightest: %s (DCR = %.4f)", sel.Lightest.Name, dcr))
		}
		dcr, _ := sel.MostUtilized.Value(batch.ColDCR)
		lines = append(lines, fmt.Sprintf("Most utilized: %s (DCR = %.4f)", sel.MostUtilized.Name, dcr))
		fmt.Print(diagram.DrawSummaryBox("ADEQUATE ✓", lines))
	}
	fmt.Println()
	if runID != 0 {
		fmt.Printf("  Saved as run #%d\n", runID)
		fmt.Println()
	}

	bars := dcrBars(out)
	if evalShowDiagram && len(bars) > 0 {
		fmt.Print(diagram.DrawDCRBars(bars, 40))
		fmt.Println()
	}

	if evalPlotFile != "" {
		if err := diagram.ExportDCRChart(bars, evalPlotFile); err != nil {
			return fmt.Errorf("exporting chart: %w", err)
		}
		fmt.Printf("Chart exported to: %s\n", evalPlotFile)
	}

	if evalPDFFile != "" {
		meta := report.Meta{Title: "Catalog Column Check: " + filepath.Base(evalFile)}
		if err := writeFile(evalPDFFile, func(f *os.File) error {
			return report.Catalog(f, meta, res)
		}); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Report written to: %s\n", evalPDFFile)
	}

	return exportTable(out, evalCSV, evalXLSX)
}

// dcrBars collects the sections of t that have a DCR.
func dcrBars(t *catalog.Table) []diagram.Bar {
	var bars []diagram.Bar
	for _, r := range t.Rows {
		if dcr, ok := r.Value(batch.ColDCR); ok {
			bars = append(bars, diagram.Bar{Label: r.Name, DCR: dcr})
		}
	}
	return bars
}

func saveRun(ctx context.Context, source string, res *batch.Result) (int64, error) {
	s, err := store.Open(ctx, cfg.Database.Path)
	if err != nil {
		return 0, fmt.Errorf("opening run history: %w", err)
	}
	defer s.Close()
	return s.SaveRun(ctx, source, res)
}
