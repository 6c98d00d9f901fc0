package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gocol/internal/column"
	"github.com/alexiusacademia/gocol/internal/diagram"
	"github.com/alexiusacademia/gocol/internal/ec3"
	"github.com/alexiusacademia/gocol/internal/report"
	"github.com/spf13/cobra"
)

var (
	// Geometry inputs
	checkTag    string
	checkHeight float64
	checkArea   float64
	checkIx     float64
	checkIy     float64
	checkKx     float64
	checkKy     float64
	checkE      float64

	// Material inputs
	checkFy     float64
	checkGammaM float64

	// Loads (N)
	checkDead  float64
	checkLive  float64
	checkSnow  float64
	checkWind  float64
	checkQuake float64

	// Alternative sources
	checkRow  string
	checkFile string

	// Output options
	checkShowDiagram bool
	checkPlotFile    string
	checkPDFFile     string
)

var columnCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a steel column for flexural buckling",
	Long: `Compute the buckling resistance Nb,Rd of an axially loaded steel
column about both axes and compare it with the factored load.

For each axis the check reports the radius of gyration, the Euler
critical load Ncr, the relative slenderness λ̄, Φ, the reduction
factor χ and the demand/capacity ratio. The larger ratio governs.

Examples:
  # HEA180, 3 m, fixed ends
  gocol column check --height 3000 --area 4525 --ix 25.1e6 --iy 9.25e6 \
      --kx 0.5 --ky 0.5 --dead 400000

  # 11-field record: tag,area,height,Ix,Iy,fy,E,Kx,Ky,dead,live
  gocol column check --row "C02,22620,6000,2.7e9,2.2e9,235,210000,1,1,150000,475000"

  # From a JSON file, with charts
  gocol column check --file hea180.json --diagram --plot hea180.png`,
	RunE: runColumnCheck,
}

func init() {
	columnCmd.AddCommand(columnCheckCmd)

	columnCheckCmd.Flags().StringVarP(&checkTag, "tag", "t", "", "Column tag")
	columnCheckCmd.Flags().Float64Var(&checkHeight, "height", 0, "Column length L (mm), defaults to design.height")
	columnCheckCmd.Flags().Float64VarP(&checkArea, "area", "A", 0, "Cross-sectional area (mm²)")
	columnCheckCmd.Flags().Float64Var(&checkIx, "ix", 0, "Second moment of area, strong axis (mm⁴)")
	columnCheckCmd.Flags().Float64Var(&checkIy, "iy", 0, "Second moment of area, weak axis (mm⁴)")
	columnCheckCmd.Flags().Float64Var(&checkKx, "kx", ec3.KPinned, "Effective-length factor, strong axis")
	columnCheckCmd.Flags().Float64Var(&checkKy, "ky", ec3.KPinned, "Effective-length factor, weak axis")
	columnCheckCmd.Flags().Float64VarP(&checkE, "modulus", "E", ec3.Es, "Modulus of elasticity (MPa)")

	columnCheckCmd.Flags().Float64Var(&checkFy, "fy", ec3.FyS235, "Yield stress fy (MPa), defaults to design.yield_stress")
	columnCheckCmd.Flags().Float64Var(&checkGammaM, "gamma-m", ec3.GammaM0, "Partial factor γM, defaults to design.gamma_m")

	columnCheckCmd.Flags().Float64VarP(&checkDead, "dead", "d", 0, "Dead load (N)")
	columnCheckCmd.Flags().Float64VarP(&checkLive, "live", "l", 0, "Live load (N)")
	columnCheckCmd.Flags().Float64Var(&checkSnow, "snow", 0, "Snow load (N)")
	columnCheckCmd.Flags().Float64Var(&checkWind, "wind", 0, "Wind load (N)")
	columnCheckCmd.Flags().Float64Var(&checkQuake, "quake", 0, "Earthquake load (N)")

	columnCheckCmd.Flags().StringVarP(&checkRow, "row", "r", "", "Column as an 11-field comma separated record")
	columnCheckCmd.Flags().StringVarP(&checkFile, "file", "f", "", "Column JSON file")
	columnCheckCmd.MarkFlagsMutuallyExclusive("row", "file")

	columnCheckCmd.Flags().BoolVar(&checkShowDiagram, "diagram", false, "Show ASCII buckling curves")
	columnCheckCmd.Flags().StringVarP(&checkPlotFile, "plot", "o", "", "Export buckling curve chart (png, svg, pdf)")
	columnCheckCmd.Flags().StringVar(&checkPDFFile, "pdf", "", "Write a PDF report")
}

// columnFromFlags builds the column from --row, --file or the geometry flags.
func columnFromFlags(cmd *cobra.Command) (*column.SteelColumn, error) {
	switch {
	case checkRow != "":
		return column.ParseRecord(checkRow)
	case checkFile != "":
		return column.LoadFromFile(checkFile)
	}

	if checkArea == 0 || checkIx == 0 || checkIy == 0 {
		return nil, errors.New("--area, --ix and --iy are required unless --row or --file is given")
	}

	height := checkHeight
	if !cmd.Flags().Changed("height") {
		height = cfg.Design.Height
	}
	g := column.Geometry{
		Height: height,
		Area:   checkArea,
		MoIx:   checkIx,
		MoIy:   checkIy,
		Kx:     checkKx,
		Ky:     checkKy,
		E:      checkE,
	}
	load := ec3.Load{Dead: checkDead, Live: checkLive, Snow: checkSnow, Wind: checkWind, Quake: checkQuake}

	c := column.NewSteelColumn(checkTag, g, load)
	c.YieldStress = cfg.Design.YieldStress
	c.GammaM = cfg.Design.GammaM
	if cmd.Flags().Changed("fy") {
		c.YieldStress = checkFy
	}
	if cmd.Flags().Changed("gamma-m") {
		c.GammaM = checkGammaM
	}
	return c, nil
}

func runColumnCheck(cmd *cobra.Command, args []string) error {
	c, err := columnFromFlags(cmd)
	if err != nil {
		return err
	}

	result, err := c.Check()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("       STEEL COLUMN FLEXURAL BUCKLING CHECK - EC3 6.3.1")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	if c.Tag != "" {
		fmt.Printf("  Column: %s\n", c.Tag)
		fmt.Println()
	}

	fmt.Println("INPUT DATA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Length (L):\t%.0f mm\n", c.Height)
	fmt.Fprintf(w, "  Area (A):\t%.1f mm²\n", c.Area)
	fmt.Fprintf(w, "  Ix / Iy:\t%.4g / %.4g mm⁴\n", c.MoIx, c.MoIy)
	fmt.Fprintf(w, "  Kx / Ky:\t%.2f / %.2f\n", c.Kx, c.Ky)
	fmt.Fprintf(w, "  E:\t%.0f MPa\n", c.E)
	fmt.Fprintf(w, "  fy:\t%.1f MPa\n", c.YieldStress)
	fmt.Fprintf(w, "  γM:\t%.2f\n", c.GammaM)
	w.Flush()
	fmt.Println()

	fmt.Println("DESIGN LOAD:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Dead Load (D):\t%.2f N\n", c.AxialLoad.Dead)
	for _, v := range ec3.VariableLoads() {
		if val := c.AxialLoad.Value(v.Component); val != 0 {
			fmt.Fprintf(w, "  %s:\t%.2f N\n", componentLabel(v.Component), val)
		}
	}
	fmt.Fprintf(w, "  Factored Load (NEd):\t%.2f N (leading: %s)\n", result.FactoredLoad, result.Leading)
	w.Flush()
	fmt.Println()

	fmt.Println("FLEXURAL BUCKLING:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	x, y := result.X, result.Y
	fmt.Fprintf(w, "  \tAxis x\tAxis y\n")
	fmt.Fprintf(w, "  \t──────\t──────\n")
	fmt.Fprintf(w, "  Buckling curve:\t%s (α = %.2f)\t%s (α = %.2f)\n", x.Curve, x.Alpha, y.Curve, y.Alpha)
	fmt.Fprintf(w, "  Radius of gyration (i):\t%.2f mm\t%.2f mm\n", x.I, y.I)
	fmt.Fprintf(w, "  Euler load (Ncr):\t%.2f N\t%.2f N\n", x.Ncr, y.Ncr)
	fmt.Fprintf(w, "  λ1:\t%.4f\t%.4f\n", x.Lambda1, y.Lambda1)
	fmt.Fprintf(w, "  Relative slenderness (λ̄):\t%.4f\t%.4f\n", x.LambdaRel, y.LambdaRel)
	fmt.Fprintf(w, "  Φ:\t%.4f\t%.4f\n", x.Phi, y.Phi)
	fmt.Fprintf(w, "  Reduction factor (χ):\t%.4f\t%.4f\n", x.Chi, y.Chi)
	fmt.Fprintf(w, "  Resistance (Nb,Rd):\t%.2f N\t%.2f N\n", x.Nb, y.Nb)
	fmt.Fprintf(w, "  DCR:\t%.4f\t%.4f\n", x.DCR, y.DCR)
	w.Flush()
	fmt.Println()

	fmt.Println("RESULT:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	status := "ADEQUATE ✓"
	if !result.IsAdequate {
		status = "NOT ADEQUATE ✗"
	}
	fmt.Print(diagram.DrawSummaryBox(status, []string{
		fmt.Sprintf("Governing axis: %s", result.Governing),
		fmt.Sprintf("DCR = %.4f", result.DCR),
	}))
	fmt.Println()
	fmt.Printf("  %s\n", result.Message)
	fmt.Println()

	if checkShowDiagram {
		fmt.Print(diagram.DrawReductionCurves(3, x.Curve, y.Curve))
		fmt.Print(diagram.DrawDCRBars([]diagram.Bar{
			{Label: "axis x", DCR: x.DCR},
			{Label: "axis y", DCR: y.DCR},
		}, 40))
		fmt.Println()
	}

	if checkPlotFile != "" {
		markers := []diagram.Marker{
			{Label: "x", LambdaRel: x.LambdaRel, Chi: x.Chi},
			{Label: "y", LambdaRel: y.LambdaRel, Chi: y.Chi},
		}
		if err := diagram.ExportBucklingCurves(markers, checkPlotFile); err != nil {
			return fmt.Errorf("exporting chart: %w", err)
		}
		fmt.Printf("Chart exported to: %s\n", checkPlotFile)
	}

	if checkPDFFile != "" {
		if err := writeFile(checkPDFFile, func(f *os.File) error {
			return report.ColumnCheck(f, report.Meta{}, c, result)
		}); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Report written to: %s\n", checkPDFFile)
	}
	return nil
}

// writeFile creates path and hands it to fn, closing it afterwards.
func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
