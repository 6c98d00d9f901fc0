package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gocol/internal/ec3"
	"github.com/spf13/cobra"
)

var (
	// Unfactored axial loads (N)
	loadDead  float64
	loadLive  float64
	loadSnow  float64
	loadWind  float64
	loadQuake float64

	loadShowAll bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Calculate the factored axial load",
	Long: `Calculate the factored axial load (NEd) of a column.

The dead load is factored by 1.2 and the single largest variable
action by 1.5; variable actions are not combined:

  NEd = 1.2·D + max(1.5·L, 1.5·S, 1.5·W, 1.5·E)

Load Types:
  D - Dead load
  L - Live load
  S - Snow load
  W - Wind load
  E - Earthquake load

Examples:
  # Dead and live load
  gocol load --dead 40000 --live 50000

  # Show the candidate for every variable action
  gocol load --dead 40000 --live 50000 --wind 60000 --all`,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().Float64VarP(&loadDead, "dead", "d", 0, "Dead load (N)")
	loadCmd.Flags().Float64VarP(&loadLive, "live", "l", 0, "Live load (N)")
	loadCmd.Flags().Float64VarP(&loadSnow, "snow", "s", 0, "Snow load (N)")
	loadCmd.Flags().Float64VarP(&loadWind, "wind", "w", 0, "Wind load (N)")
	loadCmd.Flags().Float64VarP(&loadQuake, "quake", "e", 0, "Earthquake load (N)")

	loadCmd.Flags().BoolVarP(&loadShowAll, "all", "a", false, "Show the combination for every variable action")
}

func runLoad(cmd *cobra.Command, args []string) error {
	load := ec3.Load{Dead: loadDead, Live: loadLive, Snow: loadSnow, Wind: loadWind, Quake: loadQuake}
	if load == (ec3.Load{}) {
		return errors.New("provide at least one unfactored load, see 'gocol load --help'")
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("              FACTORED AXIAL LOAD CALCULATION")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("UNFACTORED LOADS (N):")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Dead Load (D):\t%.2f\n", load.Dead)
	for _, v := range ec3.VariableLoads() {
		if val := load.Value(v.Component); val != 0 {
			fmt.Fprintf(w, "  %s:\t%.2f\n", componentLabel(v.Component), val)
		}
	}
	w.Flush()
	fmt.Println()

	factored, leading := load.Governing()

	if loadShowAll {
		fmt.Println("LOAD COMBINATIONS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  #\tCombination\tNEd (N)\n")
		fmt.Fprintf(w, "  ─\t───────────\t───────\n")
		for i, v := range ec3.VariableLoads() {
			nEd := ec3.GammaG*load.Dead + v.Factor*load.Value(v.Component)
			marker := ""
			if v.Component == leading {
				marker = " ← GOVERNS"
			}
			fmt.Fprintf(w, "  %d\t%.1fD + %.1f%s\t%.2f%s\n", i+1, ec3.GammaG, v.Factor, componentSymbol(v.Component), nEd, marker)
		}
		w.Flush()
		fmt.Println()
	}

	fmt.Println("RESULT:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	fmt.Printf("  Leading Action: %s\n", componentLabel(leading))
	fmt.Println()
	fmt.Printf("  ╔═══════════════════════════════════════╗\n")
	fmt.Printf("  ║  FACTORED AXIAL LOAD (NEd) = %.2f N  \n", factored)
	fmt.Printf("  ╚═══════════════════════════════════════╝\n")
	fmt.Println()
	return nil
}

func componentLabel(c ec3.LoadComponent) string {
	switch c {
	case ec3.Dead:
		return "Dead Load (D)"
	case ec3.Live:
		return "Live Load (L)"
	case ec3.Snow:
		return "Snow Load (S)"
	case ec3.Wind:
		return "Wind Load (W)"
	case ec3.Quake:
		return "Earthquake Load (E)"
	}
	return c.String()
}

func componentSymbol(c ec3.LoadComponent) string {
	return map[ec3.LoadComponent]string{
		ec3.Dead: "D", ec3.Live: "L", ec3.Snow: "S", ec3.Wind: "W", ec3.Quake: "E",
	}[c]
}
