package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gocol/internal/catalog"
	"github.com/spf13/cobra"
)

var (
	filterFile    string
	filterRaw     bool
	filterColumns []string
	filterCSV     string
	filterXLSX    string
	filterSel     selection
)

var catalogFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter and sort a section catalog",
	Long: `Filter a catalog by thresholds on any numeric column, then sort it.

Thresholds are inclusive. A row without a value for a filtered column
is dropped; rows without a value for the sort column go last.

Examples:
  gocol catalog filter -f ipe.csv --min A=2000 --max Iz=5e6
  gocol catalog filter -f ipe.csv --sort kg/m --top 3 --columns kg/m,A,Iy,Iz`,
	RunE: runCatalogFilter,
}

func init() {
	catalogCmd.AddCommand(catalogFilterCmd)

	catalogFilterCmd.Flags().StringVarP(&filterFile, "file", "f", "", "Catalog file (.csv or .xlsx) [required]")
	catalogFilterCmd.MarkFlagRequired("file")
	catalogFilterCmd.Flags().BoolVar(&filterRaw, "raw", false, "Keep values in file units, without conversion to mm")
	catalogFilterCmd.Flags().StringSliceVarP(&filterColumns, "columns", "c", nil, "Columns to display (default all)")
	catalogFilterCmd.Flags().StringVar(&filterCSV, "csv", "", "Write the result to a CSV file")
	catalogFilterCmd.Flags().StringVar(&filterXLSX, "xlsx", "", "Write the result to an Excel file")
	filterSel.register(catalogFilterCmd)
}

func runCatalogFilter(cmd *cobra.Command, args []string) error {
	units := catalog.DefaultUnits
	if filterRaw {
		units = nil
	}
	profiles, err := catalog.Open(filterFile, units)
	if err != nil {
		return err
	}

	out, err := filterSel.apply(profiles)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  %s: %d of %d sections\n", filterFile, out.Len(), profiles.Len())
	fmt.Println("───────────────────────────────────────────────────────────────")
	printTable(out, filterColumns)
	fmt.Println()

	return exportTable(out, filterCSV, filterXLSX)
}
