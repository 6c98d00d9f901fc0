package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/gocol/internal/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Batch checks and queries over section catalogs",
	Long: `Work with section catalogs stored as CSV or Excel files.

A catalog has a header row whose first column is "Section name";
every other column holds a numeric section property. Rows are keyed
by section name, which must be unique.

Catalog values are read in European table units (cm, cm², cm⁴) and
converted to mm based units on load.

Subcommands:
  evaluate  - Check every section as a column and add the results
  filter    - Filter and sort a catalog by any column

Example CSV:
  Section name,kg/m,A,Iy,Iz
  IPE 100,8.1,10.3,171,15.9
  IPE 200,22.4,28.5,1943,142`,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

// selection holds the filter and sort flags shared by the catalog commands.
type selection struct {
	max  []string
	min  []string
	sort string
	desc bool
	top  int
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&s.max, "max", nil, "Keep rows with column ≤ value, e.g. --max DCR=1 (repeatable)")
	cmd.Flags().StringArrayVar(&s.min, "min", nil, "Keep rows with column ≥ value, e.g. --min A=2000 (repeatable)")
	cmd.Flags().StringVar(&s.sort, "sort", "", "Sort by column")
	cmd.Flags().BoolVar(&s.desc, "desc", false, "Sort in descending order")
	cmd.Flags().IntVarP(&s.top, "top", "n", 0, "Show only the first N rows")
}

// apply runs the filters, then the sort, then the row limit.
func (s *selection) apply(t *catalog.Table) (*catalog.Table, error) {
	maxes, err := catalog.ParsePredicates(s.max)
	if err != nil {
		return nil, err
	}
	mins, err := catalog.ParsePredicates(s.min)
	if err != nil {
		return nil, err
	}
	if len(maxes) > 0 {
		if t, err = t.AtMost(maxes...); err != nil {
			return nil, err
		}
	}
	if len(mins) > 0 {
		if t, err = t.AtLeast(mins...); err != nil {
			return nil, err
		}
	}
	if s.sort != "" {
		if t, err = t.SortBy(s.sort, !s.desc); err != nil {
			return nil, err
		}
	}
	if s.top > 0 {
		t = t.Head(s.top)
	}
	return t, nil
}

// printTable writes the given columns of t, or all of them when columns
// is empty. Missing values print as "-".
func printTable(t *catalog.Table, columns []string) {
	if len(columns) == 0 {
		columns = t.Columns
	}
	var shown []string
	for _, c := range columns {
		if t.HasColumn(c) {
			shown = append(shown, c)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "  %s\t%s\t\n", catalog.NameColumn, strings.Join(shown, "\t"))
	for _, r := range t.Rows {
		cells := make([]string, len(shown))
		for i, c := range shown {
			cells[i] = "-"
			if v, ok := r.Value(c); ok {
				cells[i] = strconv.FormatFloat(v, 'g', 6, 64)
			}
		}
		fmt.Fprintf(w, "  %s\t%s\t\n", r.Name, strings.Join(cells, "\t"))
	}
	w.Flush()
}

// exportTable writes t to CSV and/or XLSX files when the paths are set.
func exportTable(t *catalog.Table, csvPath, xlsxPath string) error {
	if csvPath != "" {
		if err := writeFile(csvPath, func(f *os.File) error { return t.WriteCSV(f) }); err != nil {
			return fmt.Errorf("writing %s: %w", csvPath, err)
		}
		fmt.Printf("Catalog written to: %s\n", csvPath)
	}
	if xlsxPath != "" {
		if err := t.WriteXLSX(xlsxPath, ""); err != nil {
			return fmt.Errorf("writing %s: %w", xlsxPath, err)
		}
		fmt.Printf("Catalog written to: %s\n", xlsxPath)
	}
	return nil
}
