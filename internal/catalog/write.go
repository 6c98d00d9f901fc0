package catalog

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

func (t *Table) header() []string {
	return append([]string{NameColumn}, t.Columns...)
}

func formatValue(r Row, column string) string {
	v, ok := r.Value(column)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes the table with a header row. Missing values are blank.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header()); err != nil {
		return err
	}
	record := make([]string, len(t.Columns)+1)
	for _, r := range t.Rows {
		record[0] = r.Name
		for i, c := range t.Columns {
			record[i+1] = formatValue(r, c)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX saves the table as a single-sheet workbook.
func (t *Table) WriteXLSX(path, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sections"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := make([]any, 0, len(t.Columns)+1)
	for _, h := range t.header() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range t.Rows {
		cells := make([]any, 0, len(t.Columns)+1)
		cells = append(cells, r.Name)
		for _, c := range t.Columns {
			if v, ok := r.Value(c); ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
