package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is a catalog file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrParse             = errors.New("catalog parse error")
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// ParseError reports a cell that could not be read as a number.
type ParseError struct {
	Line    int // 1-based line in the source, header is line 1
	Section string
	Column  string
	Value   string
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Value)
	}
	return fmt.Sprintf("line %d (%s): column %q: cannot parse %q as a number", e.Line, e.Section, e.Column, e.Value)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads a catalog file and converts it with DefaultUnits.
func Load(path string) (*Table, error) {
	return Open(path, DefaultUnits)
}

// Open reads a catalog file and applies the given units. A nil Units leaves
// values as read.
func Open(path string, u Units) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Scale(u)
	return t, nil
}

// Read parses a catalog in the given format without unit conversion.
func Read(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ReadCSV parses a comma separated catalog.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return fromRecords(records)
}

// ReadXLSX parses the first worksheet of an Excel workbook.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrParse, sheet, err)
	}
	return fromRecords(rows)
}

// fromRecords builds a table from a header record followed by data records.
func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, &ParseError{Line: 1, Value: "missing header"}
	}

	header := records[0]
	nameIdx := -1
	t := &Table{}
	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		columns[i] = h
		if h == NameColumn {
			nameIdx = i
			continue
		}
		if h == "" {
			continue
		}
		if t.HasColumn(h) {
			return nil, &ParseError{Line: 1, Value: fmt.Sprintf("duplicate column %q", h)}
		}
		t.Columns = append(t.Columns, h)
	}
	if nameIdx < 0 {
		return nil, &ParseError{Line: 1, Value: fmt.Sprintf("missing %q column", NameColumn)}
	}

	for n, rec := range records[1:] {
		line := n + 2
		if isBlank(rec) {
			continue
		}

		row := Row{Values: make(map[string]float64, len(t.Columns))}
		if nameIdx < len(rec) {
			row.Name = strings.TrimSpace(rec[nameIdx])
		}
		if row.Name == "" {
			return nil, &ParseError{Line: line, Value: "empty section name"}
		}

		for i, cell := range rec {
			if i == nameIdx || i >= len(columns) || columns[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ParseError{Line: line, Section: row.Name, Column: columns[i], Value: cell}
			}
			row.Values[columns[i]] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
