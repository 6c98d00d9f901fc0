// Package catalog holds section catalogs as ordered tables of numeric
// section properties keyed by section name.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// Catalog column names
const (
	NameColumn = "Section name"

	ColWeight = "kg/m" // mass per metre
	ColArea   = "A"    // cross-sectional area
	ColIy     = "Iy"   // second moment of area, major axis
	ColIz     = "Iz"   // second moment of area, minor axis
)

var (
	ErrUnknownColumn    = errors.New("unknown column")
	ErrDuplicateSection = errors.New("duplicate section name")
	ErrEmptyTable       = errors.New("no rows")
)

// Row is one section of a catalog. Values omits cells that were blank.
type Row struct {
	Name   string
	Values map[string]float64
}

// Value returns the value of a column and whether the row has one.
func (r Row) Value(column string) (float64, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// Clone returns a row with its own value map.
func (r Row) Clone() Row {
	values := make(map[string]float64, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return Row{Name: r.Name, Values: values}
}

// Table is an ordered collection of sections. Columns lists the numeric
// columns in header order; the name column is implicit.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table defines a numeric column.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// AddColumn appends a column name unless it already exists.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// withRows returns a table with the same columns and the given rows.
func (t *Table) withRows(rows []Row) *Table {
	return &Table{Columns: slices.Clone(t.Columns), Rows: rows}
}

// Lookup finds a section by name.
func (t *Table) Lookup(name string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Name == name {
			return r, true
		}
	}
	return Row{}, false
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	n = max(0, min(n, len(t.Rows)))
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = t.Rows[i].Clone()
	}
	return t.withRows(rows)
}

// CheckUnique verifies that every section name occurs once.
func (t *Table) CheckUnique() error {
	seen := make(map[string]int, len(t.Rows))
	for i, r := range t.Rows {
		if first, ok := seen[r.Name]; ok {
			return fmt.Errorf("%w: %q at rows %d and %d", ErrDuplicateSection, r.Name, first+1, i+1)
		}
		seen[r.Name] = i
	}
	return nil
}

// Require checks that all named columns exist.
func (t *Table) Require(columns ...string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
	}
	return nil
}
