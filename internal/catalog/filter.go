package catalog

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Predicate is a threshold on one numeric column.
type Predicate struct {
	Column    string
	Threshold float64
}

// ParsePredicate reads "column=threshold", e.g. "DCR=1".
func ParsePredicate(s string) (Predicate, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return Predicate{}, fmt.Errorf("%w: predicate %q, want column=value", ErrParse, s)
	}
	col := strings.TrimSpace(s[:i])
	v, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
	if err != nil {
		return Predicate{}, fmt.Errorf("%w: predicate %q: %v", ErrParse, s, err)
	}
	if math.IsNaN(v) {
		return Predicate{}, fmt.Errorf("%w: predicate %q: threshold is NaN", ErrParse, s)
	}
	return Predicate{Column: col, Threshold: v}, nil
}

// ParsePredicates parses a list of "column=threshold" strings.
func ParsePredicates(ss []string) ([]Predicate, error) {
	out := make([]Predicate, 0, len(ss))
	for _, s := range ss {
		p, err := ParsePredicate(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// AtMost keeps rows where every predicate column is <= its threshold.
func (t *Table) AtMost(preds ...Predicate) (*Table, error) {
	return t.filter(preds, func(v, threshold float64) bool { return v <= threshold })
}

// AtLeast keeps rows where every predicate column is >= its threshold.
func (t *Table) AtLeast(preds ...Predicate) (*Table, error) {
	return t.filter(preds, func(v, threshold float64) bool { return v >= threshold })
}

// filter keeps the rows satisfying all predicates, in table order. A row
// without a value for a predicate column does not satisfy it.
func (t *Table) filter(preds []Predicate, keep func(v, threshold float64) bool) (*Table, error) {
	for _, p := range preds {
		if err := t.Require(p.Column); err != nil {
			return nil, err
		}
	}

	var rows []Row
rowLoop:
	for _, r := range t.Rows {
		for _, p := range preds {
			v, ok := r.Value(p.Column)
			if !ok || !keep(v, p.Threshold) {
				continue rowLoop
			}
		}
		rows = append(rows, r.Clone())
	}
	return t.withRows(rows), nil
}

// SortBy returns the rows ordered by a column. The sort is stable, so ties
// keep table order. Rows without a value sort last in either direction.
func (t *Table) SortBy(column string, ascending bool) (*Table, error) {
	if err := t.Require(column); err != nil {
		return nil, err
	}

	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Clone()
	}
	sort.SliceStable(rows, func(i, j int) bool {
		vi, oki := rows[i].Value(column)
		vj, okj := rows[j].Value(column)
		switch {
		case !oki:
			return false
		case !okj:
			return true
		case ascending:
			return vi < vj
		default:
			return vi > vj
		}
	})
	return t.withRows(rows), nil
}

// Min returns the first row holding the smallest value of a column.
func (t *Table) Min(column string) (Row, error) {
	return t.extreme(column, func(v, best float64) bool { return v < best })
}

// Max returns the first row holding the largest value of a column.
func (t *Table) Max(column string) (Row, error) {
	return t.extreme(column, func(v, best float64) bool { return v > best })
}

func (t *Table) extreme(column string, better func(v, best float64) bool) (Row, error) {
	if err := t.Require(column); err != nil {
		return Row{}, err
	}

	found := false
	var best Row
	var bestVal float64
	for _, r := range t.Rows {
		v, ok := r.Value(column)
		if !ok {
			continue
		}
		if !found || better(v, bestVal) {
			best, bestVal, found = r, v, true
		}
	}
	if !found {
		return Row{}, fmt.Errorf("%w: no values in column %q", ErrEmptyTable, column)
	}
	return best.Clone(), nil
}
