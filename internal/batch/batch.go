// Package batch checks every section of a catalog as an axially loaded
// steel column and writes the results back into the table.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/gocol/internal/catalog"
	"github.com/alexiusacademia/gocol/internal/column"
	"github.com/alexiusacademia/gocol/internal/ec3"
)

// Columns added to an evaluated catalog
const (
	ColHeight          = "Height"
	ColDead            = "Dead"
	ColLive            = "Live"
	ColFactoredLoad    = "Factored load"
	ColAxialResistance = "Axial Resistance"
	ColDCR             = "DCR"
)

// OutputColumns lists the added columns in the order they are appended.
var OutputColumns = []string{ColHeight, ColDead, ColLive, ColFactoredLoad, ColAxialResistance, ColDCR}

// CheckedAxis is the axis every catalog section is checked about.
const CheckedAxis = column.AxisX

// Params are the design inputs shared by every section.
type Params struct {
	Height      float64 `json:"height"`       // mm
	YieldStress float64 `json:"yield_stress"` // MPa
	Dead        float64 `json:"dead"`         // N
	Live        float64 `json:"live"`         // N
}

// Load returns the axial load the parameters describe.
func (p Params) Load() ec3.Load {
	return ec3.Load{Dead: p.Dead, Live: p.Live}
}

// Policy decides what happens when a section cannot be evaluated.
type Policy int

const (
	// Abort stops the batch at the first failing section in catalog order.
	Abort Policy = iota
	// Skip keeps the failing section without results and records the error.
	Skip
)

func (p Policy) String() string {
	if p == Skip {
		return "skip"
	}
	return "abort"
}

// ParsePolicy reads "abort" or "skip".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "abort", "":
		return Abort, nil
	case "skip":
		return Skip, nil
	}
	return Abort, fmt.Errorf("unknown failure policy %q, use abort or skip", s)
}

// ErrMissingValue is returned for a section without an A, Iy or Iz value.
var ErrMissingValue = errors.New("missing section property")

// RowError attributes a failure to a catalog section.
type RowError struct {
	Index   int // 0-based row index in the input table
	Section string
	Err     error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("section %q (row %d): %v", e.Section, e.Index+1, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Result is an evaluated catalog.
type Result struct {
	Table    *catalog.Table
	Params   Params
	Failures []*RowError // in catalog order, only with the Skip policy
}

// Evaluator runs the column check over catalog rows.
type Evaluator struct {
	Policy  Policy
	Workers int // <= 0 means GOMAXPROCS
	Logger  *slog.Logger
}

// NewEvaluator creates an evaluator with the given failure policy.
func NewEvaluator(policy Policy) *Evaluator {
	return &Evaluator{Policy: policy}
}

func (e *Evaluator) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// ColumnFor builds the steel column a catalog row describes: A, Iy and Iz
// from the row, pin-ended, E = 210000 MPa.
func ColumnFor(row catalog.Row, p Params) (*column.SteelColumn, error) {
	var missing []string
	get := func(col string) float64 {
		v, ok := row.Value(col)
		if !ok {
			missing = append(missing, col)
		}
		return v
	}

	g := column.Geometry{
		Height: p.Height,
		Area:   get(catalog.ColArea),
		MoIx:   get(catalog.ColIy),
		MoIy:   get(catalog.ColIz),
		Kx:     ec3.KPinned,
		Ky:     ec3.KPinned,
		E:      ec3.Es,
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingValue, missing)
	}

	c := column.NewSteelColumn(row.Name, g, p.Load())
	c.YieldStress = p.YieldStress
	return c, nil
}

// rowResult holds the computed values of one section.
type rowResult struct {
	factoredLoad float64
	resistance   float64
	dcr          float64
}

func evaluateRow(row catalog.Row, p Params) (rowResult, error) {
	c, err := ColumnFor(row, p)
	if err != nil {
		return rowResult{}, err
	}
	var r rowResult
	r.factoredLoad = c.FactoredAxialLoad()
	if r.resistance, err = c.FactoredAxialCapacity(CheckedAxis); err != nil {
		return rowResult{}, err
	}
	if r.dcr, err = c.FactoredDCR(CheckedAxis); err != nil {
		return rowResult{}, err
	}
	return r, nil
}

// Evaluate checks every section of t and returns a new table with the
// output columns added. t is not modified. Each output row is written once,
// complete, by the goroutine that evaluated it.
func (e *Evaluator) Evaluate(ctx context.Context, t *catalog.Table, p Params) (*Result, error) {
	if err := t.Require(catalog.ColArea, catalog.ColIy, catalog.ColIz); err != nil {
		return nil, err
	}
	if err := t.CheckUnique(); err != nil {
		return nil, err
	}

	out := &catalog.Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]catalog.Row, len(t.Rows)),
	}
	for _, c := range OutputColumns {
		out.AddColumn(c)
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := e.logger()
	log.Debug("evaluating catalog", "sections", len(t.Rows), "workers", workers, "policy", e.Policy.String())

	errs := make([]error, len(t.Rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, src := range t.Rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			row := src.Clone()
			for _, c := range OutputColumns {
				delete(row.Values, c)
			}
			row.Values[ColHeight] = p.Height
			row.Values[ColDead] = p.Dead
			row.Values[ColLive] = p.Live

			res, err := evaluateRow(src, p)
			if err != nil {
				rerr := &RowError{Index: i, Section: src.Name, Err: err}
				errs[i] = rerr
				if e.Policy == Abort {
					return rerr
				}
				log.Warn("section failed", "section", src.Name, "error", err)
				out.Rows[i] = row
				return nil
			}

			row.Values[ColFactoredLoad] = res.factoredLoad
			row.Values[ColAxialResistance] = res.resistance
			row.Values[ColDCR] = res.dcr
			out.Rows[i] = row
			log.Debug("section evaluated", "section", src.Name, "dcr", res.dcr)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// report the first failure in catalog order, not the first to finish
		for _, rerr := range errs {
			if rerr != nil {
				return nil, rerr
			}
		}
		return nil, err
	}

	result := &Result{Table: out, Params: p}
	for _, err := range errs {
		if err != nil {
			result.Failures = append(result.Failures, err.(*RowError))
		}
	}
	return result, nil
}
