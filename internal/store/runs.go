package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexiusacademia/gocol/internal/batch"
)

var ErrRunNotFound = errors.New("run not found")

// Run is one stored catalog evaluation.
type Run struct {
	ID        int64        `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Source    string       `json:"source"`
	Params    batch.Params `json:"params"`
	Rows      int          `json:"rows"`
	Failures  int          `json:"failures"`
}

// RunResult is the stored outcome for one section. The numeric fields are
// nil for a section that could not be evaluated.
type RunResult struct {
	Section         string   `json:"section"`
	FactoredLoad    *float64 `json:"factored_load,omitempty"`
	AxialResistance *float64 `json:"axial_resistance,omitempty"`
	DCR             *float64 `json:"dcr,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// SaveRun stores an evaluated catalog and returns the new run id.
func (s *Store) SaveRun(ctx context.Context, source string, res *batch.Result) (int64, error) {
	failed := make(map[int]string, len(res.Failures))
	for _, f := range res.Failures {
		failed[f.Index] = f.Err.Error()
	}

	var id int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		p := res.Params
		r, err := tx.ExecContext(ctx,
			`INSERT INTO runs (created_at, source, height, yield_stress, dead, live, row_count, failure_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			time.Now().UTC().Format(time.RFC3339Nano), source,
			p.Height, p.YieldStress, p.Dead, p.Live,
			res.Table.Len(), len(res.Failures),
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
		if id, err = r.LastInsertId(); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_results (run_id, position, section, factored_load, axial_resistance, dcr, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, row := range res.Table.Rows {
			var msg sql.NullString
			if m, ok := failed[i]; ok {
				msg = sql.NullString{String: m, Valid: true}
			}
			_, err := stmt.ExecContext(ctx, id, i, row.Name,
				nullable(row.Value(batch.ColFactoredLoad)),
				nullable(row.Value(batch.ColAxialResistance)),
				nullable(row.Value(batch.ColDCR)),
				msg,
			)
			if err != nil {
				return fmt.Errorf("failed to insert result for %q: %w", row.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func nullable(v float64, ok bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

const runColumns = `id, created_at, source, height, yield_stress, dead, live, row_count, failure_count`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var created string
	err := sc.Scan(&r.ID, &created, &r.Source,
		&r.Params.Height, &r.Params.YieldStress, &r.Params.Dead, &r.Params.Live,
		&r.Rows, &r.Failures)
	if err != nil {
		return Run{}, err
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Run{}, fmt.Errorf("run %d: bad created_at %q: %w", r.ID, created, err)
	}
	return r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a run by id.
func (s *Store) GetRun(ctx context.Context, id int64) (*Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Results returns the section results of a run in catalog order.
func (s *Store) Results(ctx context.Context, runID int64) ([]RunResult, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT section, factored_load, axial_resistance, dcr, error
		 FROM run_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	var out []RunResult
	for rows.Next() {
		var r RunResult
		var load, resistance, dcr sql.NullFloat64
		var msg sql.NullString
		if err := rows.Scan(&r.Section, &load, &resistance, &dcr, &msg); err != nil {
			return nil, err
		}
		r.FactoredLoad = fromNull(load)
		r.AxialResistance = fromNull(resistance)
		r.DCR = fromNull(dcr)
		r.Error = msg.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its results.
func (s *Store) DeleteRun(ctx context.Context, id int64) error {
	r, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := r.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return nil
}
