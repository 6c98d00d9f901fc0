package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/gocol/internal/batch"
	"github.com/alexiusacademia/gocol/internal/catalog"
	"github.com/alexiusacademia/gocol/internal/column"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), MemoryPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() *batch.Result {
	p := batch.Params{Height: 6000, YieldStress: 235, Dead: 40000, Live: 50000}
	tbl := &catalog.Table{
		Columns: append([]string{catalog.ColArea}, batch.OutputColumns...),
		Rows: []catalog.Row{
			{Name: "IPE 200", Values: map[string]float64{
				catalog.ColArea:          2850,
				batch.ColFactoredLoad:    123000,
				batch.ColAxialResistance: 495944.1390477237,
				batch.ColDCR:             0.2480118027731425,
			}},
			{Name: "BAD", Values: map[string]float64{catalog.ColArea: 0}},
		},
	}
	return &batch.Result{
		Table:    tbl,
		Params:   p,
		Failures: []*batch.RowError{{Index: 1, Section: "BAD", Err: column.ErrInvalidGeometry}},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, "ipe.csv", sampleResult())
	if err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}

	run, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if run.Source != "ipe.csv" || run.Rows != 2 || run.Failures != 1 {
		t.Errorf("Got run %+v", run)
	}
	if run.Params.Height != 6000 || run.Params.Live != 50000 {
		t.Errorf("Got params %+v", run.Params)
	}
	if run.CreatedAt.IsZero() {
		t.Error("Expected a creation time")
	}

	results, err := s.Results(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Section != "IPE 200" || results[0].DCR == nil || *results[0].DCR != 0.2480118027731425 {
		t.Errorf("Got first result %+v", results[0])
	}
	if results[1].DCR != nil || results[1].Error == "" {
		t.Errorf("Expected failed second result, got %+v", results[1])
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, src := range []string{"a.csv", "b.csv", "c.csv"} {
		id, err := s.SaveRun(ctx, src, sampleResult())
		if err != nil {
			t.Fatalf("Failed to save run: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[0].Source != "c.csv" {
		t.Errorf("Expected newest run first, got %+v", runs[0])
	}

	runs, err = s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("Expected 2 runs with limit, got %d", len(runs))
	}
}

func TestRunNotFound(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.GetRun(ctx, 42); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun error = %v, want ErrRunNotFound", err)
	}
	if _, err := s.Results(ctx, 42); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Results error = %v, want ErrRunNotFound", err)
	}
	if err := s.DeleteRun(ctx, 42); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("DeleteRun error = %v, want ErrRunNotFound", err)
	}
}

func TestDeleteRunCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, "ipe.csv", sampleResult())
	if err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}
	if err := s.DeleteRun(ctx, id); err != nil {
		t.Fatalf("Failed to delete run: %v", err)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM run_results WHERE run_id = ?", id).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Expected results to be deleted, %d remain", n)
	}
}

func TestPersistenceAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	id, err := s.SaveRun(ctx, "ipe.csv", sampleResult())
	if err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer s.Close()

	if _, err := s.GetRun(ctx, id); err != nil {
		t.Errorf("Run lost after reopen: %v", err)
	}
}
