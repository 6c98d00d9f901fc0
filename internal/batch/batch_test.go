package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alexiusacademia/gocol/internal/catalog"
	"github.com/alexiusacademia/gocol/internal/column"
)

func isClose(a, b, relTol float64) bool {
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadIPE(t *testing.T) *catalog.Table {
	t.Helper()
	profiles, err := catalog.Load(filepath.Join("..", "catalog", "testdata", "ipe.csv"))
	if err != nil {
		t.Fatalf("Failed to load test catalog: %v", err)
	}
	return profiles
}

func readCatalog(t *testing.T, src string) *catalog.Table {
	t.Helper()
	profiles, err := catalog.ReadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	profiles.Scale(catalog.DefaultUnits)
	return profiles
}

func names(t *catalog.Table) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Name
	}
	return out
}

var designParams = Params{Height: 6000, YieldStress: 235, Dead: 40000, Live: 50000}

func evaluate(t *testing.T, policy Policy, profiles *catalog.Table, p Params) *Result {
	t.Helper()
	ev := NewEvaluator(policy)
	ev.Logger = quietLogger()
	res, err := ev.Evaluate(context.Background(), profiles, p)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return res
}

func TestEvaluateIPE(t *testing.T) {
	res := evaluate(t, Abort, loadIPE(t), designParams)

	if res.Table.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", res.Table.Len())
	}
	if len(res.Failures) != 0 {
		t.Errorf("Failures = %v, want none", res.Failures)
	}

	tests := []struct {
		section    string
		resistance float64
		dcr        float64
	}{
		{"IPE 100", 77061.65963976114, 1.5961244615673482},
		{"IPE 200", 495944.1390477237, 0.2480118027731425},
		{"IPE 300", 1110777.3536520645, 0.11073326224701556},
		{"IPE 400", 1849782.7212192698, 0.06649429610788316},
		{"IPE 500", 2614678.8596096407, 0.04704210597333675},
	}
	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			row, ok := res.Table.Lookup(tt.section)
			if !ok {
				t.Fatalf("%s not in result", tt.section)
			}
			want := map[string]float64{
				ColHeight:          6000,
				ColDead:            40000,
				ColLive:            50000,
				ColFactoredLoad:    123000,
				ColAxialResistance: tt.resistance,
				ColDCR:             tt.dcr,
			}
			for col, w := range want {
				got, ok := row.Value(col)
				if !ok {
					t.Errorf("missing %s", col)
					continue
				}
				if !isClose(got, w, 1e-9) {
					t.Errorf("%s = %v, want %v", col, got, w)
				}
			}
		})
	}
}

func TestEvaluateShorterColumn(t *testing.T) {
	p := designParams
	p.Height = 3000
	res := evaluate(t, Abort, loadIPE(t), p)

	row, _ := res.Table.Lookup("IPE 100")
	if dcr, _ := row.Value(ColDCR); !isClose(dcr, 0.692057672924376, 1e-9) {
		t.Errorf("IPE 100 DCR = %v, want 0.692057672924376", dcr)
	}
	if nb, _ := row.Value(ColAxialResistance); !isClose(nb, 177730.8522283239, 1e-9) {
		t.Errorf("IPE 100 resistance = %v, want 177730.8522283239", nb)
	}
	row, _ = res.Table.Lookup("IPE 200")
	if dcr, _ := row.Value(ColDCR); !isClose(dcr, 0.1972099450484386, 1e-9) {
		t.Errorf("IPE 200 DCR = %v, want 0.1972099450484386", dcr)
	}
}

func TestEvaluateKeepsOrderAndColumns(t *testing.T) {
	profiles := loadIPE(t)
	res := evaluate(t, Abort, profiles, designParams)

	if got, want := names(res.Table), names(profiles); !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	wantCols := append(slices.Clone(profiles.Columns), OutputColumns...)
	if !slices.Equal(res.Table.Columns, wantCols) {
		t.Errorf("columns = %v, want %v", res.Table.Columns, wantCols)
	}
}

func TestEvaluateDoesNotModifyInput(t *testing.T) {
	profiles := loadIPE(t)
	before := profiles.Clone()

	evaluate(t, Abort, profiles, designParams)

	if !slices.Equal(profiles.Columns, before.Columns) {
		t.Errorf("input columns changed: %v", profiles.Columns)
	}
	for i, r := range profiles.Rows {
		if _, ok := r.Value(ColDCR); ok {
			t.Errorf("input row %s gained a DCR value", r.Name)
		}
		if len(r.Values) != len(before.Rows[i].Values) {
			t.Errorf("input row %s has %d values, want %d", r.Name, len(r.Values), len(before.Rows[i].Values))
		}
	}
}

func TestEvaluateWorkerCounts(t *testing.T) {
	want := evaluate(t, Abort, loadIPE(t), designParams)

	for _, workers := range []int{1, 2, 16} {
		ev := NewEvaluator(Abort)
		ev.Workers = workers
		ev.Logger = quietLogger()
		got, err := ev.Evaluate(context.Background(), loadIPE(t), designParams)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		for i, r := range got.Table.Rows {
			g, _ := r.Value(ColDCR)
			w, _ := want.Table.Rows[i].Value(ColDCR)
			if r.Name != want.Table.Rows[i].Name || g != w {
				t.Errorf("workers=%d row %d = %s %v, want %s %v", workers, i, r.Name, g, want.Table.Rows[i].Name, w)
			}
		}
	}
}

const brokenCatalog = `Section name,kg/m,A,Iy,Iz
S1,10,10,100,50
S2,20,0,100,50
S3,30,20,400,200
S4,40,0,100,50
`

func TestEvaluateAbortReportsFirstFailure(t *testing.T) {
	ev := NewEvaluator(Abort)
	ev.Logger = quietLogger()
	_, err := ev.Evaluate(context.Background(), readCatalog(t, brokenCatalog), designParams)
	if err == nil {
		t.Fatal("expected an error")
	}

	var rerr *RowError
	if !errors.As(err, &rerr) {
		t.Fatalf("error %v is not a *RowError", err)
	}
	if rerr.Section != "S2" || rerr.Index != 1 {
		t.Errorf("failure at %s (index %d), want S2 (index 1)", rerr.Section, rerr.Index)
	}
	if !errors.Is(err, column.ErrInvalidGeometry) {
		t.Errorf("error %v should wrap ErrInvalidGeometry", err)
	}
	if !strings.Contains(err.Error(), "S2") {
		t.Errorf("error %q should name the section", err)
	}
}

func TestEvaluateSkipRecordsFailures(t *testing.T) {
	res := evaluate(t, Skip, readCatalog(t, brokenCatalog), designParams)

	if res.Table.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", res.Table.Len())
	}
	var failed []string
	for _, f := range res.Failures {
		failed = append(failed, f.Section)
	}
	if !slices.Equal(failed, []string{"S2", "S4"}) {
		t.Errorf("failures = %v, want [S2 S4]", failed)
	}

	s2, _ := res.Table.Lookup("S2")
	if _, ok := s2.Value(ColDCR); ok {
		t.Error("failed section should have no DCR")
	}
	if h, _ := s2.Value(ColHeight); h != 6000 {
		t.Errorf("failed section height = %v, want 6000", h)
	}
	s3, _ := res.Table.Lookup("S3")
	if _, ok := s3.Value(ColDCR); !ok {
		t.Error("S3 should have a DCR")
	}
}

func TestEvaluateRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{
			name:    "duplicate section",
			src:     "Section name,A,Iy,Iz\nS1,10,100,50\nS1,20,400,200\n",
			wantErr: catalog.ErrDuplicateSection,
		},
		{
			name:    "missing Iz column",
			src:     "Section name,A,Iy\nS1,10,100\n",
			wantErr: catalog.ErrUnknownColumn,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvaluator(Skip)
			ev.Logger = quietLogger()
			_, err := ev.Evaluate(context.Background(), readCatalog(t, tt.src), designParams)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEvaluateMissingCell(t *testing.T) {
	src := "Section name,A,Iy,Iz\nS1,10,100,\nS2,20,400,200\n"

	ev := NewEvaluator(Abort)
	ev.Logger = quietLogger()
	_, err := ev.Evaluate(context.Background(), readCatalog(t, src), designParams)
	if !errors.Is(err, ErrMissingValue) {
		t.Fatalf("error = %v, want ErrMissingValue", err)
	}

	res := evaluate(t, Skip, readCatalog(t, src), designParams)
	if len(res.Failures) != 1 || res.Failures[0].Section != "S1" {
		t.Errorf("failures = %v, want S1 only", res.Failures)
	}
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := NewEvaluator(Abort)
	ev.Logger = quietLogger()
	_, err := ev.Evaluate(ctx, loadIPE(t), designParams)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestFilterAdequateSorted(t *testing.T) {
	res := evaluate(t, Abort, loadIPE(t), designParams)

	sorted, err := res.Table.SortBy(ColDCR, false)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := sorted.AtMost(catalog.Predicate{Column: ColDCR, Threshold: 1})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"IPE 200", "IPE 300", "IPE 400", "IPE 500"}
	if got := names(ok); !slices.Equal(got, want) {
		t.Errorf("adequate sections = %v, want %v", got, want)
	}
}

func TestBest(t *testing.T) {
	res := evaluate(t, Abort, loadIPE(t), designParams)

	sel, err := Best(res.Table)
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if sel.Adequate.Len() != 4 {
		t.Errorf("adequate = %d, want 4", sel.Adequate.Len())
	}
	if sel.Lightest == nil || sel.Lightest.Name != "IPE 200" {
		t.Errorf("lightest = %v, want IPE 200", sel.Lightest)
	}
	if sel.MostUtilized == nil || sel.MostUtilized.Name != "IPE 200" {
		t.Errorf("most utilized = %v, want IPE 200", sel.MostUtilized)
	}
}

func TestBestNoAdequateSection(t *testing.T) {
	p := designParams
	p.Dead = 4e6
	res := evaluate(t, Abort, loadIPE(t), p)

	if _, err := Best(res.Table); !errors.Is(err, catalog.ErrEmptyTable) {
		t.Errorf("error = %v, want ErrEmptyTable", err)
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": Abort, "abort": Abort, "skip": Skip} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePolicy("retry"); err == nil {
		t.Error("ParsePolicy(retry) should fail")
	}
}
