package column

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/gocol/internal/ec3"
)

func hea180() *SteelColumn {
	return &SteelColumn{
		Geometry: Geometry{
			Height: 3000.0,
			Area:   4525,
			MoIx:   25100000.0,
			MoIy:   9250000.0,
			Kx:     0.5,
			Ky:     0.5,
			E:      210000,
		},
		Tag:         "HEA180",
		AxialLoad:   ec3.Load{Dead: 400000},
		YieldStress: 235,
		GammaM:      1.0,
	}
}

func TestFactoredAxialCapacity(t *testing.T) {
	c := hea180()
	tests := []struct {
		axis Axis
		want float64
	}{
		{AxisX, 1057925.9442006957},
		{AxisY, 980192.3571053795},
	}
	for _, tt := range tests {
		got, err := c.FactoredAxialCapacity(tt.axis)
		if err != nil {
			t.Fatalf("FactoredAxialCapacity(%q) failed: %v", tt.axis, err)
		}
		if !isClose(got, tt.want, 1e-9) {
			t.Errorf("FactoredAxialCapacity(%q) = %v, want %v", tt.axis, got, tt.want)
		}
	}
}

func TestFactoredDCR(t *testing.T) {
	c := hea180()
	tests := []struct {
		axis Axis
		want float64
	}{
		{AxisX, 0.453717958833743},
		{AxisY, 0.4896997987389895},
	}
	for _, tt := range tests {
		got, err := c.FactoredDCR(tt.axis)
		if err != nil {
			t.Fatalf("FactoredDCR(%q) failed: %v", tt.axis, err)
		}
		if !isClose(got, tt.want, 1e-9) {
			t.Errorf("FactoredDCR(%q) = %v, want %v", tt.axis, got, tt.want)
		}
	}
}

func TestFactoredDCRIsIdempotent(t *testing.T) {
	c := hea180()
	before := *c

	first, err := c.FactoredDCR(AxisX)
	if err != nil {
		t.Fatalf("FactoredDCR failed: %v", err)
	}
	second, err := c.FactoredDCR(AxisX)
	if err != nil {
		t.Fatalf("FactoredDCR failed: %v", err)
	}
	if first != second {
		t.Errorf("FactoredDCR not repeatable: %v then %v", first, second)
	}
	if *c != before {
		t.Errorf("FactoredDCR mutated the column: %+v -> %+v", before, *c)
	}
}

func TestBucklingIntermediates(t *testing.T) {
	r, err := hea180().Buckling(AxisX)
	if err != nil {
		t.Fatalf("Buckling failed: %v", err)
	}
	if r.Curve != ec3.CurveB || r.Alpha != 0.34 {
		t.Errorf("strong axis curve = %s (α=%v), want b (α=0.34)", r.Curve, r.Alpha)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"Ncr", r.Ncr, 23121193.243618667},
		{"LambdaRel", r.LambdaRel, 0.2144559505335947},
		{"Phi", r.Phi, 0.5254531889503449},
		{"Chi", r.Chi, 0.9948756969090826},
	}
	for _, c := range checks {
		if !isClose(c.got, c.want, 1e-9) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	r, err = hea180().Buckling("Y")
	if err != nil {
		t.Fatalf("Buckling failed: %v", err)
	}
	if r.Axis != AxisY || r.Curve != ec3.CurveC || r.Alpha != 0.49 {
		t.Errorf("weak axis = %s curve %s (α=%v), want y curve c (α=0.49)", r.Axis, r.Curve, r.Alpha)
	}
}

func TestCapacityPropagatesGeometryErrors(t *testing.T) {
	c := hea180()
	c.Area = 0
	_, err := c.FactoredAxialCapacity(AxisX)
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("error = %v, want ErrInvalidGeometry", err)
	}
	var ce *CalcError
	if !errors.As(err, &ce) || ce.Tag != "HEA180" || ce.Quantity != "area" {
		t.Errorf("error should name the column and the area, got %v", err)
	}

	c = hea180()
	c.Height = 0
	if _, err := c.FactoredDCR(AxisY); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("zero height: error = %v, want ErrInvalidGeometry", err)
	}

	if _, err := hea180().FactoredDCR("z"); !errors.Is(err, ErrInvalidAxis) {
		t.Errorf("axis z: error = %v, want ErrInvalidAxis", err)
	}
}

func TestCapacityNumericDomain(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *SteelColumn)
	}{
		{"zero moment of inertia", func(c *SteelColumn) { c.MoIx = 0 }},
		{"zero elastic modulus", func(c *SteelColumn) { c.E = 0 }},
		{"negative yield stress", func(c *SteelColumn) { c.YieldStress = -235 }},
		{"zero partial factor", func(c *SteelColumn) { c.GammaM = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := hea180()
			tt.modify(c)
			_, err := c.FactoredAxialCapacity(AxisX)
			if !errors.Is(err, ErrNumericDomain) {
				t.Fatalf("error = %v, want ErrNumericDomain", err)
			}
			if errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("numeric domain error must not match ErrInvalidGeometry")
			}
		})
	}
}

func TestDCRCapacityZero(t *testing.T) {
	c := hea180()
	c.YieldStress = 0

	capacity, err := c.FactoredAxialCapacity(AxisX)
	if err != nil {
		t.Fatalf("FactoredAxialCapacity failed: %v", err)
	}
	if capacity != 0 {
		t.Fatalf("capacity = %v, want 0", capacity)
	}

	_, err = c.FactoredDCR(AxisX)
	if !errors.Is(err, ErrCapacityZero) {
		t.Fatalf("error = %v, want ErrCapacityZero", err)
	}
	if errors.Is(err, ErrNumericDomain) {
		t.Errorf("capacity zero must be distinct from numeric domain")
	}
}

func TestReductionFactor(t *testing.T) {
	chi, _, err := ReductionFactor(0.34, 0)
	if err != nil {
		t.Fatalf("ReductionFactor failed: %v", err)
	}
	if chi <= 1 {
		// below the plateau the formula gives χ slightly above 1
		t.Errorf("χ(λ=0) = %v, expected > 1", chi)
	}

	for _, lambda := range []float64{0.2, 0.5, 1.0, 2.0, 3.0} {
		chiB, _, _ := ReductionFactor(ec3.CurveB.Alpha(), lambda)
		chiC, _, _ := ReductionFactor(ec3.CurveC.Alpha(), lambda)
		if chiC > chiB {
			t.Errorf("λ=%v: curve c (%v) should not exceed curve b (%v)", lambda, chiC, chiB)
		}
	}
}

func TestCheck(t *testing.T) {
	res, err := hea180().Check()
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if res.Governing != AxisY {
		t.Errorf("Governing = %s, want y", res.Governing)
	}
	if !isClose(res.DCR, 0.4896997987389895, 1e-9) {
		t.Errorf("DCR = %v, want 0.4896997987389895", res.DCR)
	}
	if !isClose(res.X.DCR, 0.453717958833743, 1e-9) {
		t.Errorf("X.DCR = %v, want 0.453717958833743", res.X.DCR)
	}
	if !res.IsAdequate {
		t.Errorf("expected adequate column: %s", res.Message)
	}
	if res.FactoredLoad != 480000 {
		t.Errorf("FactoredLoad = %v, want 480000", res.FactoredLoad)
	}
}

func TestFromRecord(t *testing.T) {
	record := []string{"C02", "22620.0", "2300.0", "1139000000.0", "271000000.0", "250", "200000.0", "0.7", "1.0", "389660.0", "287120.0"}
	c, err := FromRecord(record)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	if c.Tag != "C02" {
		t.Errorf("Tag = %q, want C02", c.Tag)
	}
	want := ec3.Load{Dead: 389660.0, Live: 287120.0}
	if c.AxialLoad != want {
		t.Errorf("AxialLoad = %+v, want %+v", c.AxialLoad, want)
	}
	if c.Area != 22620 || c.Height != 2300 || c.MoIx != 1139000000 || c.MoIy != 271000000 {
		t.Errorf("geometry not read in record order: %+v", c.Geometry)
	}
	if c.YieldStress != 250 || c.E != 200000 || c.Kx != 0.7 || c.Ky != 1.0 {
		t.Errorf("material/restraint not read in record order: %+v", c)
	}
	if c.GammaM != 1.0 {
		t.Errorf("GammaM = %v, want default 1.0", c.GammaM)
	}

	dcr, err := c.FactoredDCR(AxisX)
	if err != nil {
		t.Fatalf("FactoredDCR failed: %v", err)
	}
	if !isClose(dcr, 0.1523608772066028, 1e-9) {
		t.Errorf("FactoredDCR(x) = %v, want 0.1523608772066028", dcr)
	}
}

func TestFromRecordErrors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
	}{
		{"too few fields", []string{"C01", "1", "2"}},
		{"non numeric area", []string{"C01", "abc", "2300", "1", "1", "235", "210000", "1", "1", "0", "0"}},
		{"empty live load", []string{"C01", "1", "2300", "1", "1", "235", "210000", "1", "1", "0", ""}},
		{"NaN area", []string{"C02", "NaN", "2300", "1", "1", "235", "210000", "1", "1", "0", "0"}},
		{"infinite height", []string{"C02", "1", "Inf", "1", "1", "235", "210000", "1", "1", "0", "0"}},
		{"infinite dead load", []string{"C02", "1", "2300", "1", "1", "235", "210000", "1", "1", "-Inf", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromRecord(tt.record); !errors.Is(err, ErrParse) {
				t.Errorf("error = %v, want ErrParse", err)
			}
		})
	}
}

func TestParseRecord(t *testing.T) {
	c, err := ParseRecord("C02, 22620.0, 2300.0, 1139000000.0, 271000000.0, 250, 200000.0, 0.7, 1.0, 389660.0, 287120.0")
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}
	if c.Tag != "C02" || c.Ky != 1.0 {
		t.Errorf("unexpected column %+v", c)
	}
}

func TestLoadFromFile(t *testing.T) {
	c, err := LoadFromFile(filepath.Join("testdata", "hea180.json"))
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if *c != *hea180() {
		t.Errorf("loaded column = %+v, want %+v", *c, *hea180())
	}

	if _, err := LoadFromFile(filepath.Join("testdata", "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}
