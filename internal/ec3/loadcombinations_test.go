package ec3

import (
	"errors"
	"math"
	"testing"
)

func isClose(a, b, relTol float64) bool {
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}

func TestFactoredDeadOnly(t *testing.T) {
	for _, dead := range []float64{0, 1, 25.7, 400000, -12.5} {
		l := Load{Dead: dead}
		if got, want := l.Factored(), 1.2*dead; !isClose(got, want, 1e-12) && got != want {
			t.Errorf("Load{Dead: %v}.Factored() = %v, want %v", dead, got, want)
		}
	}
}

func TestFactoredTakesLargestVariableLoad(t *testing.T) {
	l := Load{Dead: 25.7, Snow: 37.9, Quake: 56.6}
	if got := l.Factored(); !isClose(got, 115.74, 1e-9) {
		t.Errorf("Factored() = %v, want 115.74", got)
	}
}

func TestGoverning(t *testing.T) {
	tests := []struct {
		name     string
		load     Load
		wantLoad float64
		wantComp LoadComponent
	}{
		{"zero load", Load{}, 0, Live},
		{"live governs", Load{Dead: 10, Live: 20, Snow: 5}, 1.2*10 + 1.5*20, Live},
		{"wind governs", Load{Live: 1, Snow: 2, Wind: 3}, 1.5 * 3, Wind},
		{"quake governs", Load{Dead: 25.7, Snow: 37.9, Quake: 56.6}, 115.74, Quake},
		{"tie keeps first", Load{Snow: 4, Wind: 4}, 6, Snow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, comp := tt.load.Governing()
			if !isClose(got, tt.wantLoad, 1e-9) && got != tt.wantLoad {
				t.Errorf("Governing() load = %v, want %v", got, tt.wantLoad)
			}
			if comp != tt.wantComp {
				t.Errorf("Governing() component = %v, want %v", comp, tt.wantComp)
			}
		})
	}
}

func TestVariableLoadsAreNotSummed(t *testing.T) {
	l := Load{Live: 10, Snow: 10, Wind: 10, Quake: 10}
	if got := l.Factored(); got != 15 {
		t.Errorf("Factored() = %v, want 15", got)
	}
}

func TestVariableLoadsCannotBeChanged(t *testing.T) {
	lf := VariableLoads()
	if len(lf) != 4 || lf[0].Component != Live || lf[0].Factor != GammaQ {
		t.Fatalf("VariableLoads() = %v, want live first with factor %v", lf, GammaQ)
	}
	lf[0].Factor = 100
	lf[1] = LoadFactor{Component: Dead, Factor: 100}

	l := Load{Dead: 100, Live: 50}
	if got := l.Factored(); got != 195 {
		t.Errorf("Factored() after editing the copy = %v, want 195", got)
	}
	if got := VariableLoads()[0].Factor; got != GammaQ {
		t.Errorf("VariableLoads()[0].Factor = %v, want %v", got, GammaQ)
	}
}

func TestValue(t *testing.T) {
	l := Load{Dead: 1, Live: 2, Snow: 3, Wind: 4, Quake: 5}
	for i, c := range []LoadComponent{Dead, Live, Snow, Wind, Quake} {
		if got := l.Value(c); got != float64(i+1) {
			t.Errorf("Value(%s) = %v, want %v", c, got, i+1)
		}
	}
	if got := l.Value(LoadComponent(42)); got != 0 {
		t.Errorf("Value(unknown) = %v, want 0", got)
	}
}

func TestParseLoad(t *testing.T) {
	l, err := ParseLoad([]string{"24.6", "58.0"})
	if err != nil {
		t.Fatalf("ParseLoad failed: %v", err)
	}
	if l.Dead != 24.6 {
		t.Errorf("Dead = %v, want 24.6", l.Dead)
	}
	if l.Live != 58.0 {
		t.Errorf("Live = %v, want 58.0", l.Live)
	}
	if l.Snow != 0 || l.Wind != 0 || l.Quake != 0 {
		t.Errorf("other components should default to zero, got %+v", l)
	}
}

func TestParseLoadErrors(t *testing.T) {
	for _, fields := range [][]string{nil, {"1"}, {"abc", "1"}, {"1", ""}, {"NaN", "1"}, {"1", "+Inf"}} {
		if _, err := ParseLoad(fields); !errors.Is(err, ErrLoadParse) {
			t.Errorf("ParseLoad(%q) error = %v, want ErrLoadParse", fields, err)
		}
	}
}

func TestBucklingCurveAlpha(t *testing.T) {
	if got := CurveB.Alpha(); got != 0.34 {
		t.Errorf("CurveB.Alpha() = %v, want 0.34", got)
	}
	if got := CurveC.Alpha(); got != 0.49 {
		t.Errorf("CurveC.Alpha() = %v, want 0.49", got)
	}
	if got := BucklingCurve("z").Alpha(); got != 0 {
		t.Errorf("unknown curve alpha = %v, want 0", got)
	}
}
