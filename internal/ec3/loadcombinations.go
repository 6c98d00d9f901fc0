package ec3

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LoadComponent is one of the load types a column can carry.
type LoadComponent int

const (
	Dead  LoadComponent = iota // G - permanent load
	Live                       // Q - imposed load
	Snow                       // S - snow load
	Wind                       // W - wind load
	Quake                      // E - seismic load
)

func (c LoadComponent) String() string {
	switch c {
	case Dead:
		return "dead"
	case Live:
		return "live"
	case Snow:
		return "snow"
	case Wind:
		return "wind"
	case Quake:
		return "quake"
	}
	return fmt.Sprintf("LoadComponent(%d)", int(c))
}

// Partial factors for actions
const (
	GammaG = 1.2 // permanent actions
	GammaQ = 1.5 // leading variable action
)

// LoadFactor pairs a load component with its partial factor.
type LoadFactor struct {
	Component LoadComponent
	Factor    float64
}

// variableLoads lists the variable components in the order they are
// considered as the leading action. Earlier entries win ties.
var variableLoads = [...]LoadFactor{
	{Component: Live, Factor: GammaQ},
	{Component: Snow, Factor: GammaQ},
	{Component: Wind, Factor: GammaQ},
	{Component: Quake, Factor: GammaQ},
}

// VariableLoads returns a copy of the variable components and their
// factors, in leading-action order.
func VariableLoads() []LoadFactor {
	out := make([]LoadFactor, len(variableLoads))
	copy(out, variableLoads[:])
	return out
}

// Load holds unfactored axial load magnitudes per component (N).
type Load struct {
	Dead  float64 `json:"dead"`
	Live  float64 `json:"live"`
	Snow  float64 `json:"snow"`
	Wind  float64 `json:"wind"`
	Quake float64 `json:"quake"`
}

// Value returns the magnitude of a single component.
func (l Load) Value(c LoadComponent) float64 {
	switch c {
	case Dead:
		return l.Dead
	case Live:
		return l.Live
	case Snow:
		return l.Snow
	case Wind:
		return l.Wind
	case Quake:
		return l.Quake
	}
	return 0
}

// Factored returns the design load: 1.2G plus the single largest factored
// variable action. Variable actions are not summed.
func (l Load) Factored() float64 {
	f, _ := l.Governing()
	return f
}

// Governing returns the factored design load together with the leading
// variable component.
func (l Load) Governing() (float64, LoadComponent) {
	leading := variableLoads[0]
	maxVariable := leading.Factor * l.Value(leading.Component)

	for _, lf := range variableLoads[1:] {
		v := lf.Factor * l.Value(lf.Component)
		if v > maxVariable {
			maxVariable = v
			leading = lf
		}
	}

	return GammaG*l.Dead + maxVariable, leading.Component
}

// ErrLoadParse is returned when load tokens cannot be read as numbers.
var ErrLoadParse = errors.New("cannot parse load")

// ParseLoad builds a Load from a dead and a live token.
func ParseLoad(fields []string) (Load, error) {
	if len(fields) < 2 {
		return Load{}, fmt.Errorf("%w: need dead and live values, got %d", ErrLoadParse, len(fields))
	}
	dead, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil || !finite(dead) {
		return Load{}, fmt.Errorf("%w: dead %q", ErrLoadParse, fields[0])
	}
	live, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil || !finite(live) {
		return Load{}, fmt.Errorf("%w: live %q", ErrLoadParse, fields[1])
	}
	return Load{Dead: dead, Live: live}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// MarshalText encodes the component by name.
func (c LoadComponent) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
