package column

import (
	"fmt"
	"math"
)

// Geometry represents a doubly symmetric prismatic member of homogeneous
// material. Units are consistent N and mm.
type Geometry struct {
	Height float64 `json:"height"` // member length (mm)
	Area   float64 `json:"area"`   // cross-sectional area (mm²)
	MoIx   float64 `json:"moi_x"`  // second moment of area, strong axis (mm⁴)
	MoIy   float64 `json:"moi_y"`  // second moment of area, weak axis (mm⁴)
	Kx     float64 `json:"k_x"`    // effective-length factor, strong axis
	Ky     float64 `json:"k_y"`    // effective-length factor, weak axis
	E      float64 `json:"e"`      // modulus of elasticity (MPa)
}

// axisProperties returns the moment of inertia and effective-length factor
// for an axis.
func (g Geometry) axisProperties(axis Axis) (moi, k float64, err error) {
	axis, err = axis.normalize()
	if err != nil {
		return 0, 0, err
	}
	if axis == AxisX {
		return g.MoIx, g.Kx, nil
	}
	return g.MoIy, g.Ky, nil
}

// RadiusOfGyration returns i = √(I/A) about the given axis.
func (g Geometry) RadiusOfGyration(axis Axis) (float64, error) {
	moi, _, err := g.axisProperties(axis)
	if err != nil {
		return 0, err
	}
	if g.Area == 0 {
		return 0, &CalcError{Kind: ErrInvalidGeometry, Axis: axis, Quantity: "area", Value: g.Area, Detail: "area cannot be zero"}
	}
	ratio := moi / g.Area
	if ratio < 0 {
		return 0, &CalcError{
			Kind:     ErrInvalidGeometry,
			Axis:     axis,
			Quantity: "I/A",
			Value:    ratio,
			Detail:   fmt.Sprintf("moment of inertia %g and area %g have opposite signs", moi, g.Area),
		}
	}
	return math.Sqrt(ratio), nil
}

// EulerBucklingLoad returns the elastic critical load
// Ncr = π²EI / (KL)² about the given axis.
func (g Geometry) EulerBucklingLoad(axis Axis) (float64, error) {
	moi, k, err := g.axisProperties(axis)
	if err != nil {
		return 0, err
	}
	effLength := k * g.Height
	if effLength == 0 {
		return 0, &CalcError{
			Kind:     ErrInvalidGeometry,
			Axis:     axis,
			Quantity: "K·L",
			Detail:   fmt.Sprintf("height (%g) and K-factor (%g) cannot be zero", g.Height, k),
		}
	}
	return math.Pi * math.Pi * g.E * moi / (effLength * effLength), nil
}
