package column

import (
	"errors"
	"fmt"
	"math"

	"github.com/alexiusacademia/gocol/internal/ec3"
)

// SteelColumn is a steel member carrying a single axial load.
type SteelColumn struct {
	Geometry

	Tag         string   `json:"tag"`
	YieldStress float64  `json:"yield_stress"` // fy (MPa)
	GammaM      float64  `json:"gamma_m"`      // partial factor γM
	AxialLoad   ec3.Load `json:"axial_load"`
}

// NewSteelColumn creates a column with S235 steel and γM = 1.0.
func NewSteelColumn(tag string, g Geometry, load ec3.Load) *SteelColumn {
	return &SteelColumn{
		Geometry:    g,
		Tag:         tag,
		YieldStress: ec3.FyS235,
		GammaM:      ec3.GammaM0,
		AxialLoad:   load,
	}
}

// BucklingResult holds the intermediate values of a flexural buckling check.
type BucklingResult struct {
	Axis      Axis              `json:"axis"`
	Curve     ec3.BucklingCurve `json:"curve"`
	Alpha     float64           `json:"alpha"`      // imperfection factor
	Fy        float64           `json:"fy"`         // design yield stress fy/γM (MPa)
	I         float64           `json:"i"`          // radius of gyration (mm)
	Lambda1   float64           `json:"lambda_1"`   // reference slenderness π√(E/fy)
	Ncr       float64           `json:"ncr"`        // Euler critical load (N)
	LambdaRel float64           `json:"lambda_rel"` // non-dimensional slenderness
	Phi       float64           `json:"phi"`        // Φ = 0.5[1 + α(λ - 0.2) + λ²]
	Chi       float64           `json:"chi"`        // reduction factor χ
	Nb        float64           `json:"nb"`         // factored buckling resistance (N)
}

// CurveForAxis returns the buckling curve used for rolled I-sections:
// curve b about the strong axis, curve c about the weak axis.
func CurveForAxis(axis Axis) ec3.BucklingCurve {
	if axis == AxisX {
		return ec3.CurveB
	}
	return ec3.CurveC
}

// ReductionFactor returns χ and Φ for a relative slenderness and
// imperfection factor.
func ReductionFactor(alpha, lambdaRel float64) (chi, phi float64, err error) {
	phi = 0.5 * (1 + alpha*(lambdaRel-ec3.LambdaPlateau) + lambdaRel*lambdaRel)
	radicand := phi*phi - lambdaRel*lambdaRel
	if !(radicand >= 0) || math.IsInf(radicand, 0) {
		return 0, phi, &CalcError{
			Kind:     ErrNumericDomain,
			Quantity: "Φ² - λ²",
			Value:    radicand,
			Detail:   fmt.Sprintf("no real reduction factor for λ = %g, Φ = %g", lambdaRel, phi),
		}
	}
	return 1 / (phi + math.Sqrt(radicand)), phi, nil
}

// Buckling runs the flexural buckling check about an axis.
//
// The relative slenderness is taken as √(A·fy/Ncr). λ1 is reported but not
// used to derive it.
func (c *SteelColumn) Buckling(axis Axis) (*BucklingResult, error) {
	axis, err := axis.normalize()
	if err != nil {
		return nil, err
	}

	r := &BucklingResult{Axis: axis, Curve: CurveForAxis(axis)}
	r.Alpha = r.Curve.Alpha()
	r.Fy = ec3.DesignYield(c.YieldStress, c.GammaM)

	r.I, err = c.RadiusOfGyration(axis)
	if err != nil {
		return nil, withTag(err, c.Tag)
	}
	r.Lambda1 = math.Pi * math.Sqrt(c.E/r.Fy)

	r.Ncr, err = c.EulerBucklingLoad(axis)
	if err != nil {
		return nil, withTag(err, c.Tag)
	}

	ratio := c.Area * r.Fy / r.Ncr
	if !(ratio >= 0) || math.IsInf(ratio, 0) {
		return nil, &CalcError{
			Kind:     ErrNumericDomain,
			Tag:      c.Tag,
			Axis:     axis,
			Quantity: "A·fy/Ncr",
			Value:    ratio,
			Detail:   fmt.Sprintf("no real slenderness for A = %g, fy = %g, Ncr = %g", c.Area, r.Fy, r.Ncr),
		}
	}
	r.LambdaRel = math.Sqrt(ratio)

	r.Chi, r.Phi, err = ReductionFactor(r.Alpha, r.LambdaRel)
	if err != nil {
		var ce *CalcError
		if errors.As(err, &ce) {
			ce.Axis = axis
		}
		return nil, withTag(err, c.Tag)
	}

	r.Nb = r.Chi * c.Area * r.Fy / c.GammaM
	if math.IsNaN(r.Nb) || math.IsInf(r.Nb, 0) {
		return nil, &CalcError{Kind: ErrNumericDomain, Tag: c.Tag, Axis: axis, Quantity: "Nb", Value: r.Nb}
	}
	return r, nil
}

// FactoredAxialLoad returns the design axial load of the column.
func (c *SteelColumn) FactoredAxialLoad() float64 {
	return c.AxialLoad.Factored()
}

// FactoredAxialCapacity returns the buckling resistance Nb,Rd about an axis.
func (c *SteelColumn) FactoredAxialCapacity(axis Axis) (float64, error) {
	r, err := c.Buckling(axis)
	if err != nil {
		return 0, err
	}
	return r.Nb, nil
}

// FactoredDCR returns the demand/capacity ratio NEd/Nb,Rd about an axis.
func (c *SteelColumn) FactoredDCR(axis Axis) (float64, error) {
	capacity, err := c.FactoredAxialCapacity(axis)
	if err != nil {
		return 0, err
	}
	if capacity == 0 {
		return 0, &CalcError{Kind: ErrCapacityZero, Tag: c.Tag, Axis: axis, Quantity: "Nb", Detail: "buckling resistance is zero"}
	}
	return c.FactoredAxialLoad() / capacity, nil
}

// AxisCheck is the result of checking one axis.
type AxisCheck struct {
	*BucklingResult
	DCR float64 `json:"dcr"`
}

// CheckResult holds a two-axis check of a column.
type CheckResult struct {
	Tag          string            `json:"tag"`
	FactoredLoad float64           `json:"factored_load"`
	Leading      ec3.LoadComponent `json:"leading_component"`
	X            AxisCheck         `json:"x"`
	Y            AxisCheck         `json:"y"`
	Governing    Axis              `json:"governing_axis"`
	DCR          float64           `json:"dcr"` // governing (larger) ratio
	IsAdequate   bool              `json:"is_adequate"`
	Message      string            `json:"message"`
}

// Check evaluates both axes and reports the governing one.
func (c *SteelColumn) Check() (*CheckResult, error) {
	result := &CheckResult{Tag: c.Tag}
	result.FactoredLoad, result.Leading = c.AxialLoad.Governing()

	for _, ax := range []struct {
		axis Axis
		dst  *AxisCheck
	}{
		{AxisX, &result.X},
		{AxisY, &result.Y},
	} {
		br, err := c.Buckling(ax.axis)
		if err != nil {
			return nil, err
		}
		if br.Nb == 0 {
			return nil, &CalcError{Kind: ErrCapacityZero, Tag: c.Tag, Axis: ax.axis, Quantity: "Nb", Detail: "buckling resistance is zero"}
		}
		*ax.dst = AxisCheck{BucklingResult: br, DCR: result.FactoredLoad / br.Nb}
	}

	result.Governing, result.DCR = AxisX, result.X.DCR
	if result.Y.DCR > result.X.DCR {
		result.Governing, result.DCR = AxisY, result.Y.DCR
	}

	result.IsAdequate = result.DCR <= 1
	if result.IsAdequate {
		result.Message = fmt.Sprintf("Column is adequate. DCR = %.3f (axis %s) ≤ 1.0", result.DCR, result.Governing)
	} else {
		result.Message = fmt.Sprintf("Column is inadequate. DCR = %.3f (axis %s) > 1.0. Consider a heavier section or shorter effective length.", result.DCR, result.Governing)
	}
	return result, nil
}
