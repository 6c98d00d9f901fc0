package ec3

// EN 1993-1-1 Material and Buckling Constants

const (
	// Modulus of elasticity for structural steel (Section 3.2.6)
	Es = 210000.0 // MPa

	// Default nominal yield strength, grade S235 (Table 3.1)
	FyS235 = 235.0 // MPa

	// Partial factor for resistance of cross-sections (Section 6.1)
	GammaM0 = 1.0

	// Effective-length factor for a pin-ended member
	KPinned = 1.0

	// Plateau of the buckling curves: no reduction below this slenderness
	// (Section 6.3.1.2)
	LambdaPlateau = 0.2
)

// BucklingCurve identifies one of the flexural buckling curves of
// EN 1993-1-1 Table 6.1.
type BucklingCurve string

const (
	CurveA0 BucklingCurve = "a0"
	CurveA  BucklingCurve = "a"
	CurveB  BucklingCurve = "b"
	CurveC  BucklingCurve = "c"
	CurveD  BucklingCurve = "d"
)

// Alpha returns the imperfection factor of the curve (Table 6.1).
// Unknown curves return 0.
func (c BucklingCurve) Alpha() float64 {
	switch c {
	case CurveA0:
		return 0.13
	case CurveA:
		return 0.21
	case CurveB:
		return 0.34
	case CurveC:
		return 0.49
	case CurveD:
		return 0.76
	}
	return 0
}

// DesignYield returns the design yield stress fy/γM.
func DesignYield(fy, gammaM float64) float64 {
	return fy / gammaM
}
