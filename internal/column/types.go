package column

import (
	"errors"
	"fmt"
	"strings"
)

// Axis is a principal bending axis of a doubly symmetric section.
// X is the strong axis, Y the weak axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// ParseAxis accepts "x" or "y" in any case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	}
	return "", &CalcError{Kind: ErrInvalidAxis, Quantity: "axis", Detail: fmt.Sprintf("%q is not a valid axis, use 'x' or 'y'", s)}
}

func (a Axis) normalize() (Axis, error) {
	return ParseAxis(string(a))
}

// Calculation errors
var (
	ErrInvalidAxis     = errors.New("invalid axis")
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrNumericDomain   = errors.New("outside numeric domain")
	ErrCapacityZero    = errors.New("zero capacity")
	ErrParse           = errors.New("parse error")
)

// CalcError describes a failed column calculation. Kind is one of the
// sentinel errors above, so errors.Is works on it.
type CalcError struct {
	Kind     error
	Tag      string  // column tag, empty for bare geometry
	Axis     Axis    // empty when not axis specific
	Quantity string  // the quantity that could not be evaluated
	Value    float64 // offending value, when meaningful
	Detail   string
}

func (e *CalcError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Tag != "" {
		fmt.Fprintf(&b, " [%s]", e.Tag)
	}
	if e.Axis != "" {
		fmt.Fprintf(&b, " axis %s", e.Axis)
	}
	if e.Quantity != "" {
		fmt.Fprintf(&b, ": %s", e.Quantity)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

func (e *CalcError) Unwrap() error {
	return e.Kind
}

// withTag stamps a column tag onto a CalcError coming out of the geometry
// layer.
func withTag(err error, tag string) error {
	var ce *CalcError
	if tag != "" && errors.As(err, &ce) && ce.Tag == "" {
		ce.Tag = tag
	}
	return err
}
