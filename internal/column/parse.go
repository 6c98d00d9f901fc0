package column

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/alexiusacademia/gocol/internal/ec3"
)

// RecordFields names the fields of a manual column record, in order.
var RecordFields = []string{
	"tag", "area", "height", "moi_x", "moi_y", "yield_stress",
	"e", "k_x", "k_y", "dead", "live",
}

// FromRecord builds a column from an 11-field record:
// tag, area, height, MoIx, MoIy, fy, E, Kx, Ky, dead, live.
func FromRecord(record []string) (*SteelColumn, error) {
	if len(record) != len(RecordFields) {
		return nil, &CalcError{
			Kind:   ErrParse,
			Detail: fmt.Sprintf("expected %d fields, got %d", len(RecordFields), len(record)),
		}
	}

	tag := strings.TrimSpace(record[0])
	values := make([]float64, len(record)-1)
	for i, field := range record[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &CalcError{
				Kind:     ErrParse,
				Tag:      tag,
				Quantity: RecordFields[i+1],
				Detail:   fmt.Sprintf("%q is not a finite number", field),
			}
		}
		values[i] = v
	}

	g := Geometry{
		Area:   values[0],
		Height: values[1],
		MoIx:   values[2],
		MoIy:   values[3],
		E:      values[5],
		Kx:     values[6],
		Ky:     values[7],
	}
	c := NewSteelColumn(tag, g, ec3.Load{Dead: values[8], Live: values[9]})
	c.YieldStress = values[4]
	return c, nil
}

// ParseRecord splits a comma separated record and builds a column from it.
func ParseRecord(line string) (*SteelColumn, error) {
	return FromRecord(strings.Split(line, ","))
}

// LoadFromFile loads a column definition from a JSON file. Missing yield
// stress and partial factor take their defaults.
func LoadFromFile(path string) (*SteelColumn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := NewSteelColumn("", Geometry{}, ec3.Load{})
	if err := json.Unmarshal(data, c); err != nil {
		return nil, &CalcError{Kind: ErrParse, Detail: fmt.Sprintf("%s: %v", path, err)}
	}
	return c, nil
}
