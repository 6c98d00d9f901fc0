package catalog

// Units maps a column to the factor that converts it to N/mm units.
type Units map[string]float64

// DefaultUnits converts a European section table (cm, cm², cm³, cm⁴,
// 10³cm⁶) to mm based units.
var DefaultUnits = Units{
	"iy": 10,
	"iz": 10,
	"Ss": 10,

	"A":   100,
	"Avz": 100,

	"Wel.y": 1000,
	"Wpl.y": 1000,
	"Wel.z": 1000,
	"Wpl.z": 1000,

	"Iy": 1e4,
	"Iz": 1e4,
	"It": 1e4,

	"Iw": 1e9,
}

// Scale multiplies every present column by its factor, in place. Columns
// the table does not have are ignored.
func (t *Table) Scale(u Units) {
	for col, factor := range u {
		if !t.HasColumn(col) {
			continue
		}
		for _, r := range t.Rows {
			if v, ok := r.Values[col]; ok {
				r.Values[col] = v * factor
			}
		}
	}
}
