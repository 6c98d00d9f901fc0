package batch

import (
	"errors"

	"github.com/alexiusacademia/gocol/internal/catalog"
)

// Selection summarizes the adequate sections of an evaluated catalog.
type Selection struct {
	Adequate     *catalog.Table // rows with DCR <= 1, in catalog order
	Lightest     *catalog.Row   // smallest kg/m among Adequate, nil without a weight column
	MostUtilized *catalog.Row   // largest DCR among Adequate
}

// Best picks the adequate sections of an evaluated table. It returns
// catalog.ErrEmptyTable when no section passes.
func Best(t *catalog.Table) (*Selection, error) {
	ok, err := t.AtMost(catalog.Predicate{Column: ColDCR, Threshold: 1})
	if err != nil {
		return nil, err
	}
	if ok.Len() == 0 {
		return nil, catalog.ErrEmptyTable
	}

	s := &Selection{Adequate: ok}
	top, err := ok.Max(ColDCR)
	if err != nil {
		return nil, err
	}
	s.MostUtilized = &top

	light, err := ok.Min(catalog.ColWeight)
	switch {
	case err == nil:
		s.Lightest = &light
	case errors.Is(err, catalog.ErrUnknownColumn), errors.Is(err, catalog.ErrEmptyTable):
	default:
		return nil, err
	}
	return s, nil
}
