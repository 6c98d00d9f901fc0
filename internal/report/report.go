// Package report renders check results as PDF documents.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/alexiusacademia/gocol/internal/batch"
	"github.com/alexiusacademia/gocol/internal/catalog"
	"github.com/alexiusacademia/gocol/internal/column"
)

// Meta is the title block of a report.
type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Date    time.Time
}

func newDocument(meta Meta, defaultTitle string) *gofpdf.Fpdf {
	if meta.Title == "" {
		meta.Title = defaultTitle
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	if meta.Project != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
		pdf.Ln(6)
	}
	if meta.Author != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Author: %s", meta.Author))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", meta.Date.Format("2006-01-02")))
	pdf.Ln(10)
	return pdf
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, text)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
}

// keyValues writes a two column list.
func keyValues(pdf *gofpdf.Fpdf, rows [][2]string) {
	for _, r := range rows {
		pdf.CellFormat(70, 6, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, r[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

// ColumnCheck writes the two-axis check of a single column.
func ColumnCheck(w io.Writer, meta Meta, c *column.SteelColumn, r *column.CheckResult) error {
	title := "Steel Column Buckling Check"
	if c.Tag != "" {
		title += ": " + c.Tag
	}
	pdf := newDocument(meta, title)

	heading(pdf, "Geometry and material")
	keyValues(pdf, [][2]string{
		{"Height L", fmt.Sprintf("%.0f mm", c.Height)},
		{"Area A", fmt.Sprintf("%.1f mm2", c.Area)},
		{"Ix / Iy", fmt.Sprintf("%.4g / %.4g mm4", c.MoIx, c.MoIy)},
		{"Kx / Ky", fmt.Sprintf("%.2f / %.2f", c.Kx, c.Ky)},
		{"E", fmt.Sprintf("%.0f MPa", c.E)},
		{"fy / gamma_M", fmt.Sprintf("%.0f MPa / %.2f", c.YieldStress, c.GammaM)},
	})

	heading(pdf, "Loads")
	l := c.AxialLoad
	keyValues(pdf, [][2]string{
		{"Dead / Live", fmt.Sprintf("%.0f / %.0f N", l.Dead, l.Live)},
		{"Snow / Wind / Quake", fmt.Sprintf("%.0f / %.0f / %.0f N", l.Snow, l.Wind, l.Quake)},
		{"Factored load NEd", fmt.Sprintf("%.0f N (leading %s)", r.FactoredLoad, r.Leading)},
	})

	heading(pdf, "Flexural buckling")
	header := []string{"Quantity", "Axis x", "Axis y"}
	widths := []float64{60, 50, 50}
	tableHeader(pdf, header, widths)
	for _, row := range [][3]string{
		{"Buckling curve", string(r.X.Curve), string(r.Y.Curve)},
		{"alpha", f4(r.X.Alpha), f4(r.Y.Alpha)},
		{"Radius of gyration (mm)", f4(r.X.I), f4(r.Y.I)},
		{"Ncr (N)", f0(r.X.Ncr), f0(r.Y.Ncr)},
		{"Relative slenderness", f4(r.X.LambdaRel), f4(r.Y.LambdaRel)},
		{"Phi", f4(r.X.Phi), f4(r.Y.Phi)},
		{"chi", f4(r.X.Chi), f4(r.Y.Chi)},
		{"Nb,Rd (N)", f0(r.X.Nb), f0(r.Y.Nb)},
		{"DCR", f4(r.X.DCR), f4(r.Y.DCR)},
	} {
		tableRow(pdf, row[:], widths)
	}
	pdf.Ln(6)

	heading(pdf, "Result")
	pdf.MultiCell(0, 6, r.Message, "", "L", false)

	return pdf.Output(w)
}

// Catalog writes an evaluated catalog, one line per section.
func Catalog(w io.Writer, meta Meta, res *batch.Result) error {
	pdf := newDocument(meta, "Catalog Column Check")
	p := res.Params

	heading(pdf, "Design parameters")
	keyValues(pdf, [][2]string{
		{"Height L", fmt.Sprintf("%.0f mm", p.Height)},
		{"Yield stress fy", fmt.Sprintf("%.0f MPa", p.YieldStress)},
		{"Dead / Live", fmt.Sprintf("%.0f / %.0f N", p.Dead, p.Live)},
		{"Checked axis", string(batch.CheckedAxis)},
	})

	heading(pdf, "Sections")
	header := []string{"Section", catalog.ColWeight, batch.ColFactoredLoad + " (N)", batch.ColAxialResistance + " (N)", batch.ColDCR, ""}
	widths := []float64{35, 20, 40, 45, 25, 15}
	tableHeader(pdf, header, widths)
	for _, row := range res.Table.Rows {
		dcr, ok := row.Value(batch.ColDCR)
		status := "-"
		if ok {
			status = "OK"
			if dcr > 1 {
				status = "NG"
			}
		}
		tableRow(pdf, []string{
			row.Name,
			cell(row, catalog.ColWeight, 1),
			cell(row, batch.ColFactoredLoad, 0),
			cell(row, batch.ColAxialResistance, 0),
			cell(row, batch.ColDCR, 3),
			status,
		}, widths)
	}

	if len(res.Failures) > 0 {
		pdf.Ln(6)
		heading(pdf, "Sections not evaluated")
		for _, f := range res.Failures {
			pdf.MultiCell(0, 5, f.Error(), "", "L", false)
		}
	}

	return pdf.Output(w)
}

func tableHeader(pdf *gofpdf.Fpdf, cols []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range cols {
		pdf.CellFormat(widths[i], 7, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func tableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64) {
	for i, c := range cols {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func cell(r catalog.Row, col string, prec int) string {
	v, ok := r.Value(col)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func f0(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }
func f4(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
