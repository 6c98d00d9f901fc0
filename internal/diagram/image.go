package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/gocol/internal/ec3"
)

// Marker places a checked section on the buckling curve chart
type Marker struct {
	Label     string
	LambdaRel float64
	Chi       float64
}

var curveColors = map[ec3.BucklingCurve]color.Color{
	ec3.CurveA0: color.RGBA{R: 128, G: 0, B: 128, A: 255},
	ec3.CurveA:  color.RGBA{R: 0, G: 128, B: 0, A: 255},
	ec3.CurveB:  color.RGBA{R: 0, G: 0, B: 200, A: 255},
	ec3.CurveC:  color.RGBA{R: 200, G: 0, B: 0, A: 255},
	ec3.CurveD:  color.RGBA{R: 255, G: 140, B: 0, A: 255},
}

// ExportBucklingCurves draws χ against λ̄ for curves b and c, the Euler
// hyperbola, and the given sections.
func ExportBucklingCurves(markers []Marker, filename string) error {
	lambdaMax := 3.0
	for _, m := range markers {
		lambdaMax = max(lambdaMax, m.LambdaRel*1.1)
	}

	p := plot.New()
	p.Title.Text = "Flexural Buckling Reduction Factor"
	p.X.Label.Text = "Relative slenderness λ̄"
	p.Y.Label.Text = "χ"
	p.X.Min, p.X.Max = 0, lambdaMax
	p.Y.Min, p.Y.Max = 0, 1.1
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for _, c := range []ec3.BucklingCurve{ec3.CurveB, ec3.CurveC} {
		lambdas, chis := ReductionCurve(c, lambdaMax, 200)
		pts := make(plotter.XYs, len(lambdas))
		for i := range lambdas {
			pts[i] = plotter.XY{X: lambdas[i], Y: chis[i]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = curveColors[c]
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("curve %s", c), line)
	}

	// Euler: χ = 1/λ̄², clipped to the plot
	var euler plotter.XYs
	for l := 1 / 1.05; l <= lambdaMax; l += 0.02 {
		euler = append(euler, plotter.XY{X: l, Y: 1 / (l * l)})
	}
	eulerLine, err := plotter.NewLine(euler)
	if err != nil {
		return err
	}
	eulerLine.LineStyle.Color = color.Gray{Y: 128}
	eulerLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(eulerLine)
	p.Legend.Add("Euler", eulerLine)

	if len(markers) > 0 {
		pts := make(plotter.XYs, len(markers))
		labels := make([]string, len(markers))
		for i, m := range markers {
			pts[i] = plotter.XY{X: m.LambdaRel, Y: m.Chi}
			labels[i] = m.Label
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = color.Black
		scatter.GlyphStyle.Radius = vg.Points(4)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)

		l, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
		if err != nil {
			return err
		}
		for i := range l.TextStyle {
			l.TextStyle[i].XAlign = draw.XLeft
		}
		p.Add(l)
	}

	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// ExportDCRChart draws one bar per section with a reference line at DCR = 1.
func ExportDCRChart(bars []Bar, filename string) error {
	if len(bars) == 0 {
		return fmt.Errorf("no sections to chart")
	}

	values := make(plotter.Values, len(bars))
	names := make([]string, len(bars))
	for i, b := range bars {
		values[i] = b.DCR
		names[i] = b.Label
	}

	p := plot.New()
	p.Title.Text = "Demand / Capacity Ratio"
	p.Y.Label.Text = "DCR"
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	chart, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	chart.Color = color.RGBA{R: 100, G: 149, B: 237, A: 255}
	chart.LineStyle.Width = vg.Length(0)
	p.Add(chart)
	p.NominalX(names...)

	limit, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: 1},
		{X: float64(len(bars)) - 0.5, Y: 1},
	})
	if err != nil {
		return err
	}
	limit.LineStyle.Width = vg.Points(1.5)
	limit.LineStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	limit.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(limit)

	width := max(6*vg.Inch, vg.Length(len(bars))*0.4*vg.Inch)
	return save(p, width, 5*vg.Inch, filename)
}

// save writes the plot in the format named by the file extension, PNG when
// there is none.
func save(p *plot.Plot, width, height vg.Length, filename string) error {
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
