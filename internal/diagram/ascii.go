package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/alexiusacademia/gocol/internal/column"
	"github.com/alexiusacademia/gocol/internal/ec3"
)

// Bar is one labelled demand/capacity ratio
type Bar struct {
	Label string
	DCR   float64
}

// ReductionCurve samples χ over 0 <= λ <= lambdaMax for a buckling curve.
// Points where χ has no real value are left out.
func ReductionCurve(curve ec3.BucklingCurve, lambdaMax float64, samples int) (lambdas, chis []float64) {
	if samples < 2 {
		samples = 2
	}
	step := lambdaMax / float64(samples-1)
	for i := range samples {
		l := float64(i) * step
		chi, _, err := column.ReductionFactor(curve.Alpha(), l)
		if err != nil {
			continue
		}
		lambdas = append(lambdas, l)
		chis = append(chis, min(chi, 1))
	}
	return lambdas, chis
}

// DrawReductionCurves plots χ against the relative slenderness for the
// given curves.
func DrawReductionCurves(lambdaMax float64, curves ...ec3.BucklingCurve) string {
	if len(curves) == 0 {
		curves = []ec3.BucklingCurve{ec3.CurveB, ec3.CurveC}
	}

	series := make([][]float64, 0, len(curves))
	legends := make([]string, 0, len(curves))
	for _, c := range curves {
		_, chis := ReductionCurve(c, lambdaMax, 60)
		series = append(series, chis)
		legends = append(legends, fmt.Sprintf("curve %s (α = %.2f)", c, c.Alpha()))
	}

	colors := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow, asciigraph.Magenta}
	graph := asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(60),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors[:min(len(colors), len(series))]...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption(fmt.Sprintf("χ against λ̄ from 0 to %.1f", lambdaMax)),
	)

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  REDUCTION FACTOR χ\n")
	sb.WriteString("  ──────────────────\n\n")
	sb.WriteString(graph)
	sb.WriteString("\n")
	return sb.String()
}

// DrawDCRBars draws one horizontal bar per ratio. The │ column marks DCR = 1.
func DrawDCRBars(bars []Bar, width int) string {
	if width < 10 {
		width = 10
	}

	top := 1.0
	labelWidth := 0
	for _, b := range bars {
		if !math.IsNaN(b.DCR) && !math.IsInf(b.DCR, 0) {
			top = math.Max(top, b.DCR)
		}
		labelWidth = max(labelWidth, len(b.Label))
	}
	scale := float64(width) / top
	limit := int(math.Round(scale))

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  DEMAND / CAPACITY\n")
	sb.WriteString("  ─────────────────\n\n")

	for _, b := range bars {
		n := 0
		if b.DCR > 0 && !math.IsInf(b.DCR, 0) {
			n = int(math.Round(b.DCR * scale))
		}
		cells := []rune(strings.Repeat("█", n) + strings.Repeat(" ", max(0, limit+1-n)))
		if limit < len(cells) && n <= limit {
			cells[limit] = '│'
		}
		mark := "✓"
		if !(b.DCR <= 1) {
			mark = "✗"
		}
		fmt.Fprintf(&sb, "  %-*s %s %.3f %s\n", labelWidth, b.Label, strings.TrimRight(string(cells), " "), b.DCR, mark)
	}
	fmt.Fprintf(&sb, "\n  %-*s %s└ DCR = 1.0\n", labelWidth, "", strings.Repeat(" ", limit))
	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	fmt.Fprintf(&sb, "  ╔%s╗\n", border)
	fmt.Fprintf(&sb, "  ║  %-*s  ║\n", maxLen-4, title)
	fmt.Fprintf(&sb, "  ╠%s╣\n", border)
	for _, line := range lines {
		fmt.Fprintf(&sb, "  ║  %-*s  ║\n", maxLen-4, line)
	}
	fmt.Fprintf(&sb, "  ╚%s╝\n", border)

	return sb.String()
}
