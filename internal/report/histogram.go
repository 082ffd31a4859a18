package report

import (
	"fmt"
	"math"
	"sort"

	"semgrain/pkg/colorutil"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram chart layout.
const (
	HistogramBins   = 20
	HistogramWidth  = 1000
	HistogramHeight = 600

	chartMarginLeft   = 70
	chartMarginRight  = 30
	chartMarginTop    = 50
	chartMarginBottom = 60
	chartGridLines    = 5
)

// Bins counts areas into n equal-width bins spanning [min, max]. The last
// bin is closed on the right. When every area is equal the range is widened
// to [v-0.5, v+0.5]. It returns n+1 dividers and n counts.
func Bins(areas []float64, n int) (dividers, counts []float64) {
	if n < 1 {
		n = 1
	}
	dividers = make([]float64, n+1)
	if len(areas) == 0 {
		floats.Span(dividers, 0, 1)
		return dividers, make([]float64, n)
	}

	sorted := append([]float64(nil), areas...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	floats.Span(dividers, lo, hi)

	// stat.Histogram bins are half-open; nudge the last edge so max lands
	// in the final bin.
	edges := append([]float64(nil), dividers...)
	edges[n] = math.Nextafter(hi, math.Inf(1))
	counts = stat.Histogram(nil, edges, sorted, nil)
	return dividers, counts
}

// WriteHistogram renders a bar chart of the area distribution to path as PNG.
// An empty area list produces axes and labels with no bars.
func WriteHistogram(areas []float64, path string) error {
	dividers, counts := Bins(areas, HistogramBins)
	dc := renderHistogram(dividers, counts, len(areas) > 0)
	return writeAtomic(path, func(tmp string) error {
		return dc.SavePNG(tmp)
	})
}

func renderHistogram(dividers, counts []float64, hasData bool) *gg.Context {
	dc := gg.NewContext(HistogramWidth, HistogramHeight)
	dc.SetColor(colorutil.White)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	left, top := float64(chartMarginLeft), float64(chartMarginTop)
	right := float64(HistogramWidth - chartMarginRight)
	bottom := float64(HistogramHeight - chartMarginBottom)
	plotW, plotH := right-left, bottom-top

	maxCount := 1.0
	if hasData {
		maxCount = math.Max(floats.Max(counts), 1)
	}
	yMax := math.Ceil(maxCount)

	// Dashed grid
	dc.SetColor(colorutil.LightGray)
	dc.SetLineWidth(1)
	dc.SetDash(4, 4)
	for i := 0; i <= chartGridLines; i++ {
		y := bottom - plotH*float64(i)/chartGridLines
		dc.DrawLine(left, y, right, y)
		x := left + plotW*float64(i)/chartGridLines
		dc.DrawLine(x, top, x, bottom)
	}
	dc.Stroke()
	dc.SetDash()

	// Bars
	if hasData {
		n := len(counts)
		barW := plotW / float64(n)
		dc.SetColor(colorutil.WithAlpha(colorutil.Blue, 0.7))
		for i, c := range counts {
			if c == 0 {
				continue
			}
			h := plotH * c / yMax
			dc.DrawRectangle(left+float64(i)*barW, bottom-h, barW, h)
		}
		dc.Fill()
	}

	// Axes and tick labels
	dc.SetColor(colorutil.Black)
	dc.SetLineWidth(1.5)
	dc.DrawLine(left, bottom, right, bottom)
	dc.DrawLine(left, top, left, bottom)
	dc.Stroke()

	lo, hi := dividers[0], dividers[len(dividers)-1]
	for i := 0; i <= chartGridLines; i++ {
		frac := float64(i) / chartGridLines
		xv := lo + (hi-lo)*frac
		dc.DrawStringAnchored(fmt.Sprintf("%.2f", xv), left+plotW*frac, bottom+14, 0.5, 0.5)
		yv := yMax * frac
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", yv), left-8, bottom-plotH*frac, 1, 0.5)
	}

	dc.DrawStringAnchored("Grain area distribution", HistogramWidth/2, top/2, 0.5, 0.5)
	dc.DrawStringAnchored("Area (um^2)", left+plotW/2, bottom+40, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(-math.Pi/2, 18, top+plotH/2)
	dc.DrawStringAnchored("Grain count", 18, top+plotH/2, 0.5, 0.5)
	dc.Pop()
	return dc
}
