package grain

import (
	"image"
)

// OtsuThreshold picks the global threshold t that maximizes the
// between-class variance of the classes v <= t and v > t.
// A single-valued histogram has no valid split and yields 0.
func OtsuThreshold(img *image.Gray) uint8 {
	hist := Histogram(img)

	var total, weightedSum float64
	for v, n := range hist {
		total += float64(n)
		weightedSum += float64(v * n)
	}

	var (
		best      uint8
		bestSigma float64

		// Pixel count and intensity sum of the dark class (v <= t).
		darkCount float64
		darkSum   float64
	)
	for t := 0; t < 255; t++ {
		darkCount += float64(hist[t])
		darkSum += float64(t * hist[t])
		brightCount := total - darkCount
		if darkCount == 0 || brightCount == 0 {
			continue
		}
		darkMean := darkSum / darkCount
		brightMean := (weightedSum - darkSum) / brightCount
		d := darkMean - brightMean
		sigma := darkCount * brightCount * d * d
		if sigma > bestSigma {
			bestSigma = sigma
			best = uint8(t)
		}
	}
	return best
}

// Binarize splits img at threshold t. With PolarityBright, pixels strictly
// above t are foreground; with PolarityDark, pixels at or below t are.
func Binarize(img *image.Gray, t uint8, polarity Polarity) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	bright := polarity != PolarityDark
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		out := m.Pix[y*m.Width:]
		for x := 0; x < b.Dx(); x++ {
			out[x] = (row[x] > t) == bright
		}
	}
	return m
}

// Segment thresholds a preprocessed image with Otsu's method and returns the
// foreground mask together with the chosen threshold.
func Segment(img *image.Gray, polarity Polarity) (*Mask, uint8) {
	t := OtsuThreshold(img)
	return Binarize(img, t, polarity), t
}
