// Package colorutil provides the colors and conversions used when rendering
// grain overlays and charts.
package colorutil

import (
	"image"
	"image/color"
	"image/draw"
)

// Overlay colors.
var (
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red       = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Blue      = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	LightGray = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// Marker is the color of grain centroid markers and their area labels.
var Marker = Red

// WithAlpha returns c with its alpha replaced, premultiplying the channels.
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(255 * alpha),
	}
}

// GrayToRGBA expands a single-channel image into an RGBA image with equal
// channels, preserving bounds.
func GrayToRGBA(src *image.Gray) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}
