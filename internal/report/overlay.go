package report

import (
	"fmt"
	"image"

	"semgrain/internal/grain"
	"semgrain/pkg/colorutil"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Overlay marker geometry, in pixels.
const (
	MarkerRadius = 5
	LabelOffsetX = 10
)

// RenderOverlay draws a filled marker at each grain centroid on a color copy
// of img, with the grain's physical area printed to the right of it.
func RenderOverlay(img *image.Gray, grains []grain.Grain) *image.RGBA {
	rgba := colorutil.GrayToRGBA(img)
	dc := gg.NewContextForRGBA(rgba)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorutil.Marker)

	for _, g := range grains {
		// Centroids are truncated to the pixel grid before drawing.
		p := g.Centroid().Pixel()
		x, y := float64(p.X), float64(p.Y)
		dc.DrawCircle(x, y, MarkerRadius)
		dc.Fill()
		dc.DrawString(fmt.Sprintf("%.2f", g.AreaUM2), x+LabelOffsetX, y)
	}
	return rgba
}

// WriteOverlay renders the overlay and saves it as <base>_visualized.jpg.
func WriteOverlay(dir, base string, img *image.Gray, grains []grain.Grain) (string, error) {
	path := OverlayPath(dir, base)
	out := RenderOverlay(img, grains)
	err := writeAtomic(path, func(tmp string) error {
		return gg.SaveJPG(tmp, out, OverlayJPEGQuality)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
