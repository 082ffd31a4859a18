// Package grain segments SEM micrographs of sintered material and measures
// the individual grains.
//
// The pipeline is fixed: median filter, global histogram equalization, Otsu
// threshold, a 3x3 opening applied twice, 8-connected labeling, then a
// minimum-size filter and conversion to physical units.
package grain

import (
	"errors"
	"image"

	"semgrain/pkg/geometry"
)

var (
	// ErrInvalidImage is returned for nil or zero-area input images.
	ErrInvalidImage = errors.New("invalid image")

	// ErrInvalidParams is returned when Params fail validation.
	ErrInvalidParams = errors.New("invalid parameters")
)

// Mask is a binary image. True marks foreground (grain) pixels.
type Mask struct {
	Width  int
	Height int
	Pix    []bool // row-major, len = Width*Height
}

// NewMask allocates an all-background mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]bool, width*height)}
}

// At reports whether (x, y) is foreground. Out-of-range positions are background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set marks (x, y) as foreground or background.
func (m *Mask) Set(x, y int, v bool) {
	m.Pix[y*m.Width+x] = v
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the mask.
func (m *Mask) Clone() *Mask {
	c := NewMask(m.Width, m.Height)
	copy(c.Pix, m.Pix)
	return c
}

// ToGray renders the mask as a two-level 0/255 image.
func (m *Mask) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v {
			img.Pix[(i/m.Width)*img.Stride+i%m.Width] = 255
		}
	}
	return img
}

// LabelMap assigns every pixel a component label; 0 is background.
type LabelMap struct {
	Width  int
	Height int
	Labels []int32 // row-major, len = Width*Height

	// Count is the number of labels including background, so foreground
	// labels are exactly 1..Count-1.
	Count int
}

// At returns the label at (x, y).
func (lm *LabelMap) At(x, y int) int {
	return int(lm.Labels[y*lm.Width+x])
}

// Region holds the raw statistics of one labeled component.
type Region struct {
	Label     int
	PixelArea int
	Centroid  geometry.Point2D
	Bounds    geometry.RectInt
}

// Grain is a region that passed the minimum-size filter, with its area in
// physical units.
type Grain struct {
	ID        int              `json:"grain_id"`
	PixelArea int              `json:"pixel_area"`
	AreaUM2   float64          `json:"actual_area_um2"`
	CentroidX float64          `json:"centroid_x"`
	CentroidY float64          `json:"centroid_y"`
	Bounds    geometry.RectInt `json:"-"`
}

// Centroid returns the grain centroid as a point.
func (g Grain) Centroid() geometry.Point2D {
	return geometry.Point2D{X: g.CentroidX, Y: g.CentroidY}
}

// Result is the outcome of analyzing one micrograph.
type Result struct {
	// Grains are the filtered regions, in ascending label order.
	Grains []Grain

	// Equalized is the preprocessed image, used for visualization.
	Equalized *image.Gray

	// Threshold is the global threshold chosen by Otsu's method.
	Threshold uint8

	// Labels is the component label map, when the backend exposes it.
	Labels *LabelMap

	// RegionCount is the number of labeled regions before filtering.
	RegionCount int

	Params Params
}

// Areas returns the physical areas of the grains, in order.
func (r *Result) Areas() []float64 {
	areas := make([]float64, len(r.Grains))
	for i, g := range r.Grains {
		areas[i] = g.AreaUM2
	}
	return areas
}

// Analyzer runs the full measurement pipeline on one grayscale image.
type Analyzer interface {
	Analyze(img *image.Gray) (*Result, error)
}
