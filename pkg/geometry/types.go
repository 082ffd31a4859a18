// Package geometry provides the pixel-space types used by grain measurements.
package geometry

// Point2D is a sub-pixel position in image coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pixel returns the integer pixel position of the point, truncating toward zero.
func (p Point2D) Pixel() PointInt {
	return PointInt{X: int(p.X), Y: int(p.Y)}
}

// PointInt is a whole-pixel position.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RectInt is an inclusive-exclusive pixel rectangle: X..X+Width-1, Y..Y+Height-1.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PixelRect returns the 1x1 rectangle covering pixel (x, y).
func PixelRect(x, y int) RectInt {
	return RectInt{X: x, Y: y, Width: 1, Height: 1}
}

// Empty reports whether the rectangle covers no pixels.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Extend grows the rectangle to include pixel (x, y).
// An empty rectangle becomes the single pixel.
func (r RectInt) Extend(x, y int) RectInt {
	if r.Empty() {
		return PixelRect(x, y)
	}
	x0, y0 := min(r.X, x), min(r.Y, y)
	x1, y1 := max(r.X+r.Width, x+1), max(r.Y+r.Height, y+1)
	return RectInt{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
