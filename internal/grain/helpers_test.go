package grain

import (
	"image"
	"image/color"
	"math/rand"
)

func newGray(w, h int, bg uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = bg
	}
	return img
}

func fillRect(img *image.Gray, x0, y0, w, h int, v uint8) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

func maskRect(m *Mask, x0, y0, w, h int) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			m.Set(x, y, true)
		}
	}
}

// saltAndPepper flips a fraction of pixels to 0 or 255.
func saltAndPepper(img *image.Gray, fraction float64, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range img.Pix {
		if rng.Float64() < fraction {
			if rng.Intn(2) == 0 {
				img.Pix[i] = 0
			} else {
				img.Pix[i] = 255
			}
		}
	}
}

func randomMask(w, h int, density float64, seed int64) *Mask {
	rng := rand.New(rand.NewSource(seed))
	m := NewMask(w, h)
	for i := range m.Pix {
		m.Pix[i] = rng.Float64() < density
	}
	return m
}

// floodCount counts 8-connected components with a plain BFS, as an
// independent reference for Label.
func floodCount(m *Mask) int {
	seen := make([]bool, len(m.Pix))
	n := 0
	for start, fg := range m.Pix {
		if !fg || seen[start] {
			continue
		}
		n++
		seen[start] = true
		queue := []int{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			cx, cy := cur%m.Width, cur/m.Width
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := cx+dx, cy+dy
					if !m.At(nx, ny) {
						continue
					}
					ni := ny*m.Width + nx
					if !seen[ni] {
						seen[ni] = true
						queue = append(queue, ni)
					}
				}
			}
		}
	}
	return n
}
