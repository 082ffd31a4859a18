package grain

// Morphology on Mask uses a square all-ones structuring element. Neighbours
// outside the image are ignored: they never erode a pixel and never dilate
// into one. A square element is separable, so each operation runs as a
// horizontal pass followed by a vertical pass.

// Erode keeps a foreground pixel only if every in-image pixel of the
// size x size window around it is foreground.
func Erode(m *Mask, size int) *Mask {
	return morph(m, size, true)
}

// Dilate marks a pixel as foreground if any in-image pixel of the
// size x size window around it is foreground.
func Dilate(m *Mask, size int) *Mask {
	return morph(m, size, false)
}

// Open erodes the mask iterations times and then dilates it iterations times.
// Specks and bridges thinner than the element disappear; surviving regions
// regain their size.
func Open(m *Mask, size, iterations int) *Mask {
	out := m.Clone()
	for i := 0; i < iterations; i++ {
		out = Erode(out, size)
	}
	for i := 0; i < iterations; i++ {
		out = Dilate(out, size)
	}
	return out
}

// Clean applies the fixed opening used by the pipeline.
func Clean(m *Mask) *Mask {
	return Open(m, StructuringElementSize, OpenIterations)
}

func morph(m *Mask, size int, erode bool) *Mask {
	if size <= 1 {
		return m.Clone()
	}
	r := size / 2
	w, h := m.Width, m.Height

	// erode: result is true only when all window pixels are true.
	// dilate: result is true when any window pixel is true.
	pass := func(src *Mask, dx, dy int) *Mask {
		dst := NewMask(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := erode
				for k := -r; k <= r; k++ {
					nx, ny := x+k*dx, y+k*dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					if src.Pix[ny*w+nx] != erode {
						v = !erode
						break
					}
				}
				dst.Pix[y*w+x] = v
			}
		}
		return dst
	}
	return pass(pass(m, 1, 0), 0, 1)
}
