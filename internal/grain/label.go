package grain

import (
	"semgrain/pkg/geometry"
)

// Label assigns each 8-connected foreground component of m a distinct
// positive label. Labels are contiguous from 1 and ordered by the raster
// position (top-to-bottom, left-to-right) of each component's first pixel.
//
// The first pass gives every foreground pixel a provisional label taken from
// its already-visited neighbours (W, NW, N, NE) and records equivalences in a
// union-find forest. The second pass replaces provisional labels with their
// final, compacted label.
func Label(m *Mask) *LabelMap {
	w, h := m.Width, m.Height
	lm := &LabelMap{Width: w, Height: h, Labels: make([]int32, w*h), Count: 1}

	// parent[0] is unused so provisional labels can index it directly.
	parent := []int32{0}
	find := func(a int32) int32 {
		for parent[a] != a {
			parent[a] = parent[parent[a]]
			a = parent[a]
		}
		return a
	}
	union := func(a, b int32) int32 {
		ra, rb := find(a), find(b)
		if ra == rb {
			return ra
		}
		if ra < rb {
			parent[rb] = ra
			return ra
		}
		parent[ra] = rb
		return rb
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !m.Pix[i] {
				continue
			}
			var cur int32
			neighbour := func(nx, ny int) {
				if nx < 0 || ny < 0 || nx >= w {
					return
				}
				n := lm.Labels[ny*w+nx]
				if n == 0 {
					return
				}
				if cur == 0 {
					cur = find(n)
				} else {
					cur = union(cur, n)
				}
			}
			neighbour(x-1, y)
			neighbour(x-1, y-1)
			neighbour(x, y-1)
			neighbour(x+1, y-1)
			if cur == 0 {
				cur = int32(len(parent))
				parent = append(parent, cur)
			}
			lm.Labels[i] = cur
		}
	}

	// Compact roots into 1..n in order of first appearance.
	final := make([]int32, len(parent))
	next := int32(1)
	for i, l := range lm.Labels {
		if l == 0 {
			continue
		}
		root := find(l)
		if final[root] == 0 {
			final[root] = next
			next++
		}
		lm.Labels[i] = final[root]
	}
	lm.Count = int(next)
	return lm
}

// Regions computes pixel area, centroid and bounding box for every
// foreground label, in ascending label order. Background is excluded.
func Regions(lm *LabelMap) []Region {
	n := lm.Count - 1
	if n <= 0 {
		return []Region{}
	}
	type acc struct {
		count      int
		sumX, sumY int64
		bounds     geometry.RectInt
	}
	accs := make([]acc, n)
	for y := 0; y < lm.Height; y++ {
		row := lm.Labels[y*lm.Width : (y+1)*lm.Width]
		for x, l := range row {
			if l == 0 {
				continue
			}
			a := &accs[l-1]
			a.count++
			a.sumX += int64(x)
			a.sumY += int64(y)
			a.bounds = a.bounds.Extend(x, y)
		}
	}

	regions := make([]Region, n)
	for i, a := range accs {
		regions[i] = Region{
			Label:     i + 1,
			PixelArea: a.count,
			Bounds:    a.bounds,
		}
		if a.count > 0 {
			regions[i].Centroid = geometry.Point2D{
				X: float64(a.sumX) / float64(a.count),
				Y: float64(a.sumY) / float64(a.count),
			}
		}
	}
	return regions
}
