package grain

// FilterGrains drops regions smaller than params.MinGrainSize pixels and
// converts the survivors to physical units. Label order is preserved.
// The result is never nil.
func FilterGrains(regions []Region, params Params) []Grain {
	grains := make([]Grain, 0, len(regions))
	pixelArea := params.PixelAreaUM2()
	for _, r := range regions {
		if r.PixelArea < params.MinGrainSize {
			continue
		}
		grains = append(grains, Grain{
			ID:        r.Label,
			PixelArea: r.PixelArea,
			AreaUM2:   float64(r.PixelArea) * pixelArea,
			CentroidX: r.Centroid.X,
			CentroidY: r.Centroid.Y,
			Bounds:    r.Bounds,
		})
	}
	return grains
}

// Measure labels a cleaned mask and returns the raw regions together with
// the grains that pass the size filter.
func Measure(m *Mask, params Params) ([]Region, []Grain) {
	regions := Regions(Label(m))
	return regions, FilterGrains(regions, params)
}
