package grain

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the physical grain areas of one image, in µm².
type Summary struct {
	GrainCount int     `json:"grain_count"`
	MeanArea   float64 `json:"mean_area"`
	MedianArea float64 `json:"median_area"`
	MinArea    float64 `json:"min_area"`
	MaxArea    float64 `json:"max_area"`
}

// Summarize computes count, mean, median, min and max of the grain areas.
// With no grains every statistic is zero.
func Summarize(grains []Grain) Summary {
	if len(grains) == 0 {
		return Summary{}
	}
	areas := make([]float64, len(grains))
	for i, g := range grains {
		areas[i] = g.AreaUM2
	}
	sort.Float64s(areas)
	return Summary{
		GrainCount: len(areas),
		MeanArea:   stat.Mean(areas, nil),
		MedianArea: median(areas),
		MinArea:    floats.Min(areas),
		MaxArea:    floats.Max(areas),
	}
}

// median of sorted, averaging the middle pair for even lengths.
// stat.Quantile with the Empirical kind would return the lower of the pair.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
