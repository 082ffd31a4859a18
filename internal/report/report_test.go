package report

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"semgrain/internal/grain"

	"github.com/stretchr/testify/require"
)

func sampleGrains() []grain.Grain {
	return []grain.Grain{
		{ID: 1, PixelArea: 400, AreaUM2: 4, CentroidX: 29.5, CentroidY: 29.5},
		{ID: 3, PixelArea: 60, AreaUM2: 0.6, CentroidX: 70, CentroidY: 12.25},
	}
}

func requireNoTemp(t *testing.T, dir string) {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestWriteGrains(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteGrains(dir, "sample", sampleGrains())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "sample_results.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"grain_id": 1, "pixel_area": 400, "actual_area_um2": 4, "centroid_x": 29.5, "centroid_y": 29.5},
		{"grain_id": 3, "pixel_area": 60, "actual_area_um2": 0.6, "centroid_x": 70, "centroid_y": 12.25}
	]`, string(data))
	require.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"grain_id\""))

	back, err := ReadGrains(path)
	require.NoError(t, err)
	require.Len(t, back, 2)
	require.Equal(t, 3, back[1].ID)
	requireNoTemp(t, dir)
}

func TestWriteGrainsEmpty(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteGrains(dir, "blank", nil)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(data))
}

func TestWriteFailsForMissingDir(t *testing.T) {
	_, err := WriteGrains(filepath.Join(t.TempDir(), "nope"), "x", nil)
	require.Error(t, err)
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSummary(dir, map[string]grain.Summary{
		"a.png": {GrainCount: 1, MeanArea: 4, MedianArea: 4, MinArea: 4, MaxArea: 4},
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, SummaryFileName), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"a.png": {"grain_count": 1, "mean_area": 4, "median_area": 4, "min_area": 4, "max_area": 4}}`, string(data))
}

func TestRenderOverlay(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 60))
	for i := range img.Pix {
		img.Pix[i] = 40
	}
	grains := []grain.Grain{{ID: 1, AreaUM2: 4, CentroidX: 20.7, CentroidY: 30.2}}
	out := RenderOverlay(img, grains)
	require.Equal(t, img.Bounds(), out.Bounds())

	// Marker center is red, far corner keeps the gray value.
	c := out.RGBAAt(20, 30)
	require.Equal(t, uint8(255), c.R)
	require.Less(t, c.G, uint8(100))
	require.Equal(t, color.RGBA{R: 40, G: 40, B: 40, A: 255}, out.RGBAAt(99, 59))

	// Some label pixels land to the right of the marker.
	red := 0
	for y := 15; y < 35; y++ {
		for x := 30; x < 70; x++ {
			if p := out.RGBAAt(x, y); p.R > 150 && p.G < 100 {
				red++
			}
		}
	}
	require.Greater(t, red, 0)

	// Input is untouched.
	require.Equal(t, uint8(40), img.GrayAt(20, 30).Y)
}

func TestWriteOverlay(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 32, 24))
	path, err := WriteOverlay(dir, "sample", img, sampleGrains()[:1])
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "sample_visualized.jpg"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := jpeg.Decode(f)
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), decoded.Bounds())
	requireNoTemp(t, dir)
}

func TestBins(t *testing.T) {
	areas := []float64{1, 2, 2, 3, 10}
	dividers, counts := Bins(areas, 9)
	require.Len(t, dividers, 10)
	require.Len(t, counts, 9)
	require.Equal(t, 1.0, dividers[0])
	require.Equal(t, 10.0, dividers[9])
	require.Equal(t, []float64{1, 2, 1, 0, 0, 0, 0, 0, 1}, counts)

	sum := 0.0
	for _, c := range counts {
		sum += c
	}
	require.Equal(t, float64(len(areas)), sum)
}

func TestBinsDegenerate(t *testing.T) {
	dividers, counts := Bins([]float64{5, 5, 5}, 4)
	require.Equal(t, 4.5, dividers[0])
	require.Equal(t, 5.5, dividers[4])
	require.Equal(t, []float64{0, 0, 3, 0}, counts)

	_, counts = Bins(nil, HistogramBins)
	require.Len(t, counts, HistogramBins)
	for _, c := range counts {
		require.Zero(t, c)
	}
}

func TestWriteHistogram(t *testing.T) {
	dir := t.TempDir()
	for name, areas := range map[string][]float64{
		"full.png":  {0.5, 0.6, 1.2, 4, 4, 3.3},
		"empty.png": nil,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteHistogram(areas, path))
		f, err := os.Open(path)
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)
		require.Equal(t, image.Rect(0, 0, HistogramWidth, HistogramHeight), img.Bounds())
	}
	requireNoTemp(t, dir)
}
