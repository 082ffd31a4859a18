package grain

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

// twoSquares is a 100x100 dark field with a 20x20 and a 3x3 bright square.
func twoSquares() *image.Gray {
	img := newGray(100, 100, 30)
	fillRect(img, 20, 20, 20, 20, 220)
	fillRect(img, 70, 70, 3, 3, 220)
	return img
}

func TestMeasureTwoSquaresMask(t *testing.T) {
	m := NewMask(100, 100)
	maskRect(m, 20, 20, 20, 20)
	maskRect(m, 70, 70, 3, 3)

	regions, grains := Measure(m, DefaultParams())
	require.Len(t, regions, 2)
	require.Len(t, grains, 1)
	require.Equal(t, 1, grains[0].ID)
	require.Equal(t, 400, grains[0].PixelArea)
	require.InDelta(t, 4.0, grains[0].AreaUM2, 1e-12)
	require.InDelta(t, 29.5, grains[0].CentroidX, 1e-9)
	require.InDelta(t, 29.5, grains[0].CentroidY, 1e-9)
}

func TestPipelineTwoSquares(t *testing.T) {
	p, err := NewPipeline(DefaultParams())
	require.NoError(t, err)

	s, err := p.Run(twoSquares())
	require.NoError(t, err)
	require.Len(t, s.Grains, 1)

	g := s.Grains[0]
	// The 5x5 median trims three pixels at each corner of the square; the
	// 3x3 square does not survive the median at all.
	require.Equal(t, 388, g.PixelArea)
	require.InDelta(t, 3.88, g.AreaUM2, 1e-9)
	require.InDelta(t, 29.5, g.CentroidX, 1e-9)
	require.InDelta(t, 29.5, g.CentroidY, 1e-9)
	require.Equal(t, 1, len(s.Regions))
	require.Equal(t, 388, s.Cleaned.Count())
	require.Equal(t, uint8(0), s.Threshold)
	require.Equal(t, uint8(255), s.Equalized.GrayAt(29, 29).Y)
}

func TestPipelineNoisyGrains(t *testing.T) {
	img := newGray(120, 80, 40)
	origins := [][2]int{{5, 5}, {40, 8}, {75, 30}, {10, 50}, {95, 55}}
	for _, o := range origins {
		fillRect(img, o[0], o[1], 16, 16, 200)
	}
	saltAndPepper(img, 0.02, 7)

	p, err := NewPipeline(DefaultParams())
	require.NoError(t, err)
	res, err := p.Analyze(img)
	require.NoError(t, err)
	require.Len(t, res.Grains, len(origins))
	for i, g := range res.Grains {
		require.Equal(t, i+1, g.ID)
		require.InDelta(t, 256-12, g.PixelArea, 20)
	}
}

func TestPipelineIdempotent(t *testing.T) {
	img := newGray(90, 90, 60)
	fillRect(img, 10, 10, 25, 18, 190)
	fillRect(img, 50, 40, 30, 30, 210)
	saltAndPepper(img, 0.05, 42)
	before := append([]uint8(nil), img.Pix...)

	p, err := NewPipeline(DefaultParams())
	require.NoError(t, err)
	a, err := p.Analyze(img)
	require.NoError(t, err)
	b, err := p.Analyze(img)
	require.NoError(t, err)
	require.Equal(t, a.Grains, b.Grains)
	require.Equal(t, before, img.Pix)
}

func TestPipelineEmptyResult(t *testing.T) {
	p, err := NewPipeline(DefaultParams())
	require.NoError(t, err)
	res, err := p.Analyze(newGray(64, 64, 0))
	require.NoError(t, err)
	require.NotNil(t, res.Grains)
	require.Empty(t, res.Grains)
	require.Equal(t, Summary{}, Summarize(res.Grains))
}

func TestPipelineDarkPolarity(t *testing.T) {
	img := newGray(60, 60, 210)
	fillRect(img, 10, 10, 15, 15, 20)

	bright, err := NewPipeline(DefaultParams())
	require.NoError(t, err)
	res, err := bright.Analyze(img)
	require.NoError(t, err)
	require.Len(t, res.Grains, 1)
	require.Greater(t, res.Grains[0].PixelArea, 3000)

	dark, err := NewPipeline(DefaultParams().WithPolarity(PolarityDark))
	require.NoError(t, err)
	res, err = dark.Analyze(img)
	require.NoError(t, err)
	require.Len(t, res.Grains, 1)
	require.Equal(t, 225-12, res.Grains[0].PixelArea)
}

func TestPipelineInvalidImage(t *testing.T) {
	p, err := NewPipeline(DefaultParams())
	require.NoError(t, err)
	_, err = p.Analyze(nil)
	require.ErrorIs(t, err, ErrInvalidImage)
}

func TestNewAnalyzer(t *testing.T) {
	a, err := NewAnalyzer(DefaultParams())
	require.NoError(t, err)
	res, err := a.Analyze(twoSquares())
	require.NoError(t, err)
	require.NotNil(t, res.Labels)
	require.Equal(t, res.RegionCount+1, res.Labels.Count)

	_, err = NewAnalyzer(DefaultParams().WithPixelSize(0))
	require.ErrorIs(t, err, ErrInvalidParams)
}
