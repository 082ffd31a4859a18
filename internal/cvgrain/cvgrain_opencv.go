//go:build opencv

package cvgrain

import (
	"fmt"
	"image"

	"semgrain/internal/grain"
	"semgrain/pkg/geometry"

	"gocv.io/x/gocv"
)

// Available reports whether OpenCV support is compiled in.
func Available() bool { return true }

// NewAnalyzer validates params and returns an OpenCV-backed analyzer.
func NewAnalyzer(params grain.Params) (*Analyzer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{Params: params}, nil
}

// Analyze runs the pipeline on img using OpenCV.
func (a *Analyzer) Analyze(img *image.Gray) (*grain.Result, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", grain.ErrInvalidImage)
	}

	src, err := grayToMat(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	// Preprocess: median then global histogram equalization
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.MedianBlur(src, &blurred, grain.MedianWindow)

	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(blurred, &equalized)

	// Otsu threshold; polarity selects which class becomes 255
	thresholdType := gocv.ThresholdBinary
	if a.Params.Polarity == grain.PolarityDark {
		thresholdType = gocv.ThresholdBinaryInv
	}
	binary := gocv.NewMat()
	defer binary.Close()
	t := gocv.Threshold(equalized, &binary, 0, 255, thresholdType|gocv.ThresholdOtsu)

	// Opening: erode OpenIterations times, then dilate as many times
	kernel := gocv.GetStructuringElement(gocv.MorphRect,
		image.Pt(grain.StructuringElementSize, grain.StructuringElementSize))
	defer kernel.Close()

	cleaned := binary.Clone()
	defer cleaned.Close()
	for i := 0; i < grain.OpenIterations; i++ {
		gocv.Erode(cleaned, &cleaned, kernel)
	}
	for i := 0; i < grain.OpenIterations; i++ {
		gocv.Dilate(cleaned, &cleaned, kernel)
	}

	// 8-connected components
	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()
	numLabels := gocv.ConnectedComponentsWithStats(cleaned, &labels, &stats, &centroids)

	regions := make([]grain.Region, 0, max(numLabels-1, 0))
	for i := 1; i < numLabels; i++ {
		regions = append(regions, grain.Region{
			Label:     i,
			PixelArea: int(stats.GetIntAt(i, int(gocv.CC_STAT_AREA))),
			Centroid: geometry.Point2D{
				X: centroids.GetDoubleAt(i, 0),
				Y: centroids.GetDoubleAt(i, 1),
			},
			Bounds: geometry.RectInt{
				X:      int(stats.GetIntAt(i, int(gocv.CC_STAT_LEFT))),
				Y:      int(stats.GetIntAt(i, int(gocv.CC_STAT_TOP))),
				Width:  int(stats.GetIntAt(i, int(gocv.CC_STAT_WIDTH))),
				Height: int(stats.GetIntAt(i, int(gocv.CC_STAT_HEIGHT))),
			},
		})
	}

	eq, err := matToGray(equalized)
	if err != nil {
		return nil, fmt.Errorf("failed to read equalized image: %w", err)
	}

	return &grain.Result{
		Grains:      grain.FilterGrains(regions, a.Params),
		Equalized:   eq,
		Threshold:   uint8(t),
		RegionCount: len(regions),
		Params:      a.Params,
	}, nil
}

// grayToMat copies an image.Gray into a single-channel 8-bit Mat.
func grayToMat(img *image.Gray) (gocv.Mat, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(pix[y*w:(y+1)*w], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	m, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, pix)
	if err != nil {
		return gocv.Mat{}, err
	}
	// Detach from the Go slice before handing the Mat to OpenCV.
	defer m.Close()
	return m.Clone(), nil
}

// matToGray copies a single-channel 8-bit Mat into an image.Gray.
func matToGray(m gocv.Mat) (*image.Gray, error) {
	if m.Channels() != 1 {
		return nil, fmt.Errorf("expected 1 channel, got %d", m.Channels())
	}
	w, h := m.Cols(), m.Rows()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = m.GetUCharAt(y, x)
		}
	}
	return img, nil
}
