// Package cvgrain runs the grain measurement pipeline through OpenCV.
//
// It implements the same contract as grain.Pipeline with gocv calls:
// MedianBlur, EqualizeHist, an Otsu Threshold, a twice-applied 3x3 opening
// and ConnectedComponentsWithStats. OpenCV is only linked when the binary is
// built with the "opencv" build tag; otherwise NewAnalyzer reports
// ErrUnavailable.
package cvgrain

import (
	"errors"

	"semgrain/internal/grain"
)

// ErrUnavailable is returned when the binary was built without OpenCV.
var ErrUnavailable = errors.New("opencv backend not compiled in (build with -tags opencv)")

// Analyzer is the OpenCV implementation of grain.Analyzer.
type Analyzer struct {
	Params grain.Params
}

var _ grain.Analyzer = (*Analyzer)(nil)
