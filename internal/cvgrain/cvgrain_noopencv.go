//go:build !opencv

package cvgrain

import (
	"image"

	"semgrain/internal/grain"
)

// Available reports whether OpenCV support is compiled in.
func Available() bool { return false }

// NewAnalyzer always fails without the opencv build tag.
func NewAnalyzer(params grain.Params) (*Analyzer, error) {
	return nil, ErrUnavailable
}

// Analyze always fails without the opencv build tag.
func (a *Analyzer) Analyze(img *image.Gray) (*grain.Result, error) {
	return nil, ErrUnavailable
}
