package grain

import (
	"fmt"
	"math"
	"strings"
)

// Fixed pipeline constants, shared by every backend.
const (
	// MedianWindow is the side of the square median-filter neighbourhood.
	MedianWindow = 5

	// StructuringElementSize is the side of the all-ones square element used
	// by the opening.
	StructuringElementSize = 3

	// OpenIterations is the number of erosions, and then dilations, applied.
	OpenIterations = 2
)

// Polarity selects which side of the global threshold is grain material.
type Polarity int

const (
	// PolarityBright marks pixels above the threshold as grain. After
	// equalization, SEM grains image brighter than the intergranular phase.
	PolarityBright Polarity = iota
	// PolarityDark marks pixels at or below the threshold as grain.
	PolarityDark
)

func (p Polarity) String() string {
	switch p {
	case PolarityBright:
		return "bright"
	case PolarityDark:
		return "dark"
	default:
		return "unknown"
	}
}

// ParsePolarity parses "bright" or "dark" (case-insensitive).
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bright", "":
		return PolarityBright, nil
	case "dark":
		return PolarityDark, nil
	default:
		return PolarityBright, fmt.Errorf("%w: unknown polarity %q (want bright or dark)", ErrInvalidParams, s)
	}
}

// Params holds the per-run measurement parameters.
type Params struct {
	// PixelSize is the physical edge length of one pixel, in µm.
	PixelSize float64

	// MinGrainSize is the smallest pixel area kept as a grain.
	MinGrainSize int

	// Polarity decides which threshold class is foreground.
	Polarity Polarity
}

// DefaultParams returns the default measurement parameters.
func DefaultParams() Params {
	return Params{
		PixelSize:    0.1,
		MinGrainSize: 50,
		Polarity:     PolarityBright,
	}
}

// WithPixelSize returns a copy of params with the given pixel size (µm/pixel).
func (p Params) WithPixelSize(umPerPixel float64) Params {
	p.PixelSize = umPerPixel
	return p
}

// WithMinGrainSize returns a copy of params with the given minimum grain area in pixels.
func (p Params) WithMinGrainSize(pixels int) Params {
	p.MinGrainSize = pixels
	return p
}

// WithPolarity returns a copy of params with the given foreground polarity.
func (p Params) WithPolarity(polarity Polarity) Params {
	p.Polarity = polarity
	return p
}

// Validate checks that the parameters describe a usable run.
func (p Params) Validate() error {
	if p.PixelSize <= 0 || math.IsNaN(p.PixelSize) || math.IsInf(p.PixelSize, 0) {
		return fmt.Errorf("%w: pixel size must be a positive number, got %v", ErrInvalidParams, p.PixelSize)
	}
	if p.MinGrainSize <= 0 {
		return fmt.Errorf("%w: min grain size must be positive, got %d", ErrInvalidParams, p.MinGrainSize)
	}
	if p.Polarity != PolarityBright && p.Polarity != PolarityDark {
		return fmt.Errorf("%w: unknown polarity %d", ErrInvalidParams, int(p.Polarity))
	}
	return nil
}

// PixelAreaUM2 is the physical area of a single pixel, in µm².
func (p Params) PixelAreaUM2() float64 {
	return p.PixelSize * p.PixelSize
}
