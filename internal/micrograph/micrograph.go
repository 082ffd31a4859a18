// Package micrograph loads SEM images from disk as single-channel 8-bit data.
package micrograph

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	// ErrInvalidImage is the parent of every load failure.
	ErrInvalidImage = errors.New("invalid image")

	// ErrDecode means the file could not be read or decoded.
	ErrDecode = fmt.Errorf("%w: cannot decode", ErrInvalidImage)

	// ErrEmptyImage means the file decoded to an image with no pixels.
	ErrEmptyImage = fmt.Errorf("%w: zero area", ErrInvalidImage)
)

// Micrograph is one decoded SEM image.
type Micrograph struct {
	Path   string      // Source file path
	Format string      // Container format, from the file extension
	Gray   *image.Gray // Intensity data, origin at (0, 0)
}

// Load decodes the image at path and converts it to grayscale.
// Color images are reduced with the ITU-R BT.601 luma weights.
func Load(path string) (*Micrograph, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDecode, filepath.Base(path), err)
	}
	gray, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &Micrograph{
		Path:   path,
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Gray:   gray,
	}, nil
}

// FromImage converts any decoded image to an *image.Gray with origin (0, 0).
func FromImage(img image.Image) (*image.Gray, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrEmptyImage)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w (%dx%d)", ErrEmptyImage, b.Dx(), b.Dy())
	}
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g, nil
	}
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray, nil
}

// Width returns the image width in pixels.
func (m *Micrograph) Width() int {
	return m.Gray.Bounds().Dx()
}

// Height returns the image height in pixels.
func (m *Micrograph) Height() int {
	return m.Gray.Bounds().Dy()
}

// Name returns the file name including extension.
func (m *Micrograph) Name() string {
	return filepath.Base(m.Path)
}

// BaseName returns the file name of path without directory or extension.
// Output files for an image are named from it.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SupportedFormats returns the list of accepted file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}
}

// IsSupportedFormat checks the extension of path, ignoring case.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
