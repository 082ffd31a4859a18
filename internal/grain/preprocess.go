package grain

import (
	"fmt"
	"image"
	"math"
)

// Preprocess denoises img with a MedianWindow median filter and then
// equalizes its histogram. The input is not modified.
func Preprocess(img *image.Gray) (*image.Gray, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	return EqualizeHistogram(MedianFilter(img, MedianWindow)), nil
}

func checkImage(img *image.Gray) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("%w: zero area (%dx%d)", ErrInvalidImage, img.Bounds().Dx(), img.Bounds().Dy())
	}
	return nil
}

// MedianFilter replaces each pixel with the median of the window x window
// neighbourhood around it. Borders are replicated. An even window is rounded
// up to the next odd size. The result always has its origin at (0, 0).
func MedianFilter(src *image.Gray, window int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if window <= 1 {
		copyGray(dst, src)
		return dst
	}
	if window%2 == 0 {
		window++
	}
	r := window / 2
	rank := window * window / 2

	at := func(x, y int) uint8 {
		x = clampInt(x, 0, w-1)
		y = clampInt(y, 0, h-1)
		return src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)]
	}

	// Sliding histogram along each row: drop the column leaving the window,
	// add the one entering it.
	var hist [256]int
	for y := 0; y < h; y++ {
		hist = [256]int{}
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				hist[at(dx, y+dy)]++
			}
		}
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			if x > 0 {
				for dy := -r; dy <= r; dy++ {
					hist[at(x-1-r, y+dy)]--
					hist[at(x+r, y+dy)]++
				}
			}
			row[x] = histogramRank(&hist, rank)
		}
	}
	return dst
}

// histogramRank returns the value at 0-based position rank in the sorted
// multiset described by hist.
func histogramRank(hist *[256]int, rank int) uint8 {
	cum := 0
	for v := 0; v < 256; v++ {
		cum += hist[v]
		if cum > rank {
			return uint8(v)
		}
	}
	return 255
}

// EqualizeHistogram remaps intensities so the cumulative histogram is close
// to linear over 0..255. The darkest occupied level maps to 0. An image with
// a single intensity is returned unchanged.
func EqualizeHistogram(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	hist := Histogram(src)
	total := b.Dx() * b.Dy()

	lowest := 0
	for lowest < 255 && hist[lowest] == 0 {
		lowest++
	}
	if total == 0 || hist[lowest] == total {
		copyGray(dst, src)
		return dst
	}

	var lut [256]uint8
	scale := 255.0 / float64(total-hist[lowest])
	sum := 0
	for i := lowest + 1; i < 256; i++ {
		sum += hist[i]
		lut[i] = saturate(math.RoundToEven(float64(sum) * scale))
	}

	for y := 0; y < b.Dy(); y++ {
		srow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		drow := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			drow[x] = lut[srow[x]]
		}
	}
	return dst
}

// Histogram counts the pixels at each intensity.
func Histogram(img *image.Gray) [256]int {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			hist[row[x]]++
		}
	}
	return hist
}

func copyGray(dst, src *image.Gray) {
	b := src.Bounds()
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
	}
}

func saturate(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
