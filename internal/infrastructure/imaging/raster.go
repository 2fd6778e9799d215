// Package imaging implements the deterministic image analysis the
// pipelines run before (and instead of) any vision-model call: quality
// metrics, exposure normalization and structural diffing.
package imaging

import (
	"image"
	"image/color"
	"math"
)

// Gray is an 8-bit grayscale raster held as float64 values in [0, 255],
// row-major. All numeric operations in this package work on it so that
// scores are identical across build flavors.
type Gray struct {
	Width  int
	Height int
	Pix    []float64
}

// NewGray allocates a zeroed raster.
func NewGray(w, h int) *Gray {
	return &Gray{Width: w, Height: h, Pix: make([]float64, w*h)}
}

// At returns the intensity at (x, y). No bounds check; callers iterate
// within the raster.
func (g *Gray) At(x, y int) float64 {
	return g.Pix[y*g.Width+x]
}

// Set stores the intensity at (x, y).
func (g *Gray) Set(x, y int, v float64) {
	g.Pix[y*g.Width+x] = v
}

// FromImage converts a decoded image to Gray using the standard
// luminance weights.
func FromImage(img image.Image) *Gray {
	b := img.Bounds()
	g := NewGray(b.Dx(), b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			g.Pix[i] = float64(c.Y)
			i++
		}
	}
	return g
}

// ResizeNearest scales the raster to w×h with nearest-neighbor
// sampling. Used to force a move-out image onto the move-in grid; the
// distortion is accepted, the alternative is not comparing at all.
func (g *Gray) ResizeNearest(w, h int) *Gray {
	if w == g.Width && h == g.Height {
		return g
	}
	out := NewGray(w, h)
	for y := 0; y < h; y++ {
		sy := y * g.Height / h
		for x := 0; x < w; x++ {
			sx := x * g.Width / w
			out.Set(x, y, g.At(sx, sy))
		}
	}
	return out
}

// EqualizeHist spreads the intensity histogram across the full range so
// that exposure differences between two captures do not dominate the
// structural comparison. A constant image is returned unchanged.
func (g *Gray) EqualizeHist() *Gray {
	var hist [256]int
	for _, v := range g.Pix {
		hist[clampByte(v)]++
	}

	total := len(g.Pix)
	var cdf [256]int
	run := 0
	cdfMin := 0
	for i := 0; i < 256; i++ {
		run += hist[i]
		cdf[i] = run
		if cdfMin == 0 && hist[i] > 0 {
			cdfMin = run
		}
	}
	if total == cdfMin {
		// single intensity level, nothing to equalize
		out := NewGray(g.Width, g.Height)
		copy(out.Pix, g.Pix)
		return out
	}

	var lut [256]float64
	scale := 255.0 / float64(total-cdfMin)
	for i := 0; i < 256; i++ {
		v := float64(cdf[i]-cdfMin) * scale
		lut[i] = math.Round(math.Max(v, 0))
	}

	out := NewGray(g.Width, g.Height)
	for i, v := range g.Pix {
		out.Pix[i] = lut[clampByte(v)]
	}
	return out
}

func clampByte(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return int(v + 0.5)
}
