package imaging

import "math"

// LaplacianVariance is the blur proxy: the variance of the 4-neighbor
// Laplacian response over interior pixels. Low variance means few
// edges, i.e. a blurry (or featureless) image.
func LaplacianVariance(g *Gray) float64 {
	if g.Width < 3 || g.Height < 3 {
		return 0
	}

	n := (g.Width - 2) * (g.Height - 2)
	responses := make([]float64, 0, n)
	sum := 0.0
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			r := g.At(x-1, y) + g.At(x+1, y) + g.At(x, y-1) + g.At(x, y+1) - 4*g.At(x, y)
			responses = append(responses, r)
			sum += r
		}
	}

	mean := sum / float64(n)
	variance := 0.0
	for _, r := range responses {
		d := r - mean
		variance += d * d
	}
	return variance / float64(n)
}

// MeanIntensity is the darkness proxy: mean gray level in [0, 255].
func MeanIntensity(g *Gray) float64 {
	if len(g.Pix) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range g.Pix {
		sum += v
	}
	return sum / float64(len(g.Pix))
}

// TenengradSharpness is the sharpness proxy: mean Sobel gradient
// magnitude over interior pixels. Higher means more high-frequency
// detail.
func TenengradSharpness(g *Gray) float64 {
	if g.Width < 3 || g.Height < 3 {
		return 0
	}

	sum := 0.0
	n := 0
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			gx := -g.At(x-1, y-1) - 2*g.At(x-1, y) - g.At(x-1, y+1) +
				g.At(x+1, y-1) + 2*g.At(x+1, y) + g.At(x+1, y+1)
			gy := -g.At(x-1, y-1) - 2*g.At(x, y-1) - g.At(x+1, y-1) +
				g.At(x-1, y+1) + 2*g.At(x, y+1) + g.At(x+1, y+1)
			sum += math.Sqrt(gx*gx + gy*gy)
			n++
		}
	}
	return sum / float64(n)
}
