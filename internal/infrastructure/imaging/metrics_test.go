package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func grayRaster(w, h int, f func(x, y int) float64) *Gray {
	g := NewGray(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, f(x, y))
		}
	}
	return g
}

func encodeGrayPNG(t *testing.T, w, h int, f func(x, y int) uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: f(x, y)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLaplacianVarianceUniformIsZero(t *testing.T) {
	g := grayRaster(64, 48, func(x, y int) float64 { return 128 })
	require.Zero(t, LaplacianVariance(g))
}

func TestLaplacianVarianceRisesWithEdges(t *testing.T) {
	flat := grayRaster(32, 32, func(x, y int) float64 { return 100 })
	stripes := grayRaster(32, 32, func(x, y int) float64 {
		if x%2 == 0 {
			return 0
		}
		return 255
	})
	require.Greater(t, LaplacianVariance(stripes), LaplacianVariance(flat))
}

func TestMeanIntensity(t *testing.T) {
	g := grayRaster(10, 10, func(x, y int) float64 { return 42 })
	require.InDelta(t, 42, MeanIntensity(g), 1e-9)

	half := grayRaster(10, 10, func(x, y int) float64 {
		if x < 5 {
			return 0
		}
		return 200
	})
	require.InDelta(t, 100, MeanIntensity(half), 1e-9)
}

func TestTenengradUniformIsZero(t *testing.T) {
	g := grayRaster(16, 16, func(x, y int) float64 { return 77 })
	require.Zero(t, TenengradSharpness(g))
}

func TestTenengradRisesWithDetail(t *testing.T) {
	soft := grayRaster(32, 32, func(x, y int) float64 { return float64(x) })
	busy := grayRaster(32, 32, func(x, y int) float64 {
		if (x+y)%2 == 0 {
			return 0
		}
		return 255
	})
	require.Greater(t, TenengradSharpness(busy), TenengradSharpness(soft))
}

func TestMetricsDeterministic(t *testing.T) {
	data := encodeGrayPNG(t, 40, 30, func(x, y int) uint8 { return uint8((x*7 + y*13) % 256) })

	g1, err := Decode(data)
	require.NoError(t, err)
	g2, err := Decode(data)
	require.NoError(t, err)

	require.Equal(t, LaplacianVariance(g1), LaplacianVariance(g2))
	require.Equal(t, MeanIntensity(g1), MeanIntensity(g2))
	require.Equal(t, TenengradSharpness(g1), TenengradSharpness(g2))
}

func TestEqualizeHistConstantUnchanged(t *testing.T) {
	g := grayRaster(8, 8, func(x, y int) float64 { return 120 })
	eq := g.EqualizeHist()
	require.Equal(t, g.Pix, eq.Pix)
}

func TestEqualizeHistSpreadsRange(t *testing.T) {
	// two-level image: equalization must push the levels apart
	g := grayRaster(16, 16, func(x, y int) float64 {
		if x < 8 {
			return 100
		}
		return 110
	})
	eq := g.EqualizeHist()

	lo, hi := eq.At(0, 0), eq.At(15, 0)
	require.Less(t, lo, hi)
	require.InDelta(t, 255, hi, 0.5)
	for _, v := range eq.Pix {
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 255.0)
	}
}

func TestResizeNearest(t *testing.T) {
	g := grayRaster(10, 10, func(x, y int) float64 { return float64(x * y) })

	same := g.ResizeNearest(10, 10)
	require.Same(t, g, same)

	small := g.ResizeNearest(5, 4)
	require.Equal(t, 5, small.Width)
	require.Equal(t, 4, small.Height)
	require.Len(t, small.Pix, 20)
}
