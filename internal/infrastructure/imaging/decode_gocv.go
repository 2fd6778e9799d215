//go:build gocv

package imaging

import (
	"errors"

	"gocv.io/x/gocv"
)

// Decode turns encoded image bytes into a grayscale raster via OpenCV,
// which handles more container formats than the standard library.
func Decode(data []byte) (*Gray, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("decode image: empty result")
	}

	g := NewGray(mat.Cols(), mat.Rows())
	for y := 0; y < mat.Rows(); y++ {
		for x := 0; x < mat.Cols(); x++ {
			g.Set(x, y, float64(mat.GetUCharAt(y, x)))
		}
	}
	return g, nil
}
