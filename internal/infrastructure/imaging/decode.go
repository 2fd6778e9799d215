//go:build !gocv

package imaging

import (
	"bytes"
	"fmt"
	"image"
)

// Decode turns encoded image bytes into a grayscale raster using the
// standard library decoders (JPEG and PNG).
func Decode(data []byte) (*Gray, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(img), nil
}
