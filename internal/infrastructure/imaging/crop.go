package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// register the formats every build flavor must be able to crop
	_ "image/gif"
	_ "image/jpeg"

	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
)

// cropEncode cuts the padded region out of the sample and re-encodes
// it as PNG. The crop keeps full color: the vision model sees what the
// camera saw, not the grayscale working copy.
func cropEncode(sample entity.ImageSample, region entity.DiffRegion, pad int) (entity.ImageSample, error) {
	img, _, err := image.Decode(bytes.NewReader(sample.Data))
	if err != nil {
		return entity.ImageSample{}, fmt.Errorf("decode for crop: %w", err)
	}

	b := img.Bounds()
	x1 := max(b.Min.X, b.Min.X+region.X-pad)
	y1 := max(b.Min.Y, b.Min.Y+region.Y-pad)
	x2 := min(b.Max.X, b.Min.X+region.X+region.Width+pad)
	y2 := min(b.Max.Y, b.Min.Y+region.Y+region.Height+pad)
	if x2 <= x1 || y2 <= y1 {
		return entity.ImageSample{}, fmt.Errorf("region %dx%d at (%d,%d) outside image", region.Width, region.Height, region.X, region.Y)
	}
	rect := image.Rect(x1, y1, x2, y2)

	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			out.Set(x-rect.Min.X, y-rect.Min.Y, img.At(x, y))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return entity.ImageSample{}, fmt.Errorf("encode crop: %w", err)
	}

	return entity.ImageSample{
		ID:       sample.ID + "-crop",
		Room:     sample.Room,
		Position: sample.Position,
		Width:    rect.Dx(),
		Height:   rect.Dy(),
		Data:     buf.Bytes(),
	}, nil
}
