package imaging

const (
	ssimWindow = 7 // uniform window, matching skimage's default
	ssimC1     = 6.5025  // (0.01 * 255)^2
	ssimC2     = 58.5225 // (0.03 * 255)^2
)

// SSIMMap holds a per-window structural-similarity map. Each value is
// the SSIM of the window centered Offset pixels into the source image,
// so map coordinate (x, y) corresponds to image pixel (x+Offset, y+Offset).
type SSIMMap struct {
	Width  int
	Height int
	Offset int
	Values []float64
}

// At returns the local similarity at map coordinate (x, y).
func (m *SSIMMap) At(x, y int) float64 {
	return m.Values[y*m.Width+x]
}

// SSIM computes the structural-similarity index between two rasters of
// equal dimensions: a global score in [-1, 1] (1 = structurally
// identical) and the local map used for region extraction. Images
// smaller than the window are compared as a single window.
func SSIM(a, b *Gray) (float64, *SSIMMap) {
	if a.Width != b.Width || a.Height != b.Height {
		panic("imaging: SSIM inputs must share dimensions")
	}

	win := ssimWindow
	if a.Width < win || a.Height < win {
		if a.Width < a.Height {
			win = a.Width
		} else {
			win = a.Height
		}
		if win < 1 {
			return 0, &SSIMMap{Width: 0, Height: 0}
		}
	}

	outW := a.Width - win + 1
	outH := a.Height - win + 1
	m := &SSIMMap{
		Width:  outW,
		Height: outH,
		Offset: win / 2,
		Values: make([]float64, outW*outH),
	}

	invN := 1.0 / float64(win*win)
	sum := 0.0
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			var sa, sb, saa, sbb, sab float64
			for wy := 0; wy < win; wy++ {
				rowA := (y + wy) * a.Width
				rowB := (y + wy) * b.Width
				for wx := 0; wx < win; wx++ {
					va := a.Pix[rowA+x+wx]
					vb := b.Pix[rowB+x+wx]
					sa += va
					sb += vb
					saa += va * va
					sbb += vb * vb
					sab += va * vb
				}
			}
			muA := sa * invN
			muB := sb * invN
			varA := saa*invN - muA*muA
			varB := sbb*invN - muB*muB
			cov := sab*invN - muA*muB

			s := ((2*muA*muB + ssimC1) * (2*cov + ssimC2)) /
				((muA*muA + muB*muB + ssimC1) * (varA + varB + ssimC2))
			m.Values[y*outW+x] = s
			sum += s
		}
	}

	if len(m.Values) == 0 {
		return 0, m
	}
	return sum / float64(len(m.Values)), m
}
