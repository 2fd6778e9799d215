package imaging

import (
	"sort"

	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
)

// extractRegions turns a local-similarity map into ranked candidate
// regions: threshold, 4-connected components, minimum-area floor,
// overlap merge, rank by area × (1 − local SSIM), cap.
func extractRegions(m *SSIMMap, cutoff float64, minArea int, mergeFrac float64, maxRegions int) []entity.DiffRegion {
	if len(m.Values) == 0 {
		return nil
	}

	mask := make([]bool, len(m.Values))
	any := false
	for i, v := range m.Values {
		if v < cutoff {
			mask[i] = true
			any = true
		}
	}
	if !any {
		return nil
	}

	regions := connectedComponents(m, mask, minArea)
	regions = mergeOverlapping(regions, m, mergeFrac)

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Severity() > regions[j].Severity()
	})
	if maxRegions > 0 && len(regions) > maxRegions {
		regions = regions[:maxRegions]
	}
	return regions
}

// connectedComponents labels 4-connected mask components and returns a
// bounding box per component whose pixel count clears the floor.
// Coordinates are translated from map space back to image space.
func connectedComponents(m *SSIMMap, mask []bool, minArea int) []entity.DiffRegion {
	visited := make([]bool, len(mask))
	var regions []entity.DiffRegion
	queue := make([]int, 0, 64)

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}

		minX, minY := m.Width, m.Height
		maxX, maxY := 0, 0
		pixels := 0

		queue = append(queue[:0], start)
		visited[start] = true
		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			x, y := idx%m.Width, idx/m.Width

			pixels++
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			if x > 0 && mask[idx-1] && !visited[idx-1] {
				visited[idx-1] = true
				queue = append(queue, idx-1)
			}
			if x < m.Width-1 && mask[idx+1] && !visited[idx+1] {
				visited[idx+1] = true
				queue = append(queue, idx+1)
			}
			if y > 0 && mask[idx-m.Width] && !visited[idx-m.Width] {
				visited[idx-m.Width] = true
				queue = append(queue, idx-m.Width)
			}
			if y < m.Height-1 && mask[idx+m.Width] && !visited[idx+m.Width] {
				visited[idx+m.Width] = true
				queue = append(queue, idx+m.Width)
			}
		}

		if pixels < minArea {
			continue
		}

		w := maxX - minX + 1
		h := maxY - minY + 1
		regions = append(regions, entity.DiffRegion{
			X:         minX + m.Offset,
			Y:         minY + m.Offset,
			Width:     w,
			Height:    h,
			Area:      w * h,
			LocalSSIM: meanLocalSSIM(m, minX, minY, w, h),
		})
	}
	return regions
}

// mergeOverlapping folds boxes together while any pair overlaps beyond
// the given fraction of the smaller box.
func mergeOverlapping(regions []entity.DiffRegion, m *SSIMMap, frac float64) []entity.DiffRegion {
	if frac <= 0 || len(regions) < 2 {
		return regions
	}

	merged := true
	for merged {
		merged = false
		for i := 0; i < len(regions) && !merged; i++ {
			for j := i + 1; j < len(regions); j++ {
				ov := overlapArea(regions[i], regions[j])
				if ov == 0 {
					continue
				}
				smaller := regions[i].Area
				if regions[j].Area < smaller {
					smaller = regions[j].Area
				}
				if float64(ov) < frac*float64(smaller) {
					continue
				}
				regions[i] = unionRegion(regions[i], regions[j], m)
				regions = append(regions[:j], regions[j+1:]...)
				merged = true
				break
			}
		}
	}
	return regions
}

func overlapArea(a, b entity.DiffRegion) int {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	return (x2 - x1) * (y2 - y1)
}

func unionRegion(a, b entity.DiffRegion, m *SSIMMap) entity.DiffRegion {
	x1 := min(a.X, b.X)
	y1 := min(a.Y, b.Y)
	x2 := max(a.X+a.Width, b.X+b.Width)
	y2 := max(a.Y+a.Height, b.Y+b.Height)
	w := x2 - x1
	h := y2 - y1
	return entity.DiffRegion{
		X:         x1,
		Y:         y1,
		Width:     w,
		Height:    h,
		Area:      w * h,
		LocalSSIM: meanLocalSSIM(m, x1-m.Offset, y1-m.Offset, w, h),
	}
}

// meanLocalSSIM averages the local map over a box given in map
// coordinates, clamped to the map bounds.
func meanLocalSSIM(m *SSIMMap, x, y, w, h int) float64 {
	x1 := max(x, 0)
	y1 := max(y, 0)
	x2 := min(x+w, m.Width)
	y2 := min(y+h, m.Height)
	if x2 <= x1 || y2 <= y1 {
		return 1
	}
	sum := 0.0
	for yy := y1; yy < y2; yy++ {
		for xx := x1; xx < x2; xx++ {
			sum += m.At(xx, yy)
		}
	}
	return sum / float64((x2-x1)*(y2-y1))
}
