package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Futureecho/walkthrough-capstone/config"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
)

// CoverageService combines per-image vision summaries against a room
// checklist into a coverage percentage and next-shot instructions.
type CoverageService struct {
	provider   port.VisionModelProvider // nil means position-tag fallback only
	checklists port.ChecklistSource
	cfg        config.Coverage
	log        *zap.Logger
}

func NewCoverageService(provider port.VisionModelProvider, checklists port.ChecklistSource, cfg config.Coverage, log *zap.Logger) *CoverageService {
	return &CoverageService{provider: provider, checklists: checklists, cfg: cfg, log: log}
}

// Review recomputes coverage for a room from its accepted images.
// previouslyCovered is unioned in, so coverage never decreases within
// one room's capture even when a later summary call fails.
func (s *CoverageService) Review(ctx context.Context, room string, images []entity.ImageSample, previouslyCovered []string) (*entity.CoverageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	checklist := s.checklists.Checklist(room)
	fp := s.fingerprint(room, checklist, images)

	// A room with nothing required is fully covered by definition.
	if len(checklist.Areas) == 0 {
		return &entity.CoverageResult{Fingerprint: fp, Pct: 100, Complete: true}, nil
	}

	areaSets := s.summarizeAll(ctx, room, images)

	covered := make(map[string]struct{})
	for _, prev := range previouslyCovered {
		if item, ok := matchArea(prev, checklist.Areas); ok {
			covered[item] = struct{}{}
		}
	}
	for _, areas := range areaSets {
		for _, area := range areas {
			if item, ok := matchArea(area, checklist.Areas); ok {
				covered[item] = struct{}{}
			}
		}
	}

	coveredList := make([]string, 0, len(covered))
	for item := range covered {
		coveredList = append(coveredList, item)
	}
	sort.Strings(coveredList)

	var missing []string
	for _, item := range checklist.Areas {
		if _, ok := covered[item]; !ok {
			missing = append(missing, item)
		}
	}

	pct := 100 * float64(len(covered)) / float64(len(checklist.Areas))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	instructions := make([]string, 0, len(missing))
	for _, area := range missing {
		instructions = append(instructions, fmt.Sprintf("Take a photo showing the %s area", area))
	}

	return &entity.CoverageResult{
		Fingerprint:  fp,
		Covered:      coveredList,
		Missing:      missing,
		Pct:          pct,
		Instructions: instructions,
		Complete:     pct >= s.cfg.MinCoveragePct,
	}, nil
}

// summarizeAll fans the vision summaries out under a bounded worker
// group. A failed summary degrades that one image to the position-tag
// lookup; it never fails the recompute.
func (s *CoverageService) summarizeAll(ctx context.Context, room string, images []entity.ImageSample) [][]string {
	areaSets := make([][]string, len(images))

	if s.provider == nil {
		for i, img := range images {
			areaSets[i] = s.cfg.PositionAreas[img.Position]
		}
		return areaSets
	}

	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.WorkerLimit
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			summary, err := s.provider.SummarizeImageCoverage(gctx, img, room)
			if err != nil {
				s.log.Warn("coverage summary unavailable, using position tag",
					zap.String("image_id", img.ID),
					zap.String("position", img.Position),
					zap.Error(err))
				areaSets[i] = s.cfg.PositionAreas[img.Position]
				return nil
			}
			areaSets[i] = append(summary.CoverageAreas, summary.VisibleSurfaces...)
			return nil
		})
	}
	_ = g.Wait()
	return areaSets
}

func (s *CoverageService) fingerprint(room string, checklist entity.Checklist, images []entity.ImageSample) string {
	parts := make([]string, 0, len(images)+len(checklist.Areas)+1)
	parts = append(parts, room)
	parts = append(parts, checklist.Areas...)
	for _, img := range images {
		parts = append(parts, img.Fingerprint())
	}
	return entity.CombinedFingerprint(parts...)
}

// matchArea maps a reported area onto a checklist item: exact match
// first, then containment either way. Model phrasing varies ("left
// wall", "wall-left"), so the match is deliberately loose.
func matchArea(area string, checklist []string) (string, bool) {
	norm := strings.ToLower(strings.TrimSpace(area))
	if norm == "" {
		return "", false
	}
	for _, item := range checklist {
		li := strings.ToLower(item)
		if norm == li || strings.Contains(norm, li) || strings.Contains(li, norm) {
			return item, true
		}
	}
	return "", false
}
