package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Futureecho/walkthrough-capstone/config"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
)

// ImagePair is a matched move-in/move-out pair for one room position.
type ImagePair struct {
	MoveIn  entity.ImageSample
	MoveOut entity.ImageSample
	// MatchedBy records how the pair was formed: "position" when the
	// orientation tags agree, "sequence" for the order fallback.
	MatchedBy string
}

// PairImages matches move-out images to move-in references: by
// orientation tag first, then leftover images by capture order.
func PairImages(moveIn, moveOut []entity.ImageSample) []ImagePair {
	byPosition := make(map[string]entity.ImageSample, len(moveIn))
	usedIn := make(map[string]bool, len(moveIn))
	for _, img := range moveIn {
		if img.Position != "" {
			if _, dup := byPosition[img.Position]; !dup {
				byPosition[img.Position] = img
			}
		}
	}

	var pairs []ImagePair
	var unpairedOut []entity.ImageSample
	for _, out := range moveOut {
		if out.Position != "" {
			if in, ok := byPosition[out.Position]; ok && !usedIn[in.ID] {
				usedIn[in.ID] = true
				pairs = append(pairs, ImagePair{MoveIn: in, MoveOut: out, MatchedBy: "position"})
				continue
			}
		}
		unpairedOut = append(unpairedOut, out)
	}

	var unpairedIn []entity.ImageSample
	for _, in := range moveIn {
		if !usedIn[in.ID] {
			unpairedIn = append(unpairedIn, in)
		}
	}
	sort.SliceStable(unpairedIn, func(i, j int) bool { return unpairedIn[i].Seq < unpairedIn[j].Seq })
	sort.SliceStable(unpairedOut, func(i, j int) bool { return unpairedOut[i].Seq < unpairedOut[j].Seq })

	for i, out := range unpairedOut {
		if i >= len(unpairedIn) {
			break
		}
		pairs = append(pairs, ImagePair{MoveIn: unpairedIn[i], MoveOut: out, MatchedBy: "sequence"})
	}
	return pairs
}

// ComparisonService runs the move-in/move-out pipeline: structural
// diff, candidate analysis, language scrubbing, followup composition.
type ComparisonService struct {
	diff     port.DiffEngine
	provider port.VisionModelProvider // nil means deterministic candidates only
	policy   *LanguagePolicy
	cfg      config.Comparison
	log      *zap.Logger
}

func NewComparisonService(diff port.DiffEngine, provider port.VisionModelProvider, policy *LanguagePolicy, cfg config.Comparison, log *zap.Logger) *ComparisonService {
	return &ComparisonService{diff: diff, provider: provider, policy: policy, cfg: cfg, log: log}
}

// CompareRoom compares a room's reference and current image sets and
// returns the ranked candidate list.
func (s *ComparisonService) CompareRoom(ctx context.Context, room string, moveIn, moveOut []entity.ImageSample) (*entity.ComparisonResult, error) {
	if len(moveIn) == 0 || len(moveOut) == 0 {
		return nil, fmt.Errorf("%w: comparison needs move-in and move-out images for room %q", port.ErrInvalidInput, room)
	}

	pairs := PairImages(moveIn, moveOut)
	result := &entity.ComparisonResult{
		ID:          uuid.NewString(),
		Room:        room,
		Fingerprint: pairSetFingerprint(room, pairs),
		PairCount:   len(pairs),
		GlobalSSIM:  1,
	}

	type pairedRegion struct {
		pair   ImagePair
		region entity.DiffRegion
	}
	var regions []pairedRegion

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		global, found, err := s.diff.DiffRegions(ctx, pair.MoveIn, pair.MoveOut)
		if err != nil {
			return nil, fmt.Errorf("diff %s/%s: %w", pair.MoveIn.ID, pair.MoveOut.ID, err)
		}
		if global < result.GlobalSSIM {
			result.GlobalSSIM = global
		}
		for _, r := range found {
			regions = append(regions, pairedRegion{pair: pair, region: r})
			result.Regions = append(result.Regions, r)
		}
	}

	// Cap across the whole room so the downstream model call count is
	// bounded regardless of how many pairs the room has.
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].region.Severity() > regions[j].region.Severity()
	})
	if s.cfg.MaxCandidates > 0 && len(regions) > s.cfg.MaxCandidates {
		regions = regions[:s.cfg.MaxCandidates]
	}

	candidates := make([]*entity.Candidate, len(regions))
	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.WorkerLimit
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, pr := range regions {
		i, pr := i, pr
		g.Go(func() error {
			c := s.analyzeRegion(gctx, room, pr.pair, pr.region)
			if c.Confidence >= s.cfg.MinCandidateConfidence {
				candidates[i] = &c
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, c := range candidates {
		if c == nil {
			continue
		}
		result.Candidates = append(result.Candidates, *c)
		result.Followups = append(result.Followups, s.composeFollowup(room, *c))
	}
	return result, nil
}

// analyzeRegion asks the model to characterize one region. Any failure
// falls back to a deterministic candidate derived from the structural
// signal alone; analysis text always passes through the policy.
func (s *ComparisonService) analyzeRegion(ctx context.Context, room string, pair ImagePair, region entity.DiffRegion) entity.Candidate {
	if s.provider == nil {
		return s.fallbackCandidate(region)
	}

	cropIn, errIn := s.diff.CropRegion(pair.MoveIn, region)
	cropOut, errOut := s.diff.CropRegion(pair.MoveOut, region)
	if errIn != nil || errOut != nil {
		// Send the full frames; the model still gets the coordinates.
		cropIn, cropOut = pair.MoveIn, pair.MoveOut
	}

	analysis, err := s.provider.AnalyzeRegionPair(ctx, cropIn, cropOut, region, room)
	if err != nil {
		s.log.Warn("region analysis unavailable, using structural fallback",
			zap.String("move_in", pair.MoveIn.ID),
			zap.String("move_out", pair.MoveOut.ID),
			zap.Error(err))
		return s.fallbackCandidate(region)
	}

	return entity.Candidate{
		Region:       region,
		Confidence:   clamp01(analysis.Confidence),
		ReasonCodes:  entity.NormalizeReasonCodes(analysis.ReasonCodes),
		Analysis:     s.policy.Scrub(analysis.Analysis),
		NeedsCloseup: analysis.NeedsCloseup,
	}
}

// fallbackCandidate characterizes a region from the structural signal
// when no model analysis is available.
func (s *ComparisonService) fallbackCandidate(region entity.DiffRegion) entity.Candidate {
	confidence := clamp01(1 - region.LocalSSIM)
	if confidence > 0.9 {
		confidence = 0.9
	}
	return entity.Candidate{
		Region:       region,
		Confidence:   confidence,
		ReasonCodes:  []entity.ReasonCode{entity.ReasonOther},
		Analysis:     s.policy.Scrub("Automated analysis unavailable; a structural comparison flagged this area for manual review."),
		NeedsCloseup: true,
	}
}

// composeFollowup builds the neutral tenant-facing message for one
// candidate. Deterministic template, still scrubbed: the analysis
// fragment inside it is model-authored.
func (s *ComparisonService) composeFollowup(room string, c entity.Candidate) string {
	cx, cy := c.Region.Center()
	msg := fmt.Sprintf("A candidate difference was noted near (%d, %d) in the %s: %s Could you confirm or share context about this area?",
		cx, cy, room, c.Analysis)
	if c.NeedsCloseup {
		msg += " A close-up photo would help clarify."
	}
	return s.policy.Scrub(msg)
}

func pairSetFingerprint(room string, pairs []ImagePair) string {
	parts := make([]string, 0, 2*len(pairs)+1)
	parts = append(parts, room)
	for _, p := range pairs {
		parts = append(parts, p.MoveIn.Fingerprint(), p.MoveOut.Fingerprint())
	}
	return entity.CombinedFingerprint(parts...)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
