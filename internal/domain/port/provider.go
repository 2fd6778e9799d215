package port

import (
	"context"
	"errors"

	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
)

// ErrInvalidInput marks an input the pipeline cannot decide on at all
// (missing image bytes, malformed checklist). It aborts only that unit.
var ErrInvalidInput = errors.New("invalid input")

// ErrModelUnavailable marks a vision-model call that failed after the
// retry budget. Components fall back to deterministic behavior instead
// of propagating it upward.
var ErrModelUnavailable = errors.New("vision model unavailable")

// JudgeDecision is the vision judge's verdict on a borderline image.
type JudgeDecision struct {
	Accept    bool
	Rationale string
}

// CoverageSummary maps one image to the checklist areas it documents.
type CoverageSummary struct {
	VisibleSurfaces []string
	Fixtures        []string
	CoverageAreas   []string
	QualityNotes    string
}

// RegionAnalysis is the model's characterization of a candidate region.
type RegionAnalysis struct {
	Analysis     string
	Confidence   float64
	ReasonCodes  []string
	NeedsCloseup bool
}

// VisionModelProvider is the single capability the pipelines consume
// from a vision-capable model. Implementations own provider identity,
// credentials, timeouts and retries; callers only see the three
// operations and treat any error as ErrModelUnavailable-equivalent.
type VisionModelProvider interface {
	// JudgeBorderlineImage decides whether a borderline-quality image
	// is still usable for documenting the room.
	JudgeBorderlineImage(ctx context.Context, sample entity.ImageSample, scores entity.QualityScoreSet) (JudgeDecision, error)

	// SummarizeImageCoverage reports which checklist areas one image
	// makes visible.
	SummarizeImageCoverage(ctx context.Context, sample entity.ImageSample, roomType string) (CoverageSummary, error)

	// AnalyzeRegionPair characterizes a candidate difference given the
	// cropped move-in and move-out views of the region.
	AnalyzeRegionPair(ctx context.Context, moveIn, moveOut entity.ImageSample, region entity.DiffRegion, roomType string) (RegionAnalysis, error)
}
