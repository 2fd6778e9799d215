package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
)

// Review flags on capture outcomes. ReviewFlagManual marks outcomes
// produced while a model-dependent step ran on its deterministic
// fallback, so the surrounding application can route them to a person.
const (
	ReviewFlagAI     = "ai_review_complete"
	ReviewFlagManual = "manual_review"
)

// CaptureOutcome is the orchestrator's answer to one image submission.
type CaptureOutcome struct {
	Verdict    *entity.QualityVerdict
	Coverage   *entity.CoverageResult // nil when the image was rejected
	ReviewFlag string
}

// Orchestrator wires the three pipelines and owns the per-room capture
// state. Each call is an independent unit of work; cancellation of the
// caller's context discards in-flight results for that unit only.
type Orchestrator struct {
	quality    *QualityService
	coverage   *CoverageService
	comparison *ComparisonService
	store      port.CaptureStore
	refs       port.ReferenceImageSource
	guided     []string
	log        *zap.Logger
}

func NewOrchestrator(quality *QualityService, coverage *CoverageService, comparison *ComparisonService, store port.CaptureStore, refs port.ReferenceImageSource, guidedPositions []string, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		quality:    quality,
		coverage:   coverage,
		comparison: comparison,
		store:      store,
		refs:       refs,
		guided:     guidedPositions,
		log:        log,
	}
}

// SubmitImage runs the quality pipeline for one image and, when the
// image is accepted, folds it into the room's coverage.
func (o *Orchestrator) SubmitImage(ctx context.Context, sample entity.ImageSample) (*CaptureOutcome, error) {
	verdict, err := o.quality.Check(ctx, sample)
	if err != nil {
		return nil, err
	}

	flag := ReviewFlagAI
	if verdict.JudgeFallback {
		flag = ReviewFlagManual
	}

	if !verdict.Status.Accepted() {
		o.log.Info("image rejected",
			zap.String("image_id", sample.ID),
			zap.String("room", sample.Room),
			zap.Int("reasons", len(verdict.Reasons)))
		return &CaptureOutcome{Verdict: verdict, ReviewFlag: flag}, nil
	}

	if err := o.store.AddAccepted(ctx, sample); err != nil {
		return nil, fmt.Errorf("record accepted image: %w", err)
	}

	accepted, err := o.store.Accepted(ctx, sample.Room)
	if err != nil {
		return nil, fmt.Errorf("load accepted set: %w", err)
	}
	previous, err := o.store.CoveredAreas(ctx, sample.Room)
	if err != nil {
		return nil, fmt.Errorf("load covered areas: %w", err)
	}

	coverage, err := o.coverage.Review(ctx, sample.Room, accepted, previous)
	if err != nil {
		return nil, err
	}
	if err := o.store.SetCoveredAreas(ctx, sample.Room, coverage.Covered); err != nil {
		return nil, fmt.Errorf("record covered areas: %w", err)
	}

	// Every guided position captured counts as complete even when the
	// model's area summaries lag behind.
	if !coverage.Complete && o.allGuidedCaptured(accepted) {
		coverage.Complete = true
	}

	// The unit was cancelled mid-flight; the caller must not see a
	// result assembled from a discarded submission.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.log.Info("image accepted",
		zap.String("image_id", sample.ID),
		zap.String("room", sample.Room),
		zap.Float64("coverage_pct", coverage.Pct))
	return &CaptureOutcome{Verdict: verdict, Coverage: coverage, ReviewFlag: flag}, nil
}

// CompareRoom pairs the room's accepted move-out set against the
// move-in references and runs the comparison pipeline.
func (o *Orchestrator) CompareRoom(ctx context.Context, room string) (*entity.ComparisonResult, error) {
	moveIn, err := o.refs.MoveInImages(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("load move-in references: %w", err)
	}
	moveOut, err := o.store.Accepted(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("load move-out set: %w", err)
	}

	result, err := o.comparison.CompareRoom(ctx, room, moveIn, moveOut)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.log.Info("room compared",
		zap.String("room", room),
		zap.Int("pairs", result.PairCount),
		zap.Int("candidates", len(result.Candidates)))
	return result, nil
}

// CancelRoom discards the room's capture state, e.g. when the session
// is invalidated.
func (o *Orchestrator) CancelRoom(ctx context.Context, room string) error {
	return o.store.Reset(ctx, room)
}

func (o *Orchestrator) allGuidedCaptured(accepted []entity.ImageSample) bool {
	if len(o.guided) == 0 {
		return false
	}
	have := make(map[string]bool, len(accepted))
	for _, img := range accepted {
		have[img.Position] = true
	}
	for _, pos := range o.guided {
		if !have[pos] {
			return false
		}
	}
	return true
}
