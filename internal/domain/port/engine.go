package port

import (
	"context"

	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
)

// MetricsEngine computes deterministic quality signals for one image.
type MetricsEngine interface {
	// Scores returns blur, darkness and sharpness for the sample.
	// Empty input yields ErrInvalidInput; an undecodable payload yields
	// WorstScores plus a non-nil error so the gate can reject without
	// crashing the unit.
	Scores(ctx context.Context, sample entity.ImageSample) (entity.QualityScoreSet, error)
}

// DiffEngine aligns a move-in/move-out pair and extracts candidate
// difference regions.
type DiffEngine interface {
	// DiffRegions returns the global structural-similarity score and
	// the ranked, capped region list. Identical inputs return a global
	// score of ~1 and no regions.
	DiffRegions(ctx context.Context, moveIn, moveOut entity.ImageSample) (float64, []entity.DiffRegion, error)

	// CropRegion cuts the padded region out of the sample and returns
	// it re-encoded, for submission to the vision model.
	CropRegion(sample entity.ImageSample, region entity.DiffRegion) (entity.ImageSample, error)
}
