package imaging

import (
	"context"
	"fmt"

	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
)

// Engine implements the metrics and structural-diff engines. All knobs
// are tuning parameters, exported so the container can override them
// from configuration.
type Engine struct {
	LocalSimilarityCutoff float64
	MinRegionArea         int
	MergeOverlapFraction  float64
	MaxRegions            int
	CropPadding           int
}

// NewEngine creates an engine with the default tuning.
func NewEngine() *Engine {
	return &Engine{
		LocalSimilarityCutoff: 0.85,
		MinRegionArea:         500,
		MergeOverlapFraction:  0.3,
		MaxRegions:            20,
		CropPadding:           20,
	}
}

// Scores computes the deterministic quality metrics for one sample.
// Empty input is an InputError; undecodable bytes yield the worst-case
// sentinel plus an error the gate converts to a rejection.
func (e *Engine) Scores(ctx context.Context, sample entity.ImageSample) (entity.QualityScoreSet, error) {
	if err := ctx.Err(); err != nil {
		return entity.WorstScores(), err
	}
	if len(sample.Data) == 0 {
		return entity.WorstScores(), fmt.Errorf("%w: image %q has no data", port.ErrInvalidInput, sample.ID)
	}

	g, err := Decode(sample.Data)
	if err != nil {
		return entity.WorstScores(), fmt.Errorf("image %q: %w", sample.ID, err)
	}

	return entity.QualityScoreSet{
		Blur:      LaplacianVariance(g),
		Darkness:  MeanIntensity(g),
		Sharpness: TenengradSharpness(g),
	}, nil
}

// DiffRegions aligns the pair onto the move-in grid, normalizes
// exposure, and extracts ranked candidate-difference regions.
func (e *Engine) DiffRegions(ctx context.Context, moveIn, moveOut entity.ImageSample) (float64, []entity.DiffRegion, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	if len(moveIn.Data) == 0 || len(moveOut.Data) == 0 {
		return 0, nil, fmt.Errorf("%w: comparison needs both images", port.ErrInvalidInput)
	}

	in, err := Decode(moveIn.Data)
	if err != nil {
		return 0, nil, fmt.Errorf("move-in image %q: %w", moveIn.ID, err)
	}
	out, err := Decode(moveOut.Data)
	if err != nil {
		return 0, nil, fmt.Errorf("move-out image %q: %w", moveOut.ID, err)
	}

	// The move-in grid is the reference frame for region coordinates.
	out = out.ResizeNearest(in.Width, in.Height)

	in = in.EqualizeHist()
	out = out.EqualizeHist()

	global, local := SSIM(in, out)
	regions := extractRegions(local, e.LocalSimilarityCutoff, e.MinRegionArea, e.MergeOverlapFraction, e.MaxRegions)
	return global, regions, nil
}

// CropRegion returns the padded region cut from the sample, re-encoded
// for submission to the vision model.
func (e *Engine) CropRegion(sample entity.ImageSample, region entity.DiffRegion) (entity.ImageSample, error) {
	return cropEncode(sample, region, e.CropPadding)
}

var _ port.MetricsEngine = (*Engine)(nil)
var _ port.DiffEngine = (*Engine)(nil)
