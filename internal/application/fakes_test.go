package app

import (
	"context"
	"sync/atomic"

	"github.com/Futureecho/walkthrough-capstone/config"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
)

// fakeMetrics returns a preset score set and counts calls, so tests
// can prove the fingerprint cache short-circuits recomputation.
type fakeMetrics struct {
	calls  atomic.Int32
	scores entity.QualityScoreSet
	err    error
}

func (f *fakeMetrics) Scores(_ context.Context, _ entity.ImageSample) (entity.QualityScoreSet, error) {
	f.calls.Add(1)
	if f.err != nil {
		return entity.WorstScores(), f.err
	}
	return f.scores, nil
}

// fakeProvider implements the vision provider with per-operation
// function hooks. Call counters are atomic; the services fan calls out
// under worker groups.
type fakeProvider struct {
	judgeCalls     atomic.Int32
	summarizeCalls atomic.Int32
	analyzeCalls   atomic.Int32

	judgeFn     func(entity.ImageSample, entity.QualityScoreSet) (port.JudgeDecision, error)
	summarizeFn func(entity.ImageSample, string) (port.CoverageSummary, error)
	analyzeFn   func(moveIn, moveOut entity.ImageSample, region entity.DiffRegion, room string) (port.RegionAnalysis, error)
}

func (f *fakeProvider) JudgeBorderlineImage(_ context.Context, sample entity.ImageSample, scores entity.QualityScoreSet) (port.JudgeDecision, error) {
	f.judgeCalls.Add(1)
	if f.judgeFn == nil {
		return port.JudgeDecision{Accept: true}, nil
	}
	return f.judgeFn(sample, scores)
}

func (f *fakeProvider) SummarizeImageCoverage(_ context.Context, sample entity.ImageSample, roomType string) (port.CoverageSummary, error) {
	f.summarizeCalls.Add(1)
	if f.summarizeFn == nil {
		return port.CoverageSummary{}, nil
	}
	return f.summarizeFn(sample, roomType)
}

func (f *fakeProvider) AnalyzeRegionPair(_ context.Context, moveIn, moveOut entity.ImageSample, region entity.DiffRegion, roomType string) (port.RegionAnalysis, error) {
	f.analyzeCalls.Add(1)
	if f.analyzeFn == nil {
		return port.RegionAnalysis{Confidence: 0.5, Analysis: "no notable change"}, nil
	}
	return f.analyzeFn(moveIn, moveOut, region, roomType)
}

// fakeDiff implements the diff engine with function hooks. A nil crop
// hook returns the sample under a derived ID.
type fakeDiff struct {
	diffFn func(moveIn, moveOut entity.ImageSample) (float64, []entity.DiffRegion, error)
	cropFn func(sample entity.ImageSample, region entity.DiffRegion) (entity.ImageSample, error)
}

func (f *fakeDiff) DiffRegions(_ context.Context, moveIn, moveOut entity.ImageSample) (float64, []entity.DiffRegion, error) {
	if f.diffFn == nil {
		return 1, nil, nil
	}
	return f.diffFn(moveIn, moveOut)
}

func (f *fakeDiff) CropRegion(sample entity.ImageSample, region entity.DiffRegion) (entity.ImageSample, error) {
	if f.cropFn == nil {
		cropped := sample
		cropped.ID = sample.ID + "-crop"
		return cropped, nil
	}
	return f.cropFn(sample, region)
}

// fakeChecklists serves one fixed checklist for every room type.
type fakeChecklists struct {
	areas []string
}

func (f *fakeChecklists) Checklist(roomType string) entity.Checklist {
	return entity.Checklist{RoomType: roomType, Areas: f.areas}
}

var (
	_ port.MetricsEngine       = (*fakeMetrics)(nil)
	_ port.VisionModelProvider = (*fakeProvider)(nil)
	_ port.DiffEngine          = (*fakeDiff)(nil)
	_ port.ChecklistSource     = (*fakeChecklists)(nil)
)

func testPolicy() *LanguagePolicy {
	return NewLanguagePolicy(config.Default().LanguagePolicy)
}

func testGate() config.QualityGate {
	return config.Default().QualityGate
}
