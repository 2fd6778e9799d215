package container

import (
	"go.uber.org/zap"

	"github.com/Futureecho/walkthrough-capstone/config"
	app "github.com/Futureecho/walkthrough-capstone/internal/application"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
	"github.com/Futureecho/walkthrough-capstone/internal/infrastructure/imaging"
	"github.com/Futureecho/walkthrough-capstone/internal/infrastructure/llm"
	"github.com/Futureecho/walkthrough-capstone/internal/infrastructure/storage"
)

// Container wires the pipelines with their collaborators.
type Container struct {
	Quality      *app.QualityService
	Coverage     *app.CoverageService
	Comparison   *app.ComparisonService
	Orchestrator *app.Orchestrator
	Store        *storage.MemoryCaptureStore
	References   *storage.MemoryReferenceSource
	Policy       *app.LanguagePolicy
}

// New builds the container. The provider is nil when no API key is
// configured; every pipeline then runs on its deterministic fallback.
func New(cfg config.Config, log *zap.Logger) *Container {
	var provider port.VisionModelProvider
	if cfg.Vision.APIKey != "" {
		provider = llm.NewAnthropicProvider(cfg.Vision, log.Named("llm"))
	}

	engine := imaging.NewEngine()
	engine.LocalSimilarityCutoff = cfg.Comparison.LocalSimilarityCutoff
	engine.MinRegionArea = cfg.Comparison.MinRegionArea
	engine.MergeOverlapFraction = cfg.Comparison.MergeOverlapFraction
	engine.MaxRegions = cfg.Comparison.MaxCandidates
	engine.CropPadding = cfg.Comparison.CropPadding

	policy := app.NewLanguagePolicy(cfg.LanguagePolicy)
	checklists := storage.NewStaticChecklistSource(cfg.Checklists)
	store := storage.NewMemoryCaptureStore()
	refs := storage.NewMemoryReferenceSource()

	quality := app.NewQualityService(engine, provider, policy, cfg.QualityGate, log.Named("quality"))
	coverage := app.NewCoverageService(provider, checklists, cfg.Coverage, log.Named("coverage"))
	comparison := app.NewComparisonService(engine, provider, policy, cfg.Comparison, log.Named("comparison"))
	orchestrator := app.NewOrchestrator(quality, coverage, comparison, store, refs, cfg.Coverage.GuidedPositions, log.Named("orchestrator"))

	return &Container{
		Quality:      quality,
		Coverage:     coverage,
		Comparison:   comparison,
		Orchestrator: orchestrator,
		Store:        store,
		References:   refs,
		Policy:       policy,
	}
}
