package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// QualityGate holds the accept-thresholds for the three quality
// metrics. The reject-threshold of each metric is the accept-threshold
// minus BorderlineMargin; scores in between escalate to the judge.
type QualityGate struct {
	BlurThreshold      float64 `yaml:"blur_threshold"`
	DarknessThreshold  float64 `yaml:"darkness_threshold"`
	SharpnessThreshold float64 `yaml:"sharpness_threshold"`
	BorderlineMargin   float64 `yaml:"borderline_margin"`
}

// Coverage configures the room-coverage aggregation.
type Coverage struct {
	MinCoveragePct  float64             `yaml:"min_coverage_pct"`
	GuidedPositions []string            `yaml:"guided_positions"`
	// PositionAreas maps an orientation tag to the checklist areas a
	// shot from that position most likely documents. Used when no
	// vision summary is available for an image.
	PositionAreas map[string][]string `yaml:"position_areas"`
	WorkerLimit   int                 `yaml:"worker_limit"`
}

// Comparison configures the structural diff and candidate analysis.
type Comparison struct {
	// LocalSimilarityCutoff: local SSIM below this counts as "different".
	LocalSimilarityCutoff  float64 `yaml:"local_similarity_cutoff"`
	MinRegionArea          int     `yaml:"min_region_area"`
	MergeOverlapFraction   float64 `yaml:"merge_overlap_fraction"`
	MaxCandidates          int     `yaml:"max_candidates"`
	MinCandidateConfidence float64 `yaml:"min_candidate_confidence"`
	CropPadding            int     `yaml:"crop_padding"`
	WorkerLimit            int     `yaml:"worker_limit"`
}

// PolicyRule pairs a forbidden phrase with its neutral replacement.
type PolicyRule struct {
	Forbidden   string `yaml:"forbidden"`
	Replacement string `yaml:"replacement"`
}

// LanguagePolicy configures the mandatory text scrubber.
type LanguagePolicy struct {
	Rules        []PolicyRule `yaml:"rules"`
	SafeSentence string       `yaml:"safe_sentence"`
}

// Vision configures the model provider adapter.
type Vision struct {
	APIKey         string        `yaml:"-"` // env only, never from file
	Model          string        `yaml:"model"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"`
}

// Config is the full application configuration.
type Config struct {
	LogLevel       string              `yaml:"log_level"`
	Vision         Vision              `yaml:"vision"`
	QualityGate    QualityGate         `yaml:"quality_gate"`
	Coverage       Coverage            `yaml:"coverage"`
	Comparison     Comparison          `yaml:"comparison"`
	LanguagePolicy LanguagePolicy      `yaml:"language_policy"`
	Checklists     map[string][]string `yaml:"checklists"`
}

// Default returns the built-in configuration. Every tuning parameter
// the pipelines use is named here rather than hard-coded at the call
// site.
func Default() Config {
	return Config{
		LogLevel: "info",
		Vision: Vision{
			Model:          "claude-sonnet-4-5-20250929",
			RequestTimeout: 30 * time.Second,
			MaxRetries:     2,
			RetryBackoff:   500 * time.Millisecond,
		},
		QualityGate: QualityGate{
			BlurThreshold:      100.0,
			DarknessThreshold:  40.0,
			SharpnessThreshold: 50.0,
			BorderlineMargin:   20.0,
		},
		Coverage: Coverage{
			MinCoveragePct: 80.0,
			GuidedPositions: []string{
				"center-from-door", "center-opposite-wall",
				"corner-left-near", "corner-right-near",
				"corner-left-far", "corner-right-far",
				"ceiling", "floor",
			},
			PositionAreas: map[string][]string{
				"center-from-door":     {"wall-far", "floor", "door"},
				"center-opposite-wall": {"wall-near", "door", "floor"},
				"corner-left-near":     {"wall-left", "wall-near"},
				"corner-right-near":    {"wall-right", "wall-near"},
				"corner-left-far":      {"wall-left", "wall-far"},
				"corner-right-far":     {"wall-right", "wall-far"},
				"ceiling":              {"ceiling"},
				"floor":                {"floor"},
			},
			WorkerLimit: 4,
		},
		Comparison: Comparison{
			LocalSimilarityCutoff:  0.85,
			MinRegionArea:          500,
			MergeOverlapFraction:   0.3,
			MaxCandidates:          20,
			MinCandidateConfidence: 0.3,
			CropPadding:            20,
			WorkerLimit:            4,
		},
		LanguagePolicy: LanguagePolicy{
			Rules: []PolicyRule{
				{Forbidden: "damage confirmed", Replacement: "candidate difference observed"},
				{Forbidden: "damage detected", Replacement: "candidate difference observed"},
				{Forbidden: "tenant caused", Replacement: "a change may have occurred"},
				{Forbidden: "fault", Replacement: "possible change"},
				{Forbidden: "liable", Replacement: "subject to review"},
			},
			SafeSentence: "A candidate difference was identified in this area and may warrant further review.",
		},
		Checklists: map[string][]string{
			"default": {
				"wall-left", "wall-right", "wall-far", "wall-near",
				"floor", "ceiling", "door",
			},
			"Living Room": {
				"wall-left", "wall-right", "wall-far", "wall-near",
				"floor", "ceiling", "door", "window",
			},
			"Kitchen": {
				"wall-left", "wall-right", "wall-far", "wall-near",
				"floor", "ceiling", "door", "countertop", "appliances",
			},
			"Bedroom": {
				"wall-left", "wall-right", "wall-far", "wall-near",
				"floor", "ceiling", "door", "window", "closet",
			},
			"Bathroom": {
				"wall-left", "wall-right", "wall-far", "wall-near",
				"floor", "ceiling", "door", "fixtures", "mirror",
			},
			"Hallway": {
				"wall-left", "wall-right", "floor", "ceiling", "door",
			},
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file
// and the environment. A missing file is not an error; a malformed one
// is.
func Load(path string) (Config, error) {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// keep defaults
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Vision.APIKey = v
	}
	if v := os.Getenv("WALKTHROUGH_MODEL"); v != "" {
		cfg.Vision.Model = v
	}
	if v := os.Getenv("WALKTHROUGH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}
