package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/Futureecho/walkthrough-capstone/config"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
)

// AnthropicProvider implements the vision-model capability against the
// Anthropic Messages API. Each call carries a per-attempt timeout and a
// small retry budget with exponential backoff; after the budget is
// spent the caller gets ErrModelUnavailable and falls back.
type AnthropicProvider struct {
	client     anthropic.Client
	model      string
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	log        *zap.Logger
}

func NewAnthropicProvider(cfg config.Vision, log *zap.Logger) *AnthropicProvider {
	return &AnthropicProvider{
		client:     anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:      cfg.Model,
		timeout:    cfg.RequestTimeout,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		log:        log,
	}
}

func (p *AnthropicProvider) JudgeBorderlineImage(ctx context.Context, sample entity.ImageSample, scores entity.QualityScoreSet) (port.JudgeDecision, error) {
	prompt := fmt.Sprintf(judgePrompt, scores.Blur, scores.Darkness, scores.Sharpness)
	text, err := p.call(ctx, 256,
		imageBlock(sample),
		anthropic.NewTextBlock(prompt),
	)
	if err != nil {
		return port.JudgeDecision{}, err
	}

	accept, rationale := parseJudge(text)
	return port.JudgeDecision{Accept: accept, Rationale: rationale}, nil
}

func (p *AnthropicProvider) SummarizeImageCoverage(ctx context.Context, sample entity.ImageSample, roomType string) (port.CoverageSummary, error) {
	position := sample.Position
	if position == "" {
		position = "unknown"
	}
	prompt := fmt.Sprintf(summarizePrompt, roomType, position)
	text, err := p.call(ctx, 1024,
		imageBlock(sample),
		anthropic.NewTextBlock(prompt),
	)
	if err != nil {
		return port.CoverageSummary{}, err
	}

	payload, err := parseSummary(text)
	if err != nil {
		// Malformed response counts as a model failure; the caller's
		// position-tag fallback takes over.
		return port.CoverageSummary{}, fmt.Errorf("%w: %v", port.ErrModelUnavailable, err)
	}
	return port.CoverageSummary{
		VisibleSurfaces: payload.VisibleSurfaces,
		Fixtures:        payload.Fixtures,
		CoverageAreas:   payload.CoverageAreas,
		QualityNotes:    payload.QualityNotes,
	}, nil
}

func (p *AnthropicProvider) AnalyzeRegionPair(ctx context.Context, moveIn, moveOut entity.ImageSample, region entity.DiffRegion, roomType string) (port.RegionAnalysis, error) {
	prompt := fmt.Sprintf(analyzePrompt, roomType, region.X, region.Y, region.Width, region.Height)
	text, err := p.call(ctx, 1024,
		imageBlock(moveIn),
		imageBlock(moveOut),
		anthropic.NewTextBlock(prompt),
	)
	if err != nil {
		return port.RegionAnalysis{}, err
	}

	payload, err := parseAnalysis(text)
	if err != nil {
		return port.RegionAnalysis{}, fmt.Errorf("%w: %v", port.ErrModelUnavailable, err)
	}
	return port.RegionAnalysis{
		Analysis:     payload.Analysis,
		Confidence:   payload.Confidence,
		ReasonCodes:  payload.ReasonCodes,
		NeedsCloseup: payload.NeedsCloseup,
	}, nil
}

// call sends one message with the retry/backoff policy and returns the
// first text block of the response.
func (p *AnthropicProvider) call(ctx context.Context, maxTokens int64, blocks ...anthropic.ContentBlockParamUnion) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	}

	var lastErr error
	delay := p.backoff
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", port.ErrModelUnavailable, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		message, err := p.client.Messages.New(callCtx, params)
		cancel()
		if err != nil {
			lastErr = err
			p.log.Warn("anthropic call failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}

		for _, block := range message.Content {
			if block.Type == "text" {
				return block.Text, nil
			}
		}
		lastErr = fmt.Errorf("no text content in response")
	}
	return "", fmt.Errorf("%w: %v", port.ErrModelUnavailable, lastErr)
}

func imageBlock(sample entity.ImageSample) anthropic.ContentBlockParamUnion {
	mediaType := http.DetectContentType(sample.Data)
	encoded := base64.StdEncoding.EncodeToString(sample.Data)
	return anthropic.NewImageBlockBase64(mediaType, encoded)
}

var _ port.VisionModelProvider = (*AnthropicProvider)(nil)
