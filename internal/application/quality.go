package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/Futureecho/walkthrough-capstone/config"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
)

// gateState is the quality gate's explicit state. Transitions are pure
// functions of the score set and thresholds; the judge is consulted
// only from gateBorderline.
type gateState string

const (
	gateAccepted   gateState = "accepted"
	gateRejected   gateState = "rejected"
	gateBorderline gateState = "borderline"
)

// QualityService turns metric scores into accept/reject/borderline
// verdicts, escalating borderline cases to the vision judge.
type QualityService struct {
	metrics port.MetricsEngine
	judge   port.VisionModelProvider // nil means no judge configured
	policy  *LanguagePolicy
	cfg     config.QualityGate
	scores  *gocache.Cache // QualityScoreSet per image fingerprint
	log     *zap.Logger
}

// NewQualityService builds the gate. judge may be nil; borderline
// images are then accepted with the fallback warning.
func NewQualityService(metrics port.MetricsEngine, judge port.VisionModelProvider, policy *LanguagePolicy, cfg config.QualityGate, log *zap.Logger) *QualityService {
	return &QualityService{
		metrics: metrics,
		judge:   judge,
		policy:  policy,
		cfg:     cfg,
		scores:  gocache.New(30*time.Minute, 10*time.Minute),
		log:     log,
	}
}

// Check produces the verdict for one submitted image. Scores are
// memoized by fingerprint, so a retried submission does not recompute
// while a retaken image does.
func (s *QualityService) Check(ctx context.Context, sample entity.ImageSample) (*entity.QualityVerdict, error) {
	if len(sample.Data) == 0 {
		return nil, fmt.Errorf("%w: image %q has no data", port.ErrInvalidInput, sample.ID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fp := sample.Fingerprint()
	scores, err := s.scoresFor(ctx, sample, fp)
	if err != nil {
		if errors.Is(err, port.ErrInvalidInput) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		// Undecodable payload: worst-case scores, automatic reject.
		s.log.Warn("metrics unavailable, rejecting image",
			zap.String("image_id", sample.ID), zap.Error(err))
		return s.verdict(sample, fp, entity.VerdictRejected, entity.WorstScores(), []entity.ReasonRecord{{
			Issue:  entity.IssueUnreadable,
			Detail: "image could not be decoded",
			Tip:    "Retake the photo; the upload appears corrupted.",
		}}, false, ""), nil
	}

	switch evaluate(scores, s.cfg) {
	case gateAccepted:
		return s.verdict(sample, fp, entity.VerdictAccepted, scores, nil, false, ""), nil

	case gateRejected:
		return s.verdict(sample, fp, entity.VerdictRejected, scores, s.rejectionReasons(scores), false, ""), nil

	default:
		return s.judgeBorderline(ctx, sample, fp, scores), nil
	}
}

// scoresFor returns cached scores for the fingerprint or computes and
// caches them.
func (s *QualityService) scoresFor(ctx context.Context, sample entity.ImageSample, fp string) (entity.QualityScoreSet, error) {
	if v, ok := s.scores.Get(fp); ok {
		return v.(entity.QualityScoreSet), nil
	}
	scores, err := s.metrics.Scores(ctx, sample)
	if err != nil {
		return scores, err
	}
	s.scores.SetDefault(fp, scores)
	return scores, nil
}

// judgeBorderline escalates to the vision judge. Any judge failure
// degrades to accept-with-warning: capture proceeds rather than
// blocking the person mid-walkthrough.
func (s *QualityService) judgeBorderline(ctx context.Context, sample entity.ImageSample, fp string, scores entity.QualityScoreSet) *entity.QualityVerdict {
	if s.judge == nil {
		s.log.Warn("no judge configured, accepting borderline image",
			zap.String("image_id", sample.ID))
		return s.verdict(sample, fp, entity.VerdictBorderlineAccepted, scores, nil, true, "")
	}

	decision, err := s.judge.JudgeBorderlineImage(ctx, sample, scores)
	if err != nil {
		s.log.Warn("judge unavailable, accepting borderline image",
			zap.String("image_id", sample.ID), zap.Error(err))
		return s.verdict(sample, fp, entity.VerdictBorderlineAccepted, scores, nil, true, "")
	}

	rationale := s.policy.Scrub(decision.Rationale)
	if decision.Accept {
		return s.verdict(sample, fp, entity.VerdictBorderlineAccepted, scores, nil, false, rationale)
	}
	return s.verdict(sample, fp, entity.VerdictBorderlineRejected, scores, s.borderlineReasons(scores), false, rationale)
}

func (s *QualityService) verdict(sample entity.ImageSample, fp string, status entity.VerdictStatus, scores entity.QualityScoreSet, reasons []entity.ReasonRecord, fallback bool, rationale string) *entity.QualityVerdict {
	return &entity.QualityVerdict{
		ID:            uuid.NewString(),
		ImageID:       sample.ID,
		Fingerprint:   fp,
		Status:        status,
		Scores:        scores,
		Reasons:       reasons,
		JudgeFallback: fallback,
		Rationale:     rationale,
		CreatedAt:     time.Now().UTC(),
	}
}

// evaluate is the pure transition function (scores → state). Scores at
// exactly a threshold count as clearing it; only strict shortfalls
// reject, so verdicts do not flap on boundary values.
func evaluate(sc entity.QualityScoreSet, cfg config.QualityGate) gateState {
	rejected := sc.Blur < cfg.BlurThreshold-cfg.BorderlineMargin ||
		sc.Darkness < cfg.DarknessThreshold-cfg.BorderlineMargin ||
		sc.Sharpness < cfg.SharpnessThreshold-cfg.BorderlineMargin
	if rejected {
		return gateRejected
	}

	if sc.Blur >= cfg.BlurThreshold &&
		sc.Darkness >= cfg.DarknessThreshold &&
		sc.Sharpness >= cfg.SharpnessThreshold {
		return gateAccepted
	}
	return gateBorderline
}

// rejectionReasons builds one reason record per metric below its
// reject-threshold.
func (s *QualityService) rejectionReasons(sc entity.QualityScoreSet) []entity.ReasonRecord {
	var reasons []entity.ReasonRecord
	margin := s.cfg.BorderlineMargin

	if sc.Blur < s.cfg.BlurThreshold-margin {
		reasons = append(reasons, entity.ReasonRecord{
			Issue:  entity.IssueBlurry,
			Detail: fmt.Sprintf("blur score %.1f below %.1f", sc.Blur, s.cfg.BlurThreshold-margin),
			Tip:    "Hold the camera steady and tap to focus before shooting.",
		})
	}
	if sc.Darkness < s.cfg.DarknessThreshold-margin {
		reasons = append(reasons, entity.ReasonRecord{
			Issue:  entity.IssueTooDark,
			Detail: fmt.Sprintf("brightness %.1f below %.1f", sc.Darkness, s.cfg.DarknessThreshold-margin),
			Tip:    "Turn on the lights or open the curtains, then retake.",
		})
	}
	if sc.Sharpness < s.cfg.SharpnessThreshold-margin {
		reasons = append(reasons, entity.ReasonRecord{
			Issue:  entity.IssueOutOfFocus,
			Detail: fmt.Sprintf("sharpness %.1f below %.1f", sc.Sharpness, s.cfg.SharpnessThreshold-margin),
			Tip:    "Move closer and make sure surfaces are in focus.",
		})
	}
	return reasons
}

// borderlineReasons explains a judge-rejected borderline image: one
// record per metric inside the borderline band.
func (s *QualityService) borderlineReasons(sc entity.QualityScoreSet) []entity.ReasonRecord {
	var reasons []entity.ReasonRecord
	margin := s.cfg.BorderlineMargin

	if sc.Blur < s.cfg.BlurThreshold && sc.Blur >= s.cfg.BlurThreshold-margin {
		reasons = append(reasons, entity.ReasonRecord{
			Issue:  entity.IssueBlurry,
			Detail: fmt.Sprintf("blur score %.1f below %.1f", sc.Blur, s.cfg.BlurThreshold),
			Tip:    "Hold the camera steady and tap to focus before shooting.",
		})
	}
	if sc.Darkness < s.cfg.DarknessThreshold && sc.Darkness >= s.cfg.DarknessThreshold-margin {
		reasons = append(reasons, entity.ReasonRecord{
			Issue:  entity.IssueTooDark,
			Detail: fmt.Sprintf("brightness %.1f below %.1f", sc.Darkness, s.cfg.DarknessThreshold),
			Tip:    "Turn on the lights or open the curtains, then retake.",
		})
	}
	if sc.Sharpness < s.cfg.SharpnessThreshold && sc.Sharpness >= s.cfg.SharpnessThreshold-margin {
		reasons = append(reasons, entity.ReasonRecord{
			Issue:  entity.IssueOutOfFocus,
			Detail: fmt.Sprintf("sharpness %.1f below %.1f", sc.Sharpness, s.cfg.SharpnessThreshold),
			Tip:    "Move closer and make sure surfaces are in focus.",
		})
	}
	return reasons
}
