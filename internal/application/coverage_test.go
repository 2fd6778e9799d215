package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Futureecho/walkthrough-capstone/config"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
)

func testCoverageConfig() config.Coverage {
	return config.Coverage{
		MinCoveragePct: 80,
		PositionAreas: map[string][]string{
			"floor":   {"floor"},
			"ceiling": {"ceiling"},
		},
		WorkerLimit: 4,
	}
}

func fiveAreaChecklist() *fakeChecklists {
	return &fakeChecklists{areas: []string{"wall-left", "wall-right", "floor", "ceiling", "door"}}
}

func TestReviewCountsDistinctCoveredAreas(t *testing.T) {
	provider := &fakeProvider{summarizeFn: func(img entity.ImageSample, _ string) (port.CoverageSummary, error) {
		switch img.ID {
		case "shot-1":
			return port.CoverageSummary{CoverageAreas: []string{"wall-left", "floor"}}, nil
		default:
			return port.CoverageSummary{CoverageAreas: []string{"floor", "ceiling"}}, nil
		}
	}}
	s := NewCoverageService(provider, fiveAreaChecklist(), testCoverageConfig(), zap.NewNop())

	images := []entity.ImageSample{
		{ID: "shot-1", Room: "Bedroom", Data: []byte("a")},
		{ID: "shot-2", Room: "Bedroom", Data: []byte("b")},
	}
	res, err := s.Review(context.Background(), "Bedroom", images, nil)
	require.NoError(t, err)

	require.InDelta(t, 60.0, res.Pct, 1e-9)
	require.Equal(t, []string{"ceiling", "floor", "wall-left"}, res.Covered)
	require.Equal(t, []string{"wall-right", "door"}, res.Missing)
	require.Len(t, res.Instructions, 2)
	require.Equal(t, "Take a photo showing the wall-right area", res.Instructions[0])
	require.Equal(t, "Take a photo showing the door area", res.Instructions[1])
	require.False(t, res.Complete)
	require.EqualValues(t, 2, provider.summarizeCalls.Load())
}

func TestReviewNeverDropsPreviouslyCoveredAreas(t *testing.T) {
	// The summary for the new image reports nothing; coverage must not
	// fall below what earlier submissions established.
	provider := &fakeProvider{summarizeFn: func(entity.ImageSample, string) (port.CoverageSummary, error) {
		return port.CoverageSummary{}, nil
	}}
	s := NewCoverageService(provider, fiveAreaChecklist(), testCoverageConfig(), zap.NewNop())

	res, err := s.Review(context.Background(), "Bedroom",
		[]entity.ImageSample{{ID: "late", Data: []byte("x")}},
		[]string{"floor", "door"})
	require.NoError(t, err)
	require.InDelta(t, 40.0, res.Pct, 1e-9)
	require.Equal(t, []string{"door", "floor"}, res.Covered)
}

func TestReviewProviderFailureFallsBackToPositionTag(t *testing.T) {
	provider := &fakeProvider{summarizeFn: func(entity.ImageSample, string) (port.CoverageSummary, error) {
		return port.CoverageSummary{}, errors.New("model down")
	}}
	s := NewCoverageService(provider, fiveAreaChecklist(), testCoverageConfig(), zap.NewNop())

	res, err := s.Review(context.Background(), "Bedroom",
		[]entity.ImageSample{{ID: "img", Position: "floor", Data: []byte("x")}}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"floor"}, res.Covered)
	require.InDelta(t, 20.0, res.Pct, 1e-9)
}

func TestReviewWithoutProviderUsesPositionTagsOnly(t *testing.T) {
	s := NewCoverageService(nil, fiveAreaChecklist(), testCoverageConfig(), zap.NewNop())

	res, err := s.Review(context.Background(), "Bedroom", []entity.ImageSample{
		{ID: "a", Position: "floor", Data: []byte("1")},
		{ID: "b", Position: "ceiling", Data: []byte("2")},
		{ID: "c", Position: "unknown-tag", Data: []byte("3")},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"ceiling", "floor"}, res.Covered)
}

func TestReviewEmptyChecklistIsComplete(t *testing.T) {
	s := NewCoverageService(nil, &fakeChecklists{}, testCoverageConfig(), zap.NewNop())

	res, err := s.Review(context.Background(), "Closet", nil, nil)
	require.NoError(t, err)
	require.True(t, res.Complete)
	require.InDelta(t, 100.0, res.Pct, 1e-9)
	require.Empty(t, res.Missing)
	require.Empty(t, res.Instructions)
}

func TestReviewMatchesLooseAreaPhrasing(t *testing.T) {
	provider := &fakeProvider{summarizeFn: func(entity.ImageSample, string) (port.CoverageSummary, error) {
		return port.CoverageSummary{
			CoverageAreas:   []string{"the wall-left baseboard", "Floor"},
			VisibleSurfaces: []string{"CEILING"},
		}, nil
	}}
	s := NewCoverageService(provider, fiveAreaChecklist(), testCoverageConfig(), zap.NewNop())

	res, err := s.Review(context.Background(), "Bedroom",
		[]entity.ImageSample{{ID: "img", Data: []byte("x")}}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"ceiling", "floor", "wall-left"}, res.Covered)
}

func TestReviewPctStaysWithinBounds(t *testing.T) {
	provider := &fakeProvider{summarizeFn: func(entity.ImageSample, string) (port.CoverageSummary, error) {
		// Every image claims every area, plus noise that matches nothing.
		return port.CoverageSummary{CoverageAreas: []string{
			"wall-left", "wall-right", "floor", "ceiling", "door", "balcony", "garage",
		}}, nil
	}}
	s := NewCoverageService(provider, fiveAreaChecklist(), testCoverageConfig(), zap.NewNop())

	var images []entity.ImageSample
	for i := 0; i < 10; i++ {
		images = append(images, entity.ImageSample{ID: fmt.Sprintf("img-%d", i), Data: []byte{byte(i)}})
	}
	res, err := s.Review(context.Background(), "Bedroom", images, []string{"floor", "door", "door"})
	require.NoError(t, err)
	require.InDelta(t, 100.0, res.Pct, 1e-9)
	require.True(t, res.Complete)
	require.Empty(t, res.Missing)
}

func TestReviewFingerprintTracksInputs(t *testing.T) {
	s := NewCoverageService(nil, fiveAreaChecklist(), testCoverageConfig(), zap.NewNop())
	ctx := context.Background()

	a, err := s.Review(ctx, "Bedroom", []entity.ImageSample{{ID: "a", Data: []byte("1")}}, nil)
	require.NoError(t, err)
	b, err := s.Review(ctx, "Bedroom", []entity.ImageSample{{ID: "a", Data: []byte("1")}}, nil)
	require.NoError(t, err)
	c, err := s.Review(ctx, "Bedroom", []entity.ImageSample{{ID: "a", Data: []byte("2")}}, nil)
	require.NoError(t, err)

	require.Equal(t, a.Fingerprint, b.Fingerprint)
	require.NotEqual(t, a.Fingerprint, c.Fingerprint)
}

func TestReviewCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewCoverageService(nil, fiveAreaChecklist(), testCoverageConfig(), zap.NewNop())
	_, err := s.Review(ctx, "Bedroom", nil, nil)
	require.ErrorIs(t, err, context.Canceled)
}
