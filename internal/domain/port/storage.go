package port

import (
	"context"

	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
)

// ChecklistSource supplies the static room-type checklists.
type ChecklistSource interface {
	Checklist(roomType string) entity.Checklist
}

// ReferenceImageSource supplies the move-in image set for comparison
// pairing, indexed by room.
type ReferenceImageSource interface {
	MoveInImages(ctx context.Context, room string) ([]entity.ImageSample, error)
}

// CaptureStore tracks the in-progress capture state for a room: which
// images were accepted and which checklist areas are already covered.
type CaptureStore interface {
	AddAccepted(ctx context.Context, sample entity.ImageSample) error
	Accepted(ctx context.Context, room string) ([]entity.ImageSample, error)
	CoveredAreas(ctx context.Context, room string) ([]string, error)
	SetCoveredAreas(ctx context.Context, room string, areas []string) error
	// Reset discards a room's capture state, e.g. when the session is
	// invalidated mid-pipeline.
	Reset(ctx context.Context, room string) error
}
