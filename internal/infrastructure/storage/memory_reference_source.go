package storage

import (
	"context"
	"sync"

	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
)

// MemoryReferenceSource holds move-in reference images by room.
type MemoryReferenceSource struct {
	mu     sync.RWMutex
	byRoom map[string][]entity.ImageSample
}

func NewMemoryReferenceSource() *MemoryReferenceSource {
	return &MemoryReferenceSource{byRoom: make(map[string][]entity.ImageSample)}
}

// Add registers a move-in reference image for its room.
func (s *MemoryReferenceSource) Add(sample entity.ImageSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRoom[sample.Room] = append(s.byRoom[sample.Room], sample)
}

func (s *MemoryReferenceSource) MoveInImages(ctx context.Context, room string) ([]entity.ImageSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.byRoom[room]
	out := make([]entity.ImageSample, len(set))
	copy(out, set)
	return out, nil
}

var _ port.ReferenceImageSource = (*MemoryReferenceSource)(nil)
