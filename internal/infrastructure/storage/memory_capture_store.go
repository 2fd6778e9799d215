package storage

import (
	"context"
	"sync"

	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
)

// MemoryCaptureStore keeps per-room capture progress in memory. The
// core owns no durable storage; the surrounding application persists
// what it needs from the returned values.
type MemoryCaptureStore struct {
	mu       sync.RWMutex
	accepted map[string][]entity.ImageSample
	covered  map[string][]string
}

func NewMemoryCaptureStore() *MemoryCaptureStore {
	return &MemoryCaptureStore{
		accepted: make(map[string][]entity.ImageSample),
		covered:  make(map[string][]string),
	}
}

// AddAccepted appends the sample to its room's accepted set. A retaken
// image (same ID) replaces the earlier acceptance.
func (s *MemoryCaptureStore) AddAccepted(ctx context.Context, sample entity.ImageSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.accepted[sample.Room]
	for i, existing := range set {
		if existing.ID == sample.ID {
			set[i] = sample
			return nil
		}
	}
	s.accepted[sample.Room] = append(set, sample)
	return nil
}

func (s *MemoryCaptureStore) Accepted(ctx context.Context, room string) ([]entity.ImageSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.accepted[room]
	out := make([]entity.ImageSample, len(set))
	copy(out, set)
	return out, nil
}

func (s *MemoryCaptureStore) CoveredAreas(ctx context.Context, room string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	areas := s.covered[room]
	out := make([]string, len(areas))
	copy(out, areas)
	return out, nil
}

func (s *MemoryCaptureStore) SetCoveredAreas(ctx context.Context, room string, areas []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(areas))
	copy(out, areas)
	s.covered[room] = out
	return nil
}

// Reset discards the room's capture state.
func (s *MemoryCaptureStore) Reset(ctx context.Context, room string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.accepted, room)
	delete(s.covered, room)
	return nil
}

var _ port.CaptureStore = (*MemoryCaptureStore)(nil)
