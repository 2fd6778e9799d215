package storage

import (
	"strings"

	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/port"
)

// StaticChecklistSource serves checklists from configuration. Lookup
// tries an exact room-type match, then a partial match ("Master
// Bedroom" finds "Bedroom"), then the default checklist.
type StaticChecklistSource struct {
	checklists map[string][]string
}

func NewStaticChecklistSource(checklists map[string][]string) *StaticChecklistSource {
	return &StaticChecklistSource{checklists: checklists}
}

func (s *StaticChecklistSource) Checklist(roomType string) entity.Checklist {
	if areas, ok := s.checklists[roomType]; ok {
		return checklist(roomType, areas)
	}

	lower := strings.ToLower(roomType)
	for key, areas := range s.checklists {
		if key == "default" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(key)) {
			return checklist(roomType, areas)
		}
	}
	return checklist(roomType, s.checklists["default"])
}

func checklist(roomType string, areas []string) entity.Checklist {
	out := make([]string, len(areas))
	copy(out, areas)
	return entity.Checklist{RoomType: roomType, Areas: out}
}

var _ port.ChecklistSource = (*StaticChecklistSource)(nil)
