package entity

// Checklist is the set of named areas a room type must document.
// Static configuration, read-only to the pipeline.
type Checklist struct {
	RoomType string
	Areas    []string
}

// CoverageResult reports how much of a room's checklist the accepted
// image set documents. Covered never shrinks within one room's capture.
type CoverageResult struct {
	Fingerprint  string   // identity of the accepted set + checklist
	Covered      []string // sorted
	Missing      []string // checklist order
	Pct          float64  // always within [0, 100]
	Instructions []string // one next-shot instruction per missing area
	Complete     bool
}
