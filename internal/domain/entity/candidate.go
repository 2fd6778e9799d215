package entity

// DiffRegion is one area where the move-in and move-out images diverge
// structurally. Coordinates are in move-in pixel space.
type DiffRegion struct {
	X      int
	Y      int
	Width  int
	Height int
	Area   int     // Width*Height in pixels
	// LocalSSIM is the mean local similarity inside the region, in
	// [-1, 1]. Lower means more structural change.
	LocalSSIM float64
}

// Center returns the pixel coordinates of the region's center.
func (r DiffRegion) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Severity ranks regions: bigger and less similar sorts first.
func (r DiffRegion) Severity() float64 {
	return float64(r.Area) * (1 - r.LocalSSIM)
}

// ReasonCode classifies why a region was flagged. Closed vocabulary.
type ReasonCode string

const (
	ReasonScuff         ReasonCode = "scuff"
	ReasonStain         ReasonCode = "stain"
	ReasonHole          ReasonCode = "hole"
	ReasonCrack         ReasonCode = "crack"
	ReasonDiscoloration ReasonCode = "discoloration"
	ReasonMissingItem   ReasonCode = "missing_item"
	ReasonAddedItem     ReasonCode = "added_item"
	ReasonWear          ReasonCode = "wear"
	ReasonOther         ReasonCode = "other"
)

var reasonCodes = map[ReasonCode]struct{}{
	ReasonScuff: {}, ReasonStain: {}, ReasonHole: {}, ReasonCrack: {},
	ReasonDiscoloration: {}, ReasonMissingItem: {}, ReasonAddedItem: {},
	ReasonWear: {}, ReasonOther: {},
}

// Valid reports whether the code belongs to the closed vocabulary.
func (c ReasonCode) Valid() bool {
	_, ok := reasonCodes[c]
	return ok
}

// NormalizeReasonCodes maps raw model strings onto the vocabulary.
// Unknown codes collapse to ReasonOther; the result is never empty.
func NormalizeReasonCodes(raw []string) []ReasonCode {
	seen := make(map[ReasonCode]struct{}, len(raw))
	out := make([]ReasonCode, 0, len(raw))
	for _, r := range raw {
		c := ReasonCode(r)
		if !c.Valid() {
			c = ReasonOther
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		out = append(out, ReasonOther)
	}
	return out
}

// Candidate is one flagged region with the model's characterization.
// Analysis is always language-policy compliant by the time it leaves
// the pipeline.
type Candidate struct {
	Region       DiffRegion
	Confidence   float64 // in [0, 1]
	ReasonCodes  []ReasonCode
	Analysis     string
	NeedsCloseup bool
}

// ComparisonResult is the output of one room-pair comparison run.
type ComparisonResult struct {
	ID          string
	Room        string
	Fingerprint string // identity of the input image pair set
	PairCount   int
	GlobalSSIM  float64 // lowest global score across analyzed pairs
	Regions     []DiffRegion
	Candidates  []Candidate
	Followups   []string
}
