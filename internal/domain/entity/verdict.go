package entity

import "time"

// VerdictStatus is the final state of one image in the quality gate.
type VerdictStatus string

const (
	VerdictAccepted           VerdictStatus = "accepted"
	VerdictRejected           VerdictStatus = "rejected"
	VerdictBorderlineAccepted VerdictStatus = "borderline_accepted"
	VerdictBorderlineRejected VerdictStatus = "borderline_rejected"
)

// Accepted reports whether the image may enter the accepted set.
func (s VerdictStatus) Accepted() bool {
	return s == VerdictAccepted || s == VerdictBorderlineAccepted
}

// Quality issue vocabulary for rejection reasons.
const (
	IssueBlurry     = "Blurry"
	IssueTooDark    = "Too dark"
	IssueOutOfFocus = "Out of focus"
	IssueUnreadable = "Unreadable image"
)

// ReasonRecord explains one failed quality metric.
type ReasonRecord struct {
	Issue  string // fixed vocabulary, see Issue* constants
	Detail string // numeric detail, e.g. "score 12.4 below 80.0"
	Tip    string // canned remediation tip for the person capturing
}

// QualityVerdict is the gate's output for one image. Created once per
// submission; never mutated, only superseded when the image is retaken.
type QualityVerdict struct {
	ID          string
	ImageID     string
	Fingerprint string
	Status      VerdictStatus
	Scores      QualityScoreSet
	Reasons     []ReasonRecord
	// JudgeFallback marks a borderline image accepted because the
	// vision judge was unavailable, not because it confirmed the image.
	JudgeFallback bool
	// Rationale is the judge's explanation for a borderline decision,
	// already language-policy scrubbed. Empty for deterministic verdicts.
	Rationale string
	CreatedAt time.Time
}
