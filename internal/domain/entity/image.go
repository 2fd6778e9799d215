package entity

import (
	"crypto/sha256"
	"encoding/hex"
)

// ImageSample is one captured photo. Immutable once created.
type ImageSample struct {
	ID       string
	Room     string
	Position string // free-form orientation tag, e.g. "corner-left-far"
	Seq      int    // capture order within the room
	Width    int
	Height   int
	Data     []byte // encoded image bytes (JPEG/PNG)
}

// Fingerprint identifies the pixel payload. Two samples with the same
// bytes share a fingerprint, so cached scores and stale-result checks
// survive retries but not retakes.
func (s ImageSample) Fingerprint() string {
	sum := sha256.Sum256(s.Data)
	return hex.EncodeToString(sum[:])
}

// CombinedFingerprint hashes several fingerprints (or any identity
// strings) into one, used to version multi-input pipeline outputs.
func CombinedFingerprint(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// QualityScoreSet holds the deterministic quality metrics for one sample.
type QualityScoreSet struct {
	Blur      float64 // Laplacian variance, higher = sharper
	Darkness  float64 // mean gray intensity, 0-255
	Sharpness float64 // Tenengrad gradient energy, higher = sharper
}

// WorstScores is the sentinel returned when metrics cannot be computed.
// Every score is the worst possible value, so the gate rejects outright.
func WorstScores() QualityScoreSet {
	return QualityScoreSet{}
}
