package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON strips markdown code fences the model tends to wrap JSON
// responses in.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if i := strings.Index(trimmed, "```json"); i >= 0 {
		trimmed = trimmed[i+len("```json"):]
	} else if i := strings.Index(trimmed, "```"); i >= 0 {
		trimmed = trimmed[i+len("```"):]
	}
	if i := strings.Index(trimmed, "```"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.TrimSpace(trimmed)
}

type summaryPayload struct {
	VisibleSurfaces []string `json:"visible_surfaces"`
	Fixtures        []string `json:"fixtures"`
	CoverageAreas   []string `json:"coverage_areas"`
	QualityNotes    string   `json:"quality_notes"`
}

func parseSummary(text string) (summaryPayload, error) {
	var out summaryPayload
	if err := json.Unmarshal([]byte(extractJSON(text)), &out); err != nil {
		return summaryPayload{}, fmt.Errorf("parse coverage summary: %w", err)
	}
	return out, nil
}

type analysisPayload struct {
	Analysis     string   `json:"analysis"`
	Confidence   float64  `json:"confidence"`
	ReasonCodes  []string `json:"reason_codes"`
	NeedsCloseup bool     `json:"needs_closeup"`
}

func parseAnalysis(text string) (analysisPayload, error) {
	var out analysisPayload
	if err := json.Unmarshal([]byte(extractJSON(text)), &out); err != nil {
		return analysisPayload{}, fmt.Errorf("parse region analysis: %w", err)
	}
	return out, nil
}

// parseJudge reads the ACCEPT/REJECT verdict and the optional
// explanation that follows it.
func parseJudge(text string) (accept bool, rationale string) {
	trimmed := strings.TrimSpace(text)
	accept = strings.Contains(strings.ToUpper(trimmed), "ACCEPT")
	if _, rest, found := strings.Cut(trimmed, "\n"); found {
		rationale = strings.TrimSpace(rest)
	}
	return accept, rationale
}
