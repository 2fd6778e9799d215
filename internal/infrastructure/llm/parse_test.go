package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSONStripsFences(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                                  `{"a":1}`,
		"```json\n{\"a\":1}\n```":                    `{"a":1}`,
		"```\n{\"a\":1}\n```":                        `{"a":1}`,
		"Here is the result:\n```json\n{\"a\":1}\n```\nHope that helps.": `{"a":1}`,
		"  {\"a\":1}  ":                              `{"a":1}`,
	}
	for in, want := range cases {
		require.Equal(t, want, extractJSON(in), "input %q", in)
	}
}

func TestParseSummary(t *testing.T) {
	text := "```json\n" + `{
		"visible_surfaces": ["wall-left", "floor"],
		"fixtures": ["radiator"],
		"coverage_areas": ["wall-left", "floor"],
		"quality_notes": "slight glare near the window"
	}` + "\n```"

	out, err := parseSummary(text)
	require.NoError(t, err)
	require.Equal(t, []string{"wall-left", "floor"}, out.VisibleSurfaces)
	require.Equal(t, []string{"radiator"}, out.Fixtures)
	require.Equal(t, []string{"wall-left", "floor"}, out.CoverageAreas)
	require.Equal(t, "slight glare near the window", out.QualityNotes)
}

func TestParseSummaryMalformed(t *testing.T) {
	_, err := parseSummary("I could not see the room clearly.")
	require.Error(t, err)
}

func TestParseAnalysis(t *testing.T) {
	out, err := parseAnalysis(`{
		"analysis": "a dark mark near the baseboard",
		"confidence": 0.72,
		"reason_codes": ["scuff", "stain"],
		"needs_closeup": true
	}`)
	require.NoError(t, err)
	require.Equal(t, "a dark mark near the baseboard", out.Analysis)
	require.InDelta(t, 0.72, out.Confidence, 1e-9)
	require.Equal(t, []string{"scuff", "stain"}, out.ReasonCodes)
	require.True(t, out.NeedsCloseup)
}

func TestParseAnalysisMalformed(t *testing.T) {
	_, err := parseAnalysis("```json\nnot json at all\n```")
	require.Error(t, err)
}

func TestParseJudge(t *testing.T) {
	accept, rationale := parseJudge("ACCEPT\nThe wall texture is readable despite the soft focus.")
	require.True(t, accept)
	require.Equal(t, "The wall texture is readable despite the soft focus.", rationale)

	accept, rationale = parseJudge("REJECT\nToo dark to document anything.")
	require.False(t, accept)
	require.Equal(t, "Too dark to document anything.", rationale)

	accept, rationale = parseJudge("  accept  ")
	require.True(t, accept)
	require.Empty(t, rationale)

	accept, _ = parseJudge("REJECT")
	require.False(t, accept)
}
