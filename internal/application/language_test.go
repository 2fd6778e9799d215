package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Futureecho/walkthrough-capstone/config"
)

func TestScrubReplacesForbiddenPhrases(t *testing.T) {
	p := testPolicy()

	cases := map[string]string{
		"Damage confirmed on the left wall.":      "Candidate difference observed on the left wall.",
		"damage DETECTED near the baseboard":      "candidate difference observed near the baseboard",
		"This was tenant caused.":                 "This was a change may have occurred.",
		"The fault lies with the occupant":        "The possible change lies with the occupant",
		"The tenant is liable for this scuff":     "The tenant is subject to review for this scuff",
	}
	for in, want := range cases {
		require.Equal(t, strings.ToLower(want), strings.ToLower(p.Scrub(in)), "input %q", in)
	}
}

func TestScrubNeverEmitsForbiddenText(t *testing.T) {
	p := testPolicy()
	inputs := []string{
		"damage confirmed, tenant caused, clearly liable",
		"FAULT FAULT fault",
		"prefix damage detected suffix",
	}
	for _, in := range inputs {
		out := p.Scrub(in)
		low := strings.ToLower(out)
		for _, phrase := range []string{"damage confirmed", "damage detected", "tenant caused", "liable"} {
			require.NotContains(t, low, phrase, "input %q", in)
		}
		require.NotRegexp(t, `(?i)\bfault\b`, out, "input %q", in)
	}
}

func TestScrubLeavesWordBoundariesAlone(t *testing.T) {
	p := testPolicy()
	// "default" and "faultless" contain "fault" but are not the phrase.
	require.Equal(t, "the default checklist applies", p.Scrub("the default checklist applies"))
	require.Equal(t, "a faultless finish", p.Scrub("a faultless finish"))
}

func TestScrubEmptyInputFallsBackToSafeSentence(t *testing.T) {
	p := testPolicy()
	require.Equal(t, p.SafeSentence(), p.Scrub(""))
	require.Equal(t, p.SafeSentence(), p.Scrub("   "))
}

func TestScrubCleanTextUnchanged(t *testing.T) {
	p := testPolicy()
	text := "A candidate difference near the window sill; a close-up would help."
	require.Equal(t, text, p.Scrub(text))
}

func TestScrubGivesUpWhenReplacementReassembles(t *testing.T) {
	p := NewLanguagePolicy(config.LanguagePolicy{
		Rules: []config.PolicyRule{
			// Pathological rule: the replacement contains the other
			// rule's forbidden phrase.
			{Forbidden: "broken", Replacement: "fault found"},
			{Forbidden: "fault", Replacement: "possible change"},
		},
		SafeSentence: "safe",
	})
	out := p.Scrub("this is broken")
	require.NotRegexp(t, `(?i)\bfault\b`, out)
}

func TestNewLanguagePolicySkipsEmptyRules(t *testing.T) {
	p := NewLanguagePolicy(config.LanguagePolicy{
		Rules:        []config.PolicyRule{{Forbidden: "   ", Replacement: "x"}},
		SafeSentence: "safe",
	})
	require.Equal(t, "hello", p.Scrub("hello"))
}
