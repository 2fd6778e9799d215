package app

import (
	"regexp"
	"strings"

	"github.com/Futureecho/walkthrough-capstone/config"
)

// LanguagePolicy scrubs model-authored text of phrases that assert
// fault or confirmed damage. It is the single choke point for every
// string the pipelines emit; Scrub never fails — when the text cannot
// be sanitized confidently it degrades to the generic safe sentence.
type LanguagePolicy struct {
	rules []compiledRule
	safe  string
}

type compiledRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// NewLanguagePolicy compiles the configured forbidden phrases into
// case-insensitive, word-bounded patterns.
func NewLanguagePolicy(cfg config.LanguagePolicy) *LanguagePolicy {
	p := &LanguagePolicy{safe: cfg.SafeSentence}
	for _, r := range cfg.Rules {
		phrase := strings.TrimSpace(r.Forbidden)
		if phrase == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
		if err != nil {
			// QuoteMeta makes this unreachable for sane config; skip
			// the rule rather than refuse to construct the policy.
			continue
		}
		p.rules = append(p.rules, compiledRule{pattern: re, replacement: r.Replacement})
	}
	return p
}

// Scrub returns a policy-compliant version of text. Forbidden phrases
// are replaced with their neutral counterparts; if any survive the
// rewrite, or the input is empty, or anything panics, the generic safe
// sentence is returned instead.
func (p *LanguagePolicy) Scrub(text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = p.safe
		}
	}()

	out = strings.TrimSpace(text)
	if out == "" {
		return p.safe
	}

	for _, r := range p.rules {
		out = r.pattern.ReplaceAllString(out, r.replacement)
	}

	// A replacement chain could reassemble a forbidden phrase; give up
	// on the text rather than emit it.
	for _, r := range p.rules {
		if r.pattern.MatchString(out) {
			return p.safe
		}
	}
	return out
}

// SafeSentence is the generic fallback text.
func (p *LanguagePolicy) SafeSentence() string {
	return p.safe
}
