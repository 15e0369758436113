package rag

import (
	"regexp"
	"strings"
)

// FollowUpExtractor derives suggested follow-up questions from
// generated answer text. Implementations are best-effort annotations,
// not correctness-critical: a model-based extractor can replace the
// pattern one without touching the Engine.
type FollowUpExtractor interface {
	// Extract returns up to max follow-up questions.
	Extract(text string, max int) []string
}

// maxPerPattern caps how many matches a single pattern contributes.
const maxPerPattern = 2

// questionPatterns match question-shaped clauses in generated text.
var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(What does [^?\n]{3,120}\?)`),
	regexp.MustCompile(`(?i)\b(What is [^?\n]{3,120}\?)`),
	regexp.MustCompile(`(?i)\b(How can [^?\n]{3,120}\?)`),
	regexp.MustCompile(`(?i)\b(How does [^?\n]{3,120}\?)`),
	regexp.MustCompile(`(?i)\b(Why [^?\n]{3,120}\?)`),
}

// defaultFollowUps are substituted when no question-shaped clause is
// found in the answer.
var defaultFollowUps = []string{
	"What does this passage mean in its original context?",
	"How can this passage be applied today?",
	"Why is this theme significant elsewhere in the collection?",
}

// PatternExtractor extracts follow-ups by matching a small set of
// question-shaped patterns. Heuristic by design; no NLP.
type PatternExtractor struct{}

// NewPatternExtractor creates the stock heuristic extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract scans text for question-shaped clauses, taking at most
// maxPerPattern per pattern and max overall. When nothing matches it
// returns the fixed default set (truncated to max).
func (*PatternExtractor) Extract(text string, max int) []string {
	if max <= 0 {
		return []string{}
	}

	seen := make(map[string]struct{})
	followUps := make([]string, 0, max)

	for _, pattern := range questionPatterns {
		matches := pattern.FindAllStringSubmatch(text, maxPerPattern)
		for _, m := range matches {
			q := strings.TrimSpace(m[1])
			key := strings.ToLower(q)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			followUps = append(followUps, q)
			if len(followUps) == max {
				return followUps
			}
		}
	}

	if len(followUps) == 0 {
		defaults := defaultFollowUps
		if len(defaults) > max {
			defaults = defaults[:max]
		}
		return append([]string{}, defaults...)
	}
	return followUps
}
