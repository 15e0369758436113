package rag

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/versemind/versemind/internal/passage"
)

// CategoryUnresolved tags placeholder passages synthesized for
// grounding references whose locator could not be parsed.
const CategoryUnresolved = "unresolved"

// referencePrefix matches a "<Book> <chapter>:<verse>" locator at the
// start of grounding-reference text, e.g. "James 2:17 — Faith without
// works is dead." or "1 Corinthians 13:4: Love is patient".
var referencePrefix = regexp.MustCompile(`^\s*((?:[1-3]\s+)?[A-Z][A-Za-z]+(?:\s+[A-Za-z]+)?)\s+(\d{1,3}):(\d{1,3})\s*(?:[-—–:]\s*)?`)

// ResolveGroundingReferences maps provider grounding references into
// passage-shaped context. Every reference yields exactly one passage:
// when no locator can be parsed from the text (or hint), a synthetic
// placeholder (id 0, category "unresolved") is emitted rather than
// dropping the reference, so context length always equals reference
// count when the provider controls retrieval.
//
// relevance is assigned uniformly; providers return no graded score.
func ResolveGroundingReferences(refs []GroundingReference, relevance float64) []RetrievedPassage {
	resolved := make([]RetrievedPassage, 0, len(refs))
	for _, ref := range refs {
		resolved = append(resolved, RetrievedPassage{
			Passage:   resolveReference(ref),
			Relevance: relevance,
		})
	}
	return resolved
}

func resolveReference(ref GroundingReference) passage.Passage {
	if p, ok := parseLocator(ref.Text); ok {
		return p
	}
	// The hint sometimes carries the locator the snippet text lacks.
	if ref.SourceHint != "" {
		if p, ok := parseLocator(ref.SourceHint + " " + ref.Text); ok {
			return p
		}
	}

	return passage.Passage{
		ID:       0,
		Text:     strings.TrimSpace(ref.Text),
		Category: CategoryUnresolved,
	}
}

// parseLocator extracts a Book C:V prefix and strips it from the body.
func parseLocator(text string) (passage.Passage, bool) {
	m := referencePrefix.FindStringSubmatch(text)
	if m == nil {
		return passage.Passage{}, false
	}

	chapter, err := strconv.ParseInt(m[2], 10, 32)
	if err != nil {
		return passage.Passage{}, false
	}
	verse, err := strconv.ParseInt(m[3], 10, 32)
	if err != nil {
		return passage.Passage{}, false
	}

	book := strings.Join(strings.Fields(m[1]), " ")
	return passage.Passage{
		Book:      book,
		Chapter:   int32(chapter),
		Verse:     int32(verse),
		Text:      strings.TrimSpace(text[len(m[0]):]),
		Reference: book + " " + m[2] + ":" + m[3],
	}, true
}
