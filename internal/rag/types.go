package rag

import (
	"time"

	"github.com/versemind/versemind/internal/passage"
)

// RetrievalMode selects how context passages are obtained for a query.
type RetrievalMode string

const (
	// ModeVector retrieves via embedding similarity search, with
	// keyword fallback when the embedder is unavailable.
	ModeVector RetrievalMode = "vector"

	// ModeKeyword retrieves via full-text search only.
	ModeKeyword RetrievalMode = "keyword"

	// ModeProviderManaged delegates retrieval to the generative
	// provider's built-in retrieval tool.
	ModeProviderManaged RetrievalMode = "provider"
)

// Valid reports whether m is a known retrieval mode.
func (m RetrievalMode) Valid() bool {
	switch m {
	case ModeVector, ModeKeyword, ModeProviderManaged:
		return true
	}
	return false
}

// RetrievedPassage pairs a passage with its retrieval relevance.
// Relevance is in [0,1]; results are ordered descending, ties keeping
// provider order.
type RetrievedPassage struct {
	Passage   passage.Passage
	Relevance float64
}

// Query is a single answer request.
type Query struct {
	// Text is the user's question. Must be non-empty.
	Text string

	// MaxResults caps retrieved context passages. Zero uses the
	// engine's configured default.
	MaxResults int32

	// MinRelevance overrides the engine's relevance floor when > 0.
	MinRelevance float64

	// Category narrows retrieval to one topical tag when non-empty.
	Category string

	// PassageIDs, when non-empty, bypasses search entirely: the
	// resolved passages are the sole context, each with relevance 1.0.
	PassageIDs []int64
}

// Result is the structured outcome of GenerateAnswer. It is always
// well-formed: every field is populated even on total pipeline failure.
type Result struct {
	Answer     string
	Context    []RetrievedPassage
	FollowUps  []string // 0..5 suggested follow-up questions
	Confidence float64  // in [floor, ceiling], default [0.1, 0.95]
	Elapsed    time.Duration
}

// GroundingReference is an opaque citation returned by a
// provider-managed retrieval call.
type GroundingReference struct {
	Text       string
	SourceHint string // locator hint when the provider supplies one
}

// GeneratedAnswer is the raw output of a Generator call.
type GeneratedAnswer struct {
	Text       string
	References []GroundingReference
}

// RetrievalTool configures provider-managed retrieval.
type RetrievalTool struct {
	// StoreName identifies the provider-side retrieval store.
	StoreName string

	// TopK caps the number of snippets the provider retrieves.
	TopK int32

	// MetadataFilter is an optional provider filter expression.
	MetadataFilter string
}
