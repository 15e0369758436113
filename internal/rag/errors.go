package rag

import "errors"

// Sentinel errors for the RAG pipeline. All are recoverable inside the
// Engine except ErrInvalidQuery, which is a caller error surfaced
// immediately. Check with errors.Is().
var (
	// ErrInvalidQuery indicates an empty or missing question.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmbeddingUnavailable indicates the embedding provider failed;
	// retrieval falls back to keyword search.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrSearchFailed indicates both retrieval paths failed; callers
	// treat this as "no context available".
	ErrSearchFailed = errors.New("search failed")

	// ErrGenerationFailed indicates the generative provider failed;
	// the Engine converts it to the fixed fallback answer.
	ErrGenerationFailed = errors.New("generation failed")
)
