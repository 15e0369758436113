// Package rag implements the Retrieval-Augmented Generation core of
// versemind: it turns a natural-language question into an answer
// grounded in stored passages.
//
// # Overview
//
// The package composes four stages behind a single Engine:
//
//   - Searcher: vector similarity search with keyword fallback
//   - context assembly: relevance-annotated context block
//   - Generator: prompt-based or provider-managed answer generation
//   - post-processing: follow-up extraction, confidence scoring,
//     grounding-reference resolution
//
// # Pipeline
//
//	Query
//	     |
//	     v
//	Searcher (vector -> keyword fallback)   or   explicit passage ids
//	     |
//	     v
//	Context block ("<Reference>: <text> [Relevance: NN%]")
//	     |
//	     v
//	Generator (prompt template | retrieval tool)
//	     |
//	     v
//	Post-processing (follow-ups, confidence, grounding refs)
//	     |
//	     v
//	Result
//
// # Failure Policy
//
// Component failures degrade, they never escape:
//
//   - embedding unavailable -> keyword search
//   - search failed -> empty context
//   - generation failed -> fixed fallback answer, confidence floor
//
// The only error Engine.GenerateAnswer surfaces is ErrInvalidQuery for
// an empty question; everything else becomes a well-formed Result.
//
// # Thread Safety
//
// Engine, Searcher and Ingestor hold no mutable state after
// construction and are safe for concurrent use.
package rag
