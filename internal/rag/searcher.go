package rag

import (
	"context"
	"log/slog"
	"sort"

	"github.com/firebase/genkit/go/ai"

	"github.com/versemind/versemind/internal/passage"
)

// SearchStore is the retrieval surface the Searcher needs from the
// passage store. Defined here, by the consumer.
type SearchStore interface {
	// KeywordSearch performs full-text search, category pre-filtered.
	KeywordSearch(ctx context.Context, query string, limit int32, category string) ([]passage.Passage, error)

	// VectorSearch returns nearest neighbors by cosine distance,
	// category pre-filtered.
	VectorSearch(ctx context.Context, embedding []float32, limit int32, category string) ([]passage.VectorHit, error)
}

// SearcherConfig carries the retrieval tunables. The constants have no
// derivation beyond tuning; they are configurable, not invariants.
type SearcherConfig struct {
	// MinRelevance discards vector hits below this floor. Default 0.7.
	MinRelevance float64

	// UngradedRelevance is assigned to keyword hits, which carry no
	// graded score. Default 0.8.
	UngradedRelevance float64
}

// DefaultSearcherConfig returns the stock retrieval tunables.
func DefaultSearcherConfig() SearcherConfig {
	return SearcherConfig{
		MinRelevance:      0.7,
		UngradedRelevance: 0.8,
	}
}

// Searcher retrieves passages for a query. It tries vector similarity
// first and falls back to keyword search when the embedding
// infrastructure is degraded or returns nothing, so the system stays
// answerable instead of failing closed.
//
// Searcher never returns an error: total failure yields an empty
// slice, which callers treat as "no context available".
type Searcher struct {
	store    SearchStore
	embedder ai.Embedder
	cfg      SearcherConfig
	logger   *slog.Logger
}

// NewSearcher creates a Searcher. Provider handles are injected; there
// is no ambient global state.
func NewSearcher(store SearchStore, embedder ai.Embedder, cfg SearcherConfig, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinRelevance <= 0 {
		cfg.MinRelevance = DefaultSearcherConfig().MinRelevance
	}
	if cfg.UngradedRelevance <= 0 {
		cfg.UngradedRelevance = DefaultSearcherConfig().UngradedRelevance
	}

	return &Searcher{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger,
	}
}

// Search returns up to limit passages ordered by descending relevance.
// minRelevance overrides the configured floor when > 0.
func (s *Searcher) Search(ctx context.Context, query string, limit int32, category string, minRelevance float64) []RetrievedPassage {
	if minRelevance <= 0 {
		minRelevance = s.cfg.MinRelevance
	}

	results, err := s.searchVector(ctx, query, limit, category, minRelevance)
	if err != nil {
		s.logger.Warn("vector search unavailable, falling back to keyword search",
			"error", err)
	}
	if err == nil && len(results) > 0 {
		return truncate(results, limit)
	}

	results, err = s.searchKeyword(ctx, query, limit, category)
	if err != nil {
		s.logger.Error("keyword fallback failed, returning no context", "error", err)
		return []RetrievedPassage{}
	}
	return truncate(results, limit)
}

// KeywordOnly retrieves via full-text search without touching the
// embedder. Used when the engine runs in ModeKeyword.
func (s *Searcher) KeywordOnly(ctx context.Context, query string, limit int32, category string) []RetrievedPassage {
	results, err := s.searchKeyword(ctx, query, limit, category)
	if err != nil {
		s.logger.Error("keyword search failed, returning no context", "error", err)
		return []RetrievedPassage{}
	}
	return truncate(results, limit)
}

// searchVector embeds the query and scans the vector index. Index
// distance d becomes relevance 1-d (cosine distance convention); hits
// below minRelevance are discarded.
func (s *Searcher) searchVector(ctx context.Context, query string, limit int32, category string, minRelevance float64) ([]RetrievedPassage, error) {
	embedding, err := embedText(ctx, s.embedder, query)
	if err != nil {
		return nil, err
	}

	hits, err := s.store.VectorSearch(ctx, embedding, limit, category)
	if err != nil {
		return nil, err
	}

	results := make([]RetrievedPassage, 0, len(hits))
	for _, hit := range hits {
		relevance := 1 - hit.Distance
		if relevance < minRelevance {
			continue
		}
		if relevance > 1 {
			relevance = 1
		}
		results = append(results, RetrievedPassage{
			Passage:   hit.Passage,
			Relevance: relevance,
		})
	}

	// The index returns rows distance-ordered already; SliceStable
	// keeps provider order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results, nil
}

// searchKeyword runs full-text search. Keyword matches carry no graded
// score, so every hit gets the fixed ungraded relevance and provider
// order is preserved.
func (s *Searcher) searchKeyword(ctx context.Context, query string, limit int32, category string) ([]RetrievedPassage, error) {
	found, err := s.store.KeywordSearch(ctx, query, limit, category)
	if err != nil {
		return nil, err
	}

	results := make([]RetrievedPassage, 0, len(found))
	for _, p := range found {
		results = append(results, RetrievedPassage{
			Passage:   p,
			Relevance: s.cfg.UngradedRelevance,
		})
	}
	return results, nil
}

func truncate(results []RetrievedPassage, limit int32) []RetrievedPassage {
	if limit > 0 && int32(len(results)) > limit {
		return results[:limit]
	}
	return results
}
