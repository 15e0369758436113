package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/versemind/versemind/internal/passage"
)

// EngineStore is the direct-store surface the Engine needs beyond
// search: explicit passage resolution and index diagnostics.
type EngineStore interface {
	GetByIDs(ctx context.Context, ids []int64) ([]passage.Passage, error)
	Stats(ctx context.Context) (passage.Stats, error)
}

// PassageSearcher abstracts the Searcher so tests can count calls and
// a different retrieval strategy can be substituted.
type PassageSearcher interface {
	Search(ctx context.Context, query string, limit int32, category string, minRelevance float64) []RetrievedPassage
	KeywordOnly(ctx context.Context, query string, limit int32, category string) []RetrievedPassage
}

// EngineConfig carries orchestrator-level settings. Zero values fall
// back to defaults at construction.
type EngineConfig struct {
	// Mode selects the retrieval strategy. Default ModeVector.
	Mode RetrievalMode

	// ResultLimit caps context passages when the query does not.
	// Default 8.
	ResultLimit int32

	// ContextBudget bounds the assembled context block in bytes.
	// Zero means unbounded.
	ContextBudget int

	// Tool configures provider-managed retrieval.
	Tool RetrievalTool

	// UngradedRelevance is assigned to grounding references, which
	// carry no graded score. Default 0.8.
	UngradedRelevance float64

	// MaxFollowUps caps suggested follow-up questions. Default 5.
	MaxFollowUps int

	// Confidence is the relevance-to-confidence weighting.
	Confidence ConfidenceConfig
}

// DefaultEngineConfig returns the stock orchestrator settings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Mode:              ModeVector,
		ResultLimit:       8,
		UngradedRelevance: 0.8,
		MaxFollowUps:      5,
		Confidence:        DefaultConfidenceConfig(),
	}
}

// Engine is the public entry point of the RAG core. It owns the
// end-to-end failure policy: GenerateAnswer never surfaces an internal
// error, it degrades to a fixed fallback answer instead.
//
// All provider handles are injected at construction and immutable for
// the Engine's lifetime; Engine is safe for concurrent use.
type Engine struct {
	store     EngineStore
	searcher  PassageSearcher
	generator Generator
	extractor FollowUpExtractor
	cfg       EngineConfig
	logger    *slog.Logger
}

// NewEngine creates an Engine. extractor may be nil, which selects the
// stock pattern extractor; logger may be nil, which selects the
// default logger.
func NewEngine(store EngineStore, searcher PassageSearcher, generator Generator, extractor FollowUpExtractor, cfg EngineConfig, logger *slog.Logger) *Engine {
	if extractor == nil {
		extractor = NewPatternExtractor()
	}
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultEngineConfig()
	if !cfg.Mode.Valid() {
		cfg.Mode = defaults.Mode
	}
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = defaults.ResultLimit
	}
	if cfg.UngradedRelevance <= 0 {
		cfg.UngradedRelevance = defaults.UngradedRelevance
	}
	if cfg.MaxFollowUps <= 0 {
		cfg.MaxFollowUps = defaults.MaxFollowUps
	}
	if cfg.Confidence == (ConfidenceConfig{}) {
		cfg.Confidence = defaults.Confidence
	}

	return &Engine{
		store:     store,
		searcher:  searcher,
		generator: generator,
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
	}
}

// SearchOptions narrows a Search call.
type SearchOptions struct {
	MaxResults   int32
	Category     string
	MinRelevance float64
}

// Search retrieves passages for a query without generating an answer.
// Only an empty query is an error; retrieval failures degrade to an
// empty result set.
func (e *Engine) Search(ctx context.Context, query string, opts SearchOptions) ([]RetrievedPassage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query text is empty", ErrInvalidQuery)
	}

	limit := opts.MaxResults
	if limit <= 0 {
		limit = e.cfg.ResultLimit
	}

	if e.cfg.Mode == ModeKeyword {
		return e.searcher.KeywordOnly(ctx, query, limit, opts.Category), nil
	}
	return e.searcher.Search(ctx, query, limit, opts.Category, opts.MinRelevance), nil
}

// GenerateAnswer runs the full pipeline: resolve context, generate,
// post-process. The returned Result is always well-formed; the only
// error ever surfaced is ErrInvalidQuery for an empty question. Any
// internal failure is logged and converted to the fallback answer with
// empty context and floor confidence.
func (e *Engine) GenerateAnswer(ctx context.Context, q Query) (Result, error) {
	if strings.TrimSpace(q.Text) == "" {
		return Result{}, fmt.Errorf("%w: query text is empty", ErrInvalidQuery)
	}

	start := time.Now()
	logger := e.logger.With("request_id", uuid.NewString())

	result, err := e.answer(ctx, q, logger)
	if err != nil {
		logger.Error("answer pipeline failed, degrading to fallback answer", "error", err)
		return e.fallback(q, time.Since(start)), nil
	}

	result.Elapsed = time.Since(start)
	logger.Info("answer generated",
		"context_passages", len(result.Context),
		"confidence", result.Confidence,
		"elapsed", result.Elapsed)
	return result, nil
}

// IndexStats reports corpus-level index diagnostics.
func (e *Engine) IndexStats(ctx context.Context) (passage.Stats, error) {
	stats, err := e.store.Stats(ctx)
	if err != nil {
		return passage.Stats{}, fmt.Errorf("reading index stats: %w", err)
	}
	return stats, nil
}

// answer executes ResolvingContext -> Prompting -> Generating ->
// PostProcessing. Errors propagate to GenerateAnswer, which owns the
// fallback conversion.
func (e *Engine) answer(ctx context.Context, q Query, logger *slog.Logger) (Result, error) {
	limit := q.MaxResults
	if limit <= 0 {
		limit = e.cfg.ResultLimit
	}

	// Explicit ids are the sole source of context; the searcher must
	// not run. Provider-managed retrieval resolves context during the
	// generation call instead.
	providerRetrieval := e.cfg.Mode == ModeProviderManaged && len(q.PassageIDs) == 0

	contextPassages := []RetrievedPassage{}
	switch {
	case len(q.PassageIDs) > 0:
		fetched, err := e.store.GetByIDs(ctx, q.PassageIDs)
		if err != nil {
			return Result{}, fmt.Errorf("%w: resolving explicit passages: %w", ErrSearchFailed, err)
		}
		for _, p := range fetched {
			contextPassages = append(contextPassages, RetrievedPassage{Passage: p, Relevance: 1.0})
		}
	case providerRetrieval:
		// Context arrives as grounding references below.
	case e.cfg.Mode == ModeKeyword:
		contextPassages = e.searcher.KeywordOnly(ctx, q.Text, limit, q.Category)
	default:
		contextPassages = e.searcher.Search(ctx, q.Text, limit, q.Category, q.MinRelevance)
	}

	var (
		generated *GeneratedAnswer
		err       error
	)
	if providerRetrieval {
		tool := e.cfg.Tool
		if tool.TopK <= 0 {
			tool.TopK = limit
		}
		if q.Category != "" {
			tool.MetadataFilter = fmt.Sprintf("category = %q", q.Category)
		}
		generated, err = e.generator.GenerateWithRetrieval(ctx, q.Text, tool)
	} else {
		prompt := BuildPrompt(q.Text, AssembleContext(contextPassages, e.cfg.ContextBudget))
		generated, err = e.generator.Generate(ctx, prompt)
	}
	if err != nil {
		return Result{}, fmt.Errorf("generating answer: %w", err)
	}

	if providerRetrieval {
		contextPassages = ResolveGroundingReferences(generated.References, e.cfg.UngradedRelevance)
		logger.Debug("grounding references resolved", "count", len(contextPassages))
	}

	relevances := make([]float64, len(contextPassages))
	for i, cp := range contextPassages {
		relevances[i] = cp.Relevance
	}

	return Result{
		Answer:     generated.Text,
		Context:    contextPassages,
		FollowUps:  e.extractor.Extract(generated.Text, e.cfg.MaxFollowUps),
		Confidence: e.cfg.Confidence.Score(relevances),
	}, nil
}

// fallback is the single fatal-error-to-degraded-result conversion for
// the whole pipeline.
func (e *Engine) fallback(q Query, elapsed time.Duration) Result {
	return Result{
		Answer: fmt.Sprintf("I'm sorry, I wasn't able to put together an answer for %q right now. "+
			"Please try again shortly, or rephrase the question.", q.Text),
		Context:    []RetrievedPassage{},
		FollowUps:  []string{},
		Confidence: e.cfg.Confidence.Floor,
		Elapsed:    elapsed,
	}
}
