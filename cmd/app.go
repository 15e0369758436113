package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/versemind/versemind/db"
	"github.com/versemind/versemind/internal/config"
	"github.com/versemind/versemind/internal/gemini"
	"github.com/versemind/versemind/internal/passage"
	"github.com/versemind/versemind/internal/rag"
)

// app bundles the wired components a command needs.
type app struct {
	cfg      *config.Config
	pool     *pgxpool.Pool
	store    *passage.Store
	embedder ai.Embedder
	engine   *rag.Engine
	logger   *slog.Logger
}

// Close releases the app's resources.
func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// newApp loads configuration, connects to PostgreSQL, applies pending
// migrations and wires the RAG engine. Call Close when done.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, hintForConfigError(err)
	}

	logger := slog.Default()

	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}

	store := passage.NewStore(pool, logger)
	if err := store.Touch(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	embedder, err := gemini.NewEmbedder(ctx, cfg.EmbedderModel)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing embedder: %w", err)
	}

	generator, err := gemini.NewGenerator(ctx, os.Getenv("GEMINI_API_KEY"), cfg.ModelName, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing generator: %w", err)
	}

	searcher := rag.NewSearcher(store, embedder, rag.SearcherConfig{
		MinRelevance:      cfg.MinRelevance,
		UngradedRelevance: cfg.UngradedRelevance,
	}, logger)

	engine := rag.NewEngine(store, searcher, generator, nil, rag.EngineConfig{
		Mode:              rag.RetrievalMode(cfg.RetrievalMode),
		ResultLimit:       cfg.ResultLimit,
		ContextBudget:     cfg.ContextBudget,
		Tool:              rag.RetrievalTool{StoreName: cfg.RetrievalStore},
		UngradedRelevance: cfg.UngradedRelevance,
		Confidence: rag.ConfidenceConfig{
			PeakWeight: cfg.ConfidencePeakWeight,
			MeanWeight: cfg.ConfidenceMeanWeight,
			Ceiling:    cfg.ConfidenceCeiling,
			Floor:      rag.DefaultConfidenceConfig().Floor,
		},
	}, logger)

	return &app{
		cfg:      cfg,
		pool:     pool,
		store:    store,
		embedder: embedder,
		engine:   engine,
		logger:   logger,
	}, nil
}

// hintForConfigError attaches setup instructions to the errors a new
// user is most likely to hit.
func hintForConfigError(err error) error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "versemind requires a Gemini API key to function.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "To set your API key:")
		fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Get your API key at: https://ai.google.dev/")
	}
	return fmt.Errorf("invalid configuration: %w", err)
}
