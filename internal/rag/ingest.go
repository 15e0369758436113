package rag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"golang.org/x/time/rate"

	"github.com/versemind/versemind/internal/passage"
)

// IngestStore is the storage surface batch ingestion needs.
type IngestStore interface {
	ScanPage(ctx context.Context, offset, pageSize int32) ([]passage.Passage, error)
	UpsertEmbedding(ctx context.Context, id int64, embedding []float32) error
}

// IngestConfig carries batch ingestion settings.
type IngestConfig struct {
	// PageSize is the scan page size. Default 50.
	PageSize int32

	// InterBatchDelay is the mandatory pause between pages, the
	// backpressure device that keeps the embedding provider under its
	// rate limits. Default 2 seconds. Zero disables the pause (tests).
	InterBatchDelay time.Duration
}

// DefaultIngestConfig returns the stock ingestion settings.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		PageSize:        50,
		InterBatchDelay: 2 * time.Second,
	}
}

// IngestReport summarizes one ProcessAll run.
type IngestReport struct {
	Scanned int
	Indexed int
	Failed  int
	Elapsed time.Duration
}

// Ingestor embeds the whole corpus into the vector index, page by
// page. Per-passage embedding failures are logged and skipped; they
// never abort the batch.
type Ingestor struct {
	store    IngestStore
	embedder ai.Embedder
	cfg      IngestConfig
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewIngestor creates an Ingestor.
func NewIngestor(store IngestStore, embedder ai.Embedder, cfg IngestConfig, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultIngestConfig().PageSize
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.InterBatchDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.InterBatchDelay), 1)
	}

	return &Ingestor{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		limiter:  limiter,
		logger:   logger,
	}
}

// ProcessAll scans every passage, computes its embedding and writes it
// to the vector index. The page loop stops at the first short page, so
// a corpus of 120 rows with page size 50 issues exactly three scans
// (50, 50, 20). Returns an error only when a page scan itself fails or
// the context is canceled.
func (ing *Ingestor) ProcessAll(ctx context.Context) (IngestReport, error) {
	start := time.Now()
	report := IngestReport{}

	for offset := int32(0); ; offset += ing.cfg.PageSize {
		// Backpressure: one page per InterBatchDelay interval. The
		// first page consumes the limiter's initial token immediately.
		if err := ing.limiter.Wait(ctx); err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("ingestion canceled: %w", err)
		}

		page, err := ing.store.ScanPage(ctx, offset, ing.cfg.PageSize)
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("scanning page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		for _, p := range page {
			report.Scanned++
			if err := ing.processOne(ctx, p); err != nil {
				report.Failed++
				ing.logger.Warn("skipping passage after embedding failure",
					"passage_id", p.ID,
					"reference", p.Reference,
					"error", err)
				continue
			}
			report.Indexed++
		}

		ing.logger.Debug("page ingested",
			"offset", offset,
			"rows", len(page),
			"indexed", report.Indexed,
			"failed", report.Failed)

		if int32(len(page)) < ing.cfg.PageSize {
			break
		}
	}

	report.Elapsed = time.Since(start)
	ing.logger.Info("corpus ingestion complete",
		"scanned", report.Scanned,
		"indexed", report.Indexed,
		"failed", report.Failed,
		"elapsed", report.Elapsed)
	return report, nil
}

func (ing *Ingestor) processOne(ctx context.Context, p passage.Passage) error {
	embedding, err := embedText(ctx, ing.embedder, p.Text)
	if err != nil {
		return err
	}
	if err := ing.store.UpsertEmbedding(ctx, p.ID, embedding); err != nil {
		return err
	}
	return nil
}
