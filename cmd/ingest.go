package cmd

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/versemind/versemind/internal/rag"
)

func runIngest(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	pageSize := fs.Int("page-size", 0, "passages per scan page")
	delay := fs.Duration("delay", -1, "pause between pages")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Ingestion runs for minutes on a large corpus; Ctrl+C stops it
	// cleanly at the next page boundary.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := rag.IngestConfig{
		PageSize:        a.cfg.IngestPageSize,
		InterBatchDelay: a.cfg.InterBatchDelay,
	}
	if *pageSize > 0 {
		cfg.PageSize = int32(*pageSize)
	}
	if *delay >= 0 {
		cfg.InterBatchDelay = *delay
	}

	ingestor := rag.NewIngestor(a.store, a.embedder, cfg, a.logger)

	fmt.Printf("Ingesting corpus (page size %d, delay %s)...\n", cfg.PageSize, cfg.InterBatchDelay)
	start := time.Now()

	report, err := ingestor.ProcessAll(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Done in %s: %d scanned, %d indexed, %d failed\n",
		time.Since(start).Round(time.Millisecond), report.Scanned, report.Indexed, report.Failed)
	return nil
}
