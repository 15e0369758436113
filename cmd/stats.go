package cmd

import (
	"context"
	"fmt"
)

func runStats() error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.engine.IndexStats(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Corpus index:")
	fmt.Printf("  Passages:     %d\n", stats.DocumentCount)
	fmt.Printf("  Text size:    %d bytes\n", stats.TotalSize)
	if stats.LastIndexedAt.IsZero() {
		fmt.Println("  Last indexed: never (run `versemind ingest`)")
	} else {
		fmt.Printf("  Last indexed: %s\n", stats.LastIndexedAt.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}
