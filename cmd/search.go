package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/versemind/versemind/internal/rag"
)

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	category := fs.String("category", "", "restrict retrieval to one topical tag")
	limit := fs.Int("limit", 0, "maximum results")
	minRelevance := fs.Float64("min-relevance", 0, "relevance floor for vector hits")
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("usage: versemind search [flags] <query>")
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.engine.Search(ctx, query, rag.SearchOptions{
		MaxResults:   int32(*limit),
		Category:     *category,
		MinRelevance: *minRelevance,
	})
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No passages found.")
		return nil
	}

	for _, r := range results {
		fmt.Printf("[%3.0f%%] %s\n", r.Relevance*100, r.Passage.Reference)
		fmt.Printf("       %s\n", r.Passage.Text)
	}
	return nil
}
