package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/versemind/versemind/internal/rag"
)

func runAsk(args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	category := fs.String("category", "", "restrict retrieval to one topical tag")
	limit := fs.Int("limit", 0, "maximum context passages")
	minRelevance := fs.Float64("min-relevance", 0, "relevance floor for vector hits")
	ids := fs.String("ids", "", "comma-separated passage ids to answer over")
	if err := fs.Parse(args); err != nil {
		return err
	}

	question := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("usage: versemind ask [flags] <question>")
	}

	passageIDs, err := parseIDs(*ids)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.engine.GenerateAnswer(ctx, rag.Query{
		Text:         question,
		MaxResults:   int32(*limit),
		MinRelevance: *minRelevance,
		Category:     *category,
		PassageIDs:   passageIDs,
	})
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(result rag.Result) {
	fmt.Println(result.Answer)

	if len(result.Context) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, cp := range result.Context {
			ref := cp.Passage.Reference
			if ref == "" {
				ref = "(unresolved)"
			}
			fmt.Printf("  %s (relevance %.0f%%)\n", ref, cp.Relevance*100)
		}
	}

	if len(result.FollowUps) > 0 {
		fmt.Println()
		fmt.Println("You might also ask:")
		for _, q := range result.FollowUps {
			fmt.Printf("  - %s\n", q)
		}
	}

	fmt.Println()
	fmt.Printf("Confidence: %.0f%% (%.2fs)\n", result.Confidence*100, result.Elapsed.Seconds())
}

// parseIDs parses a comma-separated id list. Empty input yields nil.
func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid passage id %q", part)
		}
		if id <= 0 {
			return nil, fmt.Errorf("invalid passage id %d: must be positive", id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
