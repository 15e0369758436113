// Package cmd provides the versemind CLI commands.
//
// Commands:
//   - ask: Generate a grounded answer for a question
//   - search: Retrieve passages without generating an answer
//   - ingest: Embed the whole corpus into the vector index
//   - stats: Show corpus index diagnostics
//
// Long-running commands handle SIGINT/SIGTERM via context
// cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/versemind/versemind/internal/log"
)

// Execute is the main entry point for the versemind CLI.
func Execute() error {
	logger := log.New(log.Config{Level: slog.LevelInfo})
	if os.Getenv("DEBUG") != "" {
		logger = log.New(log.Config{Level: slog.LevelDebug})
	}
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "ask":
		return runAsk(os.Args[2:])
	case "search":
		return runSearch(os.Args[2:])
	case "ingest":
		return runIngest(os.Args[2:])
	case "stats":
		return runStats()
	case "version", "--version", "-v":
		return runVersion()
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("versemind - Grounded question answering over a passage corpus")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  versemind ask [flags] <question>     Generate a grounded answer")
	fmt.Println("  versemind search [flags] <query>     Retrieve passages only")
	fmt.Println("  versemind ingest [flags]             Embed the corpus into the vector index")
	fmt.Println("  versemind stats                      Show corpus index diagnostics")
	fmt.Println("  versemind --version                  Show version information")
	fmt.Println("  versemind --help                     Show this help")
	fmt.Println()
	fmt.Println("Ask/search flags:")
	fmt.Println("  -category <tag>      Restrict retrieval to one topical tag")
	fmt.Println("  -limit <n>           Maximum context passages")
	fmt.Println("  -min-relevance <f>   Relevance floor for vector hits")
	fmt.Println("  -ids <id,id,...>     Answer over explicit passage ids (ask only)")
	fmt.Println()
	fmt.Println("Ingest flags:")
	fmt.Println("  -page-size <n>       Passages per scan page")
	fmt.Println("  -delay <duration>    Pause between pages (e.g. 2s)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY       Required: Gemini API key")
	fmt.Println("  DATABASE_URL         Optional: PostgreSQL connection URL")
	fmt.Println("  DEBUG                Optional: Enable debug logging")
	fmt.Println()
	fmt.Println("Configuration file: ~/.versemind/config.yaml")
}
