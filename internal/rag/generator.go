package rag

import (
	"context"
	"fmt"
	"strings"
)

// Generator is the generative-provider surface the Engine needs.
// Implementations must wrap provider failures (timeout, quota,
// malformed response) in ErrGenerationFailed and never panic; the
// Engine converts that error into the fallback answer.
type Generator interface {
	// Generate answers a fully assembled prompt.
	Generate(ctx context.Context, prompt string) (*GeneratedAnswer, error)

	// GenerateWithRetrieval sends the raw user query together with a
	// retrieval tool directive; the provider retrieves internally and
	// returns grounding references alongside the answer.
	GenerateWithRetrieval(ctx context.Context, query string, tool RetrievalTool) (*GeneratedAnswer, error)
}

// BuildPrompt interpolates the assembled context block into the fixed
// instructional template for application-managed retrieval.
//
// The template fixes four content requirements: answers ground
// primarily in the supplied context, citations use the
// "<Book> <chapter>:<verse>" reference style, insufficient context is
// acknowledged rather than papered over, and related passages are
// suggested.
func BuildPrompt(query, contextBlock string) string {
	var b strings.Builder

	b.WriteString("You are a careful study assistant answering questions about a collection of passages.\n\n")
	b.WriteString("Instructions:\n")
	b.WriteString("- Ground your answer primarily in the context passages below.\n")
	b.WriteString("- Cite passages using their reference in the form \"<Book> <chapter>:<verse>\" (for example, James 2:17).\n")
	b.WriteString("- If the context is insufficient to answer, say so plainly instead of speculating.\n")
	b.WriteString("- Close by suggesting related passages the reader may want to study next.\n\n")

	if contextBlock != "" {
		b.WriteString("Context passages (with retrieval relevance):\n")
		b.WriteString(contextBlock)
		b.WriteString("\n\n")
	} else {
		b.WriteString("No context passages were retrieved for this question.\n\n")
	}

	fmt.Fprintf(&b, "Question: %s\n", query)
	return b.String()
}
