// Package gemini wires versemind to Google's Gemini models: a Genkit
// embedder for vector embeddings and a genai client for answer
// generation, including provider-managed retrieval via File Search.
package gemini

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
)

// NewEmbedder initializes Genkit with the Google AI plugin and returns
// an embedder for the given model (e.g. "gemini-embedding-001").
// Requires GEMINI_API_KEY in the environment.
func NewEmbedder(ctx context.Context, model string) (ai.Embedder, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))

	embedder := googlegenai.GoogleAIEmbedder(g, model)
	if embedder == nil {
		return nil, fmt.Errorf("no embedder available for model %q", model)
	}
	return embedder, nil
}
