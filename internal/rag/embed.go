package rag

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
)

// embedText generates a single embedding vector for text.
// Wraps provider failures in ErrEmbeddingUnavailable so callers can
// route to the keyword fallback with errors.Is().
func embedText(ctx context.Context, embedder ai.Embedder, text string) ([]float32, error) {
	resp, err := embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{
			ai.DocumentFromText(text, nil),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", ErrEmbeddingUnavailable)
	}

	return resp.Embeddings[0].Embedding, nil
}
