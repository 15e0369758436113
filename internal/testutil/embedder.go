// Package testutil provides shared testing utilities for versemind,
// following the pattern of net/http/httptest: reusable fakes and
// environment helpers that multiple packages need.
package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
)

// MockEmbedder is a deterministic ai.Embedder for tests. The same text
// always produces the same unit vector, so cosine relationships are
// stable across runs. Explicit vectors can be registered to control
// exact similarities, and the embedder can be forced to fail to
// exercise the keyword fallback path.
//
// Safe for concurrent use.
type MockEmbedder struct {
	mu        sync.Mutex
	dim       int
	vectors   map[string][]float32
	embedErr  error
	callCount int
}

// NewMockEmbedder creates a mock embedder producing dim-sized vectors.
func NewMockEmbedder(dim int) *MockEmbedder {
	return &MockEmbedder{
		dim:     dim,
		vectors: make(map[string][]float32),
	}
}

// SetVector registers an explicit vector for a content string.
func (e *MockEmbedder) SetVector(content string, vec []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vectors[content] = vec
}

// FailWith makes every subsequent Embed call return err.
// Pass nil to restore normal behavior.
func (e *MockEmbedder) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.embedErr = err
}

// CallCount reports how many Embed calls were made.
func (e *MockEmbedder) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.callCount
}

// Name implements ai.Embedder.
func (*MockEmbedder) Name() string { return "mock/test-embedder" }

// Register implements ai.Embedder. No-op for testing.
func (*MockEmbedder) Register(api.Registry) {}

// Embed implements ai.Embedder.
func (e *MockEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	e.mu.Lock()
	e.callCount++
	err := e.embedErr
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	embeddings := make([]*ai.Embedding, len(req.Input))
	for i, doc := range req.Input {
		embeddings[i] = &ai.Embedding{
			Embedding: e.vectorFor(documentText(doc)),
		}
	}
	return &ai.EmbedResponse{Embeddings: embeddings}, nil
}

func (e *MockEmbedder) vectorFor(content string) []float32 {
	e.mu.Lock()
	if v, ok := e.vectors[content]; ok {
		e.mu.Unlock()
		return v
	}
	e.mu.Unlock()

	return deterministicVector(content, e.dim)
}

// documentText concatenates all text parts of a document.
func documentText(doc *ai.Document) string {
	var sb strings.Builder
	for _, p := range doc.Content {
		if p.Kind == ai.PartText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// deterministicVector generates a normalized vector from content via
// SHA-256, so identical content maps to identical vectors.
func deterministicVector(content string, dim int) []float32 {
	hash := sha256.Sum256([]byte(content))
	vec := make([]float32, dim)

	for i := range vec {
		idx := (i * 4) % len(hash)
		bits := binary.LittleEndian.Uint32([]byte{
			hash[idx%32],
			hash[(idx+1)%32],
			hash[(idx+2)%32],
			hash[(idx+3)%32],
		})
		vec[i] = (float32(bits)/float32(math.MaxUint32))*2 - 1
	}

	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	norm = float32(math.Sqrt(float64(norm)))
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}
