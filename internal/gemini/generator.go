package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/versemind/versemind/internal/rag"
)

// DefaultTimeout bounds a single generation call. Provider timeouts
// route into the engine's fallback path like any other failure.
const DefaultTimeout = 60 * time.Second

// Generator implements rag.Generator against the Gemini API.
type Generator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGenerator creates a Gemini-backed generator. apiKey may be empty,
// in which case the client resolves GEMINI_API_KEY from the
// environment.
func NewGenerator(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Generator{
		client:  client,
		model:   model,
		timeout: DefaultTimeout,
		logger:  logger,
	}, nil
}

// Generate answers a fully assembled prompt as plain text generation.
func (g *Generator) Generate(ctx context.Context, prompt string) (*rag.GeneratedAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", rag.ErrGenerationFailed, err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: model returned no text", rag.ErrGenerationFailed)
	}

	g.logger.Debug("generation complete",
		"model", g.model,
		"prompt_length", len(prompt),
		"elapsed", time.Since(start))

	return &rag.GeneratedAnswer{Text: text}, nil
}

// GenerateWithRetrieval sends the raw query with a File Search tool
// directive; Gemini retrieves from the named store internally and
// returns grounding chunks alongside the answer.
func (g *Generator) GenerateWithRetrieval(ctx context.Context, query string, tool rag.RetrievalTool) (*rag.GeneratedAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	fileSearch := &genai.FileSearch{
		FileSearchStoreNames: []string{tool.StoreName},
	}
	if tool.MetadataFilter != "" {
		fileSearch.MetadataFilter = tool.MetadataFilter
	}
	if tool.TopK > 0 {
		fileSearch.TopK = genai.Ptr(tool.TopK)
	}

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{FileSearch: fileSearch}},
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(query), config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", rag.ErrGenerationFailed, err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: model returned no text", rag.ErrGenerationFailed)
	}

	refs := groundingReferences(resp)
	g.logger.Debug("grounded generation complete",
		"model", g.model,
		"store", tool.StoreName,
		"grounding_references", len(refs),
		"elapsed", time.Since(start))

	return &rag.GeneratedAnswer{Text: text, References: refs}, nil
}

// groundingReferences extracts retrieved-context grounding chunks from
// the first candidate. Chunks without retrieved context (web results)
// are skipped.
func groundingReferences(resp *genai.GenerateContentResponse) []rag.GroundingReference {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var refs []rag.GroundingReference
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.RetrievedContext == nil {
			continue
		}
		refs = append(refs, rag.GroundingReference{
			Text:       chunk.RetrievedContext.Text,
			SourceHint: chunk.RetrievedContext.Title,
		})
	}
	return refs
}
