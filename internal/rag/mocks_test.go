package rag

import (
	"context"
	"sync"

	"github.com/versemind/versemind/internal/passage"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockSearchStore implements SearchStore for testing
type mockSearchStore struct {
	mu sync.Mutex

	keywordResults []passage.Passage
	keywordErr     error
	keywordCalls   int
	lastKeyword    string
	lastCategory   string

	vectorResults []passage.VectorHit
	vectorErr     error
	vectorCalls   int
	lastEmbedding []float32
}

func (m *mockSearchStore) KeywordSearch(_ context.Context, query string, _ int32, category string) ([]passage.Passage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keywordCalls++
	m.lastKeyword = query
	m.lastCategory = category
	if m.keywordErr != nil {
		return nil, m.keywordErr
	}
	return m.keywordResults, nil
}

func (m *mockSearchStore) VectorSearch(_ context.Context, embedding []float32, _ int32, category string) ([]passage.VectorHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectorCalls++
	m.lastEmbedding = embedding
	m.lastCategory = category
	if m.vectorErr != nil {
		return nil, m.vectorErr
	}
	return m.vectorResults, nil
}

// mockEngineStore implements EngineStore for testing
type mockEngineStore struct {
	passages []passage.Passage
	getErr   error
	getCalls int
	lastIDs  []int64
	stats    passage.Stats
	statsErr error
}

func (m *mockEngineStore) GetByIDs(_ context.Context, ids []int64) ([]passage.Passage, error) {
	m.getCalls++
	m.lastIDs = ids
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.passages, nil
}

func (m *mockEngineStore) Stats(_ context.Context) (passage.Stats, error) {
	if m.statsErr != nil {
		return passage.Stats{}, m.statsErr
	}
	return m.stats, nil
}

// mockSearcher implements PassageSearcher with call tracking
type mockSearcher struct {
	results      []RetrievedPassage
	searchCalls  int
	keywordCalls int
	lastQuery    string
	lastLimit    int32
	lastCategory string
	lastMinRel   float64
}

func (m *mockSearcher) Search(_ context.Context, query string, limit int32, category string, minRelevance float64) []RetrievedPassage {
	m.searchCalls++
	m.lastQuery = query
	m.lastLimit = limit
	m.lastCategory = category
	m.lastMinRel = minRelevance
	return m.results
}

func (m *mockSearcher) KeywordOnly(_ context.Context, query string, limit int32, category string) []RetrievedPassage {
	m.keywordCalls++
	m.lastQuery = query
	m.lastLimit = limit
	m.lastCategory = category
	return m.results
}

// mockGenerator implements Generator with call and parameter tracking
type mockGenerator struct {
	answer         *GeneratedAnswer
	generateErr    error
	generateCalls  int
	lastPrompt     string
	retrievalCalls int
	lastQuery      string
	lastTool       RetrievalTool
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (*GeneratedAnswer, error) {
	m.generateCalls++
	m.lastPrompt = prompt
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return m.answer, nil
}

func (m *mockGenerator) GenerateWithRetrieval(_ context.Context, query string, tool RetrievalTool) (*GeneratedAnswer, error) {
	m.retrievalCalls++
	m.lastQuery = query
	m.lastTool = tool
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return m.answer, nil
}

// mockIngestStore implements IngestStore over a fixed in-memory corpus
type mockIngestStore struct {
	corpus      []passage.Passage
	scanErr     error
	scanCalls   int
	upsertErr   map[int64]error // per-passage upsert failures
	upsertCalls int
	upsertedIDs []int64
}

func (m *mockIngestStore) ScanPage(_ context.Context, offset, pageSize int32) ([]passage.Passage, error) {
	m.scanCalls++
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	if int(offset) >= len(m.corpus) {
		return []passage.Passage{}, nil
	}
	end := int(offset + pageSize)
	if end > len(m.corpus) {
		end = len(m.corpus)
	}
	return m.corpus[offset:end], nil
}

func (m *mockIngestStore) UpsertEmbedding(_ context.Context, id int64, _ []float32) error {
	m.upsertCalls++
	if err, ok := m.upsertErr[id]; ok {
		return err
	}
	m.upsertedIDs = append(m.upsertedIDs, id)
	return nil
}

// ============================================================================
// Test Fixtures
// ============================================================================

func testPassage(id int64, ref, text string) passage.Passage {
	return passage.Passage{
		ID:           id,
		CollectionID: "test",
		Reference:    ref,
		Text:         text,
	}
}
