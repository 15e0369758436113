package passage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versemind/versemind/internal/testutil"
)

// embeddingDim matches the vector(768) column in the passages schema.
const embeddingDim = 768

// testEmbedding builds a 768-dim vector that is all zeros except for a
// single axis, so cosine distances between test vectors are exact:
// same axis = 0, different axis = 1.
func testEmbedding(axis int) []float32 {
	vec := make([]float32, embeddingDim)
	vec[axis] = 1
	return vec
}

func seedPassages(t *testing.T, ctx context.Context, db *testutil.TestDBContainer, passages []Passage) []int64 {
	t.Helper()

	ids := make([]int64, len(passages))
	for i, p := range passages {
		err := db.Pool.QueryRow(ctx, `
			INSERT INTO passages (collection_id, book, chapter, verse, text, reference, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			p.CollectionID, p.Book, p.Chapter, p.Verse, p.Text, p.Reference, p.Category,
		).Scan(&ids[i])
		require.NoError(t, err, "seeding passage %s", p.Reference)
	}
	return ids
}

func testCorpus() []Passage {
	return []Passage{
		{CollectionID: "web", Book: "James", Chapter: 2, Verse: 17, Text: "Even so faith, if it has no works, is dead in itself.", Reference: "James 2:17", Category: "epistles"},
		{CollectionID: "web", Book: "James", Chapter: 2, Verse: 26, Text: "For as the body apart from the spirit is dead, even so faith apart from works is dead.", Reference: "James 2:26", Category: "epistles"},
		{CollectionID: "web", Book: "Psalms", Chapter: 23, Verse: 1, Text: "The Lord is my shepherd. I shall lack nothing.", Reference: "Psalm 23:1", Category: "wisdom"},
	}
}

func TestStore_GetByIDs_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store := NewStore(db.Pool, testutil.DiscardLogger())
	ids := seedPassages(t, ctx, db, testCorpus())

	// Request in reverse order; results must follow the request order.
	got, err := store.GetByIDs(ctx, []int64{ids[2], ids[0]})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Psalm 23:1", got[0].Reference)
	assert.Equal(t, "James 2:17", got[1].Reference)
	assert.False(t, got[0].CreatedAt.IsZero(), "created_at should be populated")

	// Unknown ids are skipped, not errors.
	got, err = store.GetByIDs(ctx, []int64{ids[0], 999999})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = store.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_KeywordSearch_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store := NewStore(db.Pool, testutil.DiscardLogger())
	seedPassages(t, ctx, db, testCorpus())

	got, err := store.KeywordSearch(ctx, "faith works", 10, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "James", p.Book)
	}

	// Reference text is searchable too.
	got, err = store.KeywordSearch(ctx, "shepherd", 10, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Psalm 23:1", got[0].Reference)

	// Category narrows the scan before the limit applies.
	got, err = store.KeywordSearch(ctx, "faith works", 10, "wisdom")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = store.KeywordSearch(ctx, "no such phrase anywhere", 10, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_VectorSearch_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store := NewStore(db.Pool, testutil.DiscardLogger())
	ids := seedPassages(t, ctx, db, testCorpus())

	// Axis 0 for the James passages, axis 1 for the psalm. The third
	// passage stays unembedded and must never appear.
	require.NoError(t, store.UpsertEmbedding(ctx, ids[0], testEmbedding(0)))
	require.NoError(t, store.UpsertEmbedding(ctx, ids[1], testEmbedding(1)))

	hits, err := store.VectorSearch(ctx, testEmbedding(0), 10, "")
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, ids[0], hits[0].Passage.ID)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6, "identical vectors have distance 0")
	assert.Equal(t, ids[1], hits[1].Passage.ID)
	assert.InDelta(t, 1.0, hits[1].Distance, 1e-6, "orthogonal vectors have distance 1")

	// Category filter applies before the limit.
	hits, err = store.VectorSearch(ctx, testEmbedding(0), 10, "wisdom")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStore_ScanPage_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store := NewStore(db.Pool, testutil.DiscardLogger())

	var corpus []Passage
	for i := 0; i < 5; i++ {
		corpus = append(corpus, Passage{
			CollectionID: "web", Book: "Psalms", Chapter: 1, Verse: int32(i + 1),
			Text: fmt.Sprintf("verse %d", i+1), Reference: fmt.Sprintf("Psalm 1:%d", i+1),
		})
	}
	seedPassages(t, ctx, db, corpus)

	page, err := store.ScanPage(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = store.ScanPage(ctx, 4, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1, "final page is short")

	page, err = store.ScanPage(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page, "offset past the end yields an empty page")
}

func TestStore_UpsertEmbedding_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store := NewStore(db.Pool, testutil.DiscardLogger())
	ids := seedPassages(t, ctx, db, testCorpus()[:1])

	require.NoError(t, store.UpsertEmbedding(ctx, ids[0], testEmbedding(0)))

	// Re-upserting overwrites; the passage moves to the new position.
	require.NoError(t, store.UpsertEmbedding(ctx, ids[0], testEmbedding(1)))
	hits, err := store.VectorSearch(ctx, testEmbedding(1), 1, "")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)

	// Unknown id is an error, unlike read paths.
	err = store.UpsertEmbedding(ctx, 999999, testEmbedding(0))
	assert.Error(t, err)
}

func TestStore_Stats_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store := NewStore(db.Pool, testutil.DiscardLogger())

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.DocumentCount)
	assert.True(t, stats.LastIndexedAt.IsZero(), "empty corpus has no index time")

	corpus := testCorpus()
	ids := seedPassages(t, ctx, db, corpus)
	require.NoError(t, store.UpsertEmbedding(ctx, ids[0], testEmbedding(0)))

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(corpus)), stats.DocumentCount)
	assert.Positive(t, stats.TotalSize)
	assert.False(t, stats.LastIndexedAt.IsZero())

	require.NoError(t, store.Touch(ctx))
}
