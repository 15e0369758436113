package passage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
)

// DB is the subset of pgxpool.Pool the store needs.
// Defined by the consumer so tests can substitute a fake pool.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store provides access to the passages table.
// Safe for concurrent use; all mutation happens in single statements.
type Store struct {
	db     DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

const passageColumns = `id, collection_id, book, chapter, verse, text, reference, category, created_at`

// GetByIDs fetches passages by id. The returned slice follows the order
// of ids; unknown ids are skipped rather than reported as errors.
func (s *Store) GetByIDs(ctx context.Context, ids []int64) ([]Passage, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+passageColumns+` FROM passages WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching passages by id: %w", err)
	}
	fetched, err := scanPassages(rows)
	if err != nil {
		return nil, err
	}

	// SQL gives no ordering guarantee for ANY($1); restore input order.
	byID := make(map[int64]Passage, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}
	ordered := make([]Passage, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// KeywordSearch performs full-text search over passage text and
// reference. category narrows the scan when non-empty; it is applied
// in SQL so filtered rows never count toward limit.
func (s *Store) KeywordSearch(ctx context.Context, query string, limit int32, category string) ([]Passage, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+passageColumns+`
		FROM passages
		WHERE to_tsvector('english', text || ' ' || reference) @@ websearch_to_tsquery('english', $1)
		  AND ($2 = '' OR category = $2)
		ORDER BY ts_rank(to_tsvector('english', text), websearch_to_tsquery('english', $1)) DESC, id
		LIMIT $3`,
		query, category, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return scanPassages(rows)
}

// VectorSearch returns the nearest neighbors to embedding by cosine
// distance, pre-filtered by category when non-empty. Passages without
// an embedding are excluded.
func (s *Store) VectorSearch(ctx context.Context, embedding []float32, limit int32, category string) ([]VectorHit, error) {
	vec := pgvector.NewVector(embedding)
	rows, err := s.db.Query(ctx, `
		SELECT `+passageColumns+`, embedding <=> $1 AS distance
		FROM passages
		WHERE embedding IS NOT NULL
		  AND ($2 = '' OR category = $2)
		ORDER BY embedding <=> $1
		LIMIT $3`,
		vec, category, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var hits []VectorHit
	for rows.Next() {
		var (
			h         VectorHit
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&h.Passage.ID, &h.Passage.CollectionID, &h.Passage.Book,
			&h.Passage.Chapter, &h.Passage.Verse, &h.Passage.Text, &h.Passage.Reference,
			&h.Passage.Category, &createdAt, &h.Distance); err != nil {
			return nil, fmt.Errorf("scanning vector hit: %w", err)
		}
		if createdAt.Valid {
			h.Passage.CreatedAt = createdAt.Time
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading vector hits: %w", err)
	}
	return hits, nil
}

// ScanPage returns one id-ordered page of passages. An empty page
// signals the end of the corpus to callers iterating with offsets.
func (s *Store) ScanPage(ctx context.Context, offset, pageSize int32) ([]Passage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+passageColumns+` FROM passages ORDER BY id LIMIT $1 OFFSET $2`,
		pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("scanning passages page: %w", err)
	}
	return scanPassages(rows)
}

// UpsertEmbedding writes the embedding for a passage and stamps its
// indexed_at time. Used by batch ingestion.
func (s *Store) UpsertEmbedding(ctx context.Context, id int64, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	tag, err := s.db.Exec(ctx,
		`UPDATE passages SET embedding = $2, indexed_at = now() WHERE id = $1`,
		id, vec)
	if err != nil {
		return fmt.Errorf("upserting embedding for passage %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("upserting embedding: passage %d not found", id)
	}

	s.logger.Debug("embedding stored", "passage_id", id, "dimensions", len(embedding))
	return nil
}

// Stats returns corpus-level diagnostics for the index.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		stats     Stats
		indexedAt pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, `
		SELECT count(*), COALESCE(sum(length(text)), 0), max(indexed_at)
		FROM passages`).Scan(&stats.DocumentCount, &stats.TotalSize, &indexedAt)
	if err != nil {
		return Stats{}, fmt.Errorf("reading passage stats: %w", err)
	}
	if indexedAt.Valid {
		stats.LastIndexedAt = indexedAt.Time
	}
	return stats, nil
}

// scanPassages drains rows into passages. Closes rows.
func scanPassages(rows pgx.Rows) ([]Passage, error) {
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var (
			p         Passage
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&p.ID, &p.CollectionID, &p.Book, &p.Chapter, &p.Verse,
			&p.Text, &p.Reference, &p.Category, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		if createdAt.Valid {
			p.CreatedAt = createdAt.Time
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading passages: %w", err)
	}
	return passages, nil
}

// Touch is a cheap connectivity probe used by CLI startup.
func (s *Store) Touch(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var one int
	if err := s.db.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("passage store unreachable: %w", err)
	}
	return nil
}
