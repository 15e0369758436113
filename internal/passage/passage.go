// Package passage provides the durable passage store backing versemind.
//
// Passages are units of retrievable text with a stable numeric identity
// and a book/chapter:verse locator. They are written once by bulk
// ingestion and read-only afterwards. The store supports id lookup,
// keyword (full-text) search, vector similarity search and paginated
// scans over PostgreSQL + pgvector.
package passage

import "time"

// Passage is a single retrievable text unit with structured metadata.
// Identity is ID; rows are immutable once stored.
type Passage struct {
	ID           int64
	CollectionID string // owning corpus, e.g. a translation identifier
	Book         string
	Chapter      int32
	Verse        int32
	Text         string
	Reference    string // human-readable locator, e.g. "James 2:17"
	Category     string // topical tag, empty when untagged
	CreatedAt    time.Time
}

// VectorHit pairs a passage with its cosine distance to a query vector.
// Distance follows the pgvector <=> convention: 0 is identical,
// larger is less similar.
type VectorHit struct {
	Passage  Passage
	Distance float64
}

// Stats summarizes the indexed corpus for diagnostics.
type Stats struct {
	DocumentCount int64
	TotalSize     int64 // sum of passage text lengths in bytes
	LastIndexedAt time.Time
}
