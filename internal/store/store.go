package store

import "context"

// Record is one stored chunk: text, its embedding and tracing metadata
// (source filename, page number, sequence index).
type Record struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata map[string]string
}

// Result pairs a record with its distance to the query vector. Smaller is
// more similar.
type Result struct {
	Record   Record
	Distance float32
}

// Store persists embedded chunks grouped by named collection and answers
// nearest-neighbor queries against one collection.
type Store interface {
	// Replace supersedes the collection's previous contents with records.
	// Re-ingesting the same document is therefore idempotent.
	Replace(ctx context.Context, collection string, records []Record) error

	// Query returns at most k records ordered by ascending distance under
	// the backend's distance metric. A missing or empty collection yields
	// an empty result, not an error.
	Query(ctx context.Context, collection string, vector []float32, k int) ([]Result, error)
}
