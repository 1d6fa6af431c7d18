package chromemdb

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"pdf-rag/internal/errs"
	"pdf-rag/internal/store"
)

const compress = false

// Store is the embedded chromem-go backend. Collections live in memory or
// under a persistence directory; similarity is cosine.
type Store struct {
	db       *chromem.DB
	inMemory bool
}

// NewStore opens (or creates) the chromem database at dbPath. With inMemory
// set, nothing touches disk; useful for tests and throwaway sessions.
func NewStore(dbPath string, inMemory bool) (*Store, error) {
	if inMemory {
		return &Store{db: chromem.NewDB(), inMemory: true}, nil
	}
	db, err := chromem.NewPersistentDB(dbPath, compress)
	if err != nil {
		return nil, fmt.Errorf("%w: opening chromem database at %s: %v", errs.ErrStoreConnection, dbPath, err)
	}
	return &Store{db: db}, nil
}

// Replace drops the collection if present and recreates it from records.
func (s *Store) Replace(ctx context.Context, collection string, records []store.Record) error {
	if s.db.GetCollection(collection, nil) != nil {
		if err := s.db.DeleteCollection(collection); err != nil {
			return fmt.Errorf("%w: deleting collection %s: %v", errs.ErrStoreConnection, collection, err)
		}
		log.Debug().Str("collection", collection).Msg("Superseding existing collection")
	}

	c, err := s.db.CreateCollection(collection, nil, nil)
	if err != nil {
		return fmt.Errorf("%w: creating collection %s: %v", errs.ErrStoreConnection, collection, err)
	}
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(records))
	for i, r := range records {
		docs[i] = chromem.Document{
			ID:        r.ID,
			Content:   r.Text,
			Metadata:  r.Metadata,
			Embedding: r.Vector,
		}
	}
	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("%w: adding %d documents to %s: %v", errs.ErrStoreConnection, len(docs), collection, err)
	}
	return nil
}

// Query runs a nearest-neighbor search. chromem reports cosine similarity
// (higher is closer) in descending order; results are converted to cosine
// distance so callers always see ascending distance.
func (s *Store) Query(ctx context.Context, collection string, vector []float32, k int) ([]store.Result, error) {
	c := s.db.GetCollection(collection, nil)
	if c == nil {
		return nil, nil
	}
	count := c.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := c.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: querying collection %s: %v", errs.ErrStoreConnection, collection, err)
	}

	out := make([]store.Result, len(results))
	for i, r := range results {
		out[i] = store.Result{
			Record: store.Record{
				ID:       r.ID,
				Text:     r.Content,
				Vector:   r.Embedding,
				Metadata: r.Metadata,
			},
			Distance: 1 - r.Similarity,
		}
	}
	return out, nil
}
