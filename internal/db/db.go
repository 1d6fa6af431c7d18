package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"pdf-rag/internal/config"
	"pdf-rag/internal/errs"
	"pdf-rag/internal/models"
	"pdf-rag/internal/store"
)

// Document is one stored chunk row. The vector column dimension is fixed per
// deployment; all rows of a collection share the embedding model.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Collection    string    `bun:"collection,notnull"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(768)"`
	Source        string    `bun:"source"`
	PageNumber    int       `bun:"page_number"`
	Sequence      int       `bun:"sequence"`
	Distance      float64   `bun:"distance,scanonly"`
}

// Store is the Postgres/pgvector backend. Distance is the index's `<->`
// operator, ascending.
type Store struct {
	db *bun.DB
}

// Connect opens the Postgres connection and verifies it is reachable.
func Connect(cfg *config.StoreConfig) (*Store, error) {
	dsn := cfg.DSN + "?sslmode=disable"
	opts := []pgdriver.Option{pgdriver.WithDSN(dsn)}
	if cfg.Password != "" {
		opts = append(opts, pgdriver.WithPassword(cfg.Password))
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))

	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%w: pinging postgres: %v", errs.ErrStoreConnection, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the documents table if needed.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*Document)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("%w: creating documents table: %v", errs.ErrStoreConnection, err)
	}
	return nil
}

// Replace deletes the collection's rows and inserts records in their place,
// both inside one transaction so readers never see a half-replaced state.
func (s *Store) Replace(ctx context.Context, collection string, records []store.Record) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Document)(nil)).
			Where("collection = ?", collection).
			Exec(ctx); err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		docs := make([]Document, len(records))
		for i, r := range records {
			docs[i] = Document{
				Collection: collection,
				Content:    r.Text,
				Embedding:  r.Vector,
				Source:     r.Metadata[models.MetaSource],
				PageNumber: atoiOrZero(r.Metadata[models.MetaPage]),
				Sequence:   atoiOrZero(r.Metadata[models.MetaSequence]),
			}
		}
		_, err := tx.NewInsert().Model(&docs).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: replacing collection %s: %v", errs.ErrStoreConnection, collection, err)
	}
	return nil
}

// Query returns the k nearest rows of the collection by `<->` distance.
func (s *Store) Query(ctx context.Context, collection string, vector []float32, k int) ([]store.Result, error) {
	var docs []Document
	err := s.db.NewSelect().
		Model(&docs).
		ColumnExpr("d.*").
		ColumnExpr("embedding <-> ? AS distance", vector).
		Where("collection = ?", collection).
		OrderExpr("embedding <-> ?", vector).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: querying collection %s: %v", errs.ErrStoreConnection, collection, err)
	}

	results := make([]store.Result, len(docs))
	for i, d := range docs {
		results[i] = store.Result{
			Record: store.Record{
				ID:     strconv.FormatInt(d.ID, 10),
				Text:   d.Content,
				Vector: d.Embedding,
				Metadata: map[string]string{
					models.MetaSource:   d.Source,
					models.MetaPage:     strconv.Itoa(d.PageNumber),
					models.MetaSequence: strconv.Itoa(d.Sequence),
				},
			},
			Distance: float32(d.Distance),
		}
	}
	return results, nil
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
