// Package vectorstore persists chunk embeddings and serves k-nearest-neighbor
// retrieval over them.
package vectorstore

import (
	"context"
	"fmt"

	"contract-rag/internal/config"
	"contract-rag/internal/models"
)

// Embedder turns text into a fixed-length vector. Satisfied by
// langchaingo's embeddings.EmbedderImpl.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Store is a persistent named collection of chunk embeddings.
//
// Index appends; it does not serialize concurrent ingestion batches against
// the same collection — upsert ordering under concurrency is the backing
// index's responsibility. Retrieve with an empty collection returns an empty
// slice, which is a valid outcome, not an error. Reset drops every indexed
// chunk and leaves the store usable for the next Index call.
type Store interface {
	Index(ctx context.Context, chunks []models.Chunk) (int, error)
	Retrieve(ctx context.Context, query string, k int) ([]models.Document, error)
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
}

// New builds the configured store backend.
func New(ctx context.Context, cfg *config.Config, embedder Embedder) (Store, error) {
	switch cfg.Store.Type {
	case "chromem":
		return NewChromem(cfg.Paths.VectorstoreDir, cfg.RAG.Collection, embedder)
	case "postgres":
		return NewBun(ctx, &cfg.Store, embedder)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Store.Type)
	}
}
