package vectorstore

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"contract-rag/internal/helper"
	"contract-rag/internal/models"
)

const compress = false

// ChromemStore keeps the collection in an embedded chromem-go database
// persisted under the vectorstore directory. It survives restarts and needs
// no external service beyond the embedding endpoint.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   Embedder
}

var _ Store = (*ChromemStore)(nil)

// NewChromem opens (or creates) the persistent database and collection.
func NewChromem(dir, collectionName string, embedder Embedder) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(dir, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %v", err)
	}
	c, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}
	return &ChromemStore{db: db, collection: c, embedder: embedder}, nil
}

// Index embeds every chunk and adds it to the collection. Document IDs are
// prefixed with a per-batch UUID so chunk ids from different ingestion
// batches never collide.
func (s *ChromemStore) Index(ctx context.Context, chunks []models.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	batch, err := helper.GenerateUUID()
	if err != nil {
		return 0, err
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, ch := range chunks {
		emb, err := s.embedder.EmbedQuery(ctx, ch.Text)
		if err != nil {
			return 0, &models.UnavailableError{Service: "embedding service", Err: err}
		}
		docs = append(docs, chromem.Document{
			ID:        fmt.Sprintf("%s-%s", batch, ch.Metadata.ChunkID),
			Content:   ch.Text,
			Metadata:  ch.Metadata.ToMap(),
			Embedding: emb,
		})
	}

	log.Info().Int("documents", len(docs)).Msg("adding documents to vector database")
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return 0, &models.UnavailableError{Service: "vector index", Err: err}
	}
	return len(docs), nil
}

// Retrieve embeds the query and returns the k nearest chunks in similarity
// order. k is clamped to the collection size.
func (s *ChromemStore) Retrieve(ctx context.Context, query string, k int) ([]models.Document, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	if k <= 0 {
		k = 1
	}

	emb, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, &models.UnavailableError{Service: "embedding service", Err: err}
	}
	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: emb,
		NResults:       k,
	})
	if err != nil {
		return nil, &models.UnavailableError{Service: "vector index", Err: err}
	}

	docs := make([]models.Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, models.Document{
			Text:     r.Content,
			Metadata: models.MetadataFromMap(r.Metadata),
		})
	}
	return docs, nil
}

// Count returns the number of indexed chunks.
func (s *ChromemStore) Count(context.Context) (int, error) {
	return s.collection.Count(), nil
}

// Reset drops the collection and recreates it empty, e.g. before a full
// re-index.
func (s *ChromemStore) Reset(context.Context) error {
	name := s.collection.Name
	if err := s.db.DeleteCollection(name); err != nil {
		return fmt.Errorf("failed to drop collection: %v", err)
	}
	c, err := s.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %v", err)
	}
	s.collection = c
	return nil
}
