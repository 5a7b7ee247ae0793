package vectorstore

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"contract-rag/internal/config"
	"contract-rag/internal/models"
)

type chunkRow struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(768)"`
	Source        string    `bun:"source,notnull"`
	Page          int       `bun:"page,nullzero"`
	ChunkID       string    `bun:"chunk_id,notnull"`
	Title         string    `bun:"title,nullzero"`
}

// BunStore keeps chunk embeddings in a postgres table with a pgvector
// column, ordered by the `<->` distance operator on retrieval.
type BunStore struct {
	db       *bun.DB
	embedder Embedder
}

var _ Store = (*BunStore)(nil)

// NewBun connects to postgres and ensures the chunks table exists.
func NewBun(ctx context.Context, storeCfg *config.StoreConfig, embedder Embedder) (*BunStore, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(storeCfg.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if storeCfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if _, err := db.NewCreateTable().Model((*chunkRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, &models.UnavailableError{Service: "vector index", Err: err}
	}
	return &BunStore{db: db, embedder: embedder}, nil
}

func (s *BunStore) Index(ctx context.Context, chunks []models.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	rows := make([]chunkRow, 0, len(chunks))
	for _, ch := range chunks {
		emb, err := s.embedder.EmbedQuery(ctx, ch.Text)
		if err != nil {
			return 0, &models.UnavailableError{Service: "embedding service", Err: err}
		}
		rows = append(rows, chunkRow{
			Content:   ch.Text,
			Embedding: emb,
			Source:    ch.Metadata.Source,
			Page:      ch.Metadata.Page,
			ChunkID:   ch.Metadata.ChunkID,
			Title:     ch.Metadata.Title,
		})
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return 0, &models.UnavailableError{Service: "vector index", Err: err}
	}
	return len(rows), nil
}

func (s *BunStore) Retrieve(ctx context.Context, query string, k int) ([]models.Document, error) {
	emb, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, &models.UnavailableError{Service: "embedding service", Err: err}
	}

	var rows []chunkRow
	err = s.db.NewSelect().
		Model(&rows).
		Column("content", "source", "page", "chunk_id", "title").
		OrderExpr("embedding <-> ?", emb).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, &models.UnavailableError{Service: "vector index", Err: err}
	}

	docs := make([]models.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, models.Document{
			Text: r.Content,
			Metadata: models.Metadata{
				Source:  r.Source,
				Page:    r.Page,
				ChunkID: r.ChunkID,
				Title:   r.Title,
			},
		})
	}
	return docs, nil
}

func (s *BunStore) Count(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*chunkRow)(nil)).Count(ctx)
	if err != nil {
		return 0, &models.UnavailableError{Service: "vector index", Err: err}
	}
	return count, nil
}

// Reset truncates the chunks table.
func (s *BunStore) Reset(ctx context.Context) error {
	if _, err := s.db.NewTruncateTable().Model((*chunkRow)(nil)).Exec(ctx); err != nil {
		return &models.UnavailableError{Service: "vector index", Err: err}
	}
	return nil
}

// Close releases the database connection.
func (s *BunStore) Close() error {
	return s.db.Close()
}
