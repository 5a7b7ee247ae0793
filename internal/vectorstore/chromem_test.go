package vectorstore

import (
	"context"
	"testing"

	"contract-rag/internal/citation"
	"contract-rag/internal/models"
)

// stubEmbedder returns canned vectors keyed by text, so similarity ranking
// is fully deterministic without a live embedding endpoint.
type stubEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{0.1, 0.1, 0.1}, nil
}

func testChunk(text string, id int) models.Chunk {
	return models.Chunk{Text: text, Metadata: citation.Build("lease.pdf", 1, id)}
}

func TestChromemIndexAndRetrieve(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"payment terms":   {1, 0, 0},
		"termination":     {0, 1, 0},
		"governing law":   {0, 0, 1},
		"when can I pay?": {0.9, 0.1, 0},
	}}
	store, err := NewChromem(t.TempDir(), "contracts", emb)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	n, err := store.Index(ctx, []models.Chunk{
		testChunk("payment terms", 1),
		testChunk("termination", 2),
		testChunk("governing law", 3),
	})
	if err != nil || n != 3 {
		t.Fatalf("Index = %d, %v", n, err)
	}

	count, err := store.Count(ctx)
	if err != nil || count != 3 {
		t.Fatalf("Count = %d, %v", count, err)
	}

	docs, err := store.Retrieve(ctx, "when can I pay?", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Text != "payment terms" {
		t.Errorf("top document = %q, want the payment chunk", docs[0].Text)
	}
	if docs[0].Metadata.Source != "lease.pdf" || docs[0].Metadata.Page != 1 {
		t.Errorf("metadata lost through the store: %+v", docs[0].Metadata)
	}
}

func TestChromemRetrieveEmptyCollection(t *testing.T) {
	emb := &stubEmbedder{}
	store, err := NewChromem(t.TempDir(), "contracts", emb)
	if err != nil {
		t.Fatal(err)
	}

	docs, err := store.Retrieve(context.Background(), "anything", 20)
	if err != nil {
		t.Fatalf("empty collection is not an error: %v", err)
	}
	if docs != nil {
		t.Errorf("expected no documents, got %d", len(docs))
	}
	if emb.calls != 0 {
		t.Errorf("query must not be embedded when the collection is empty, got %d calls", emb.calls)
	}
}

func TestChromemResetEmptiesAndStaysUsable(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"clause": {1, 0, 0}}}
	store, err := NewChromem(t.TempDir(), "contracts", emb)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := store.Index(ctx, []models.Chunk{testChunk("clause", 1)}); err != nil {
		t.Fatal(err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	count, err := store.Count(ctx)
	if err != nil || count != 0 {
		t.Fatalf("Count after reset = %d, %v", count, err)
	}

	// the store keeps working after a reset
	if _, err := store.Index(ctx, []models.Chunk{testChunk("clause", 1)}); err != nil {
		t.Fatal(err)
	}
	docs, err := store.Retrieve(ctx, "clause", 1)
	if err != nil || len(docs) != 1 {
		t.Fatalf("Retrieve after reset = %d docs, %v", len(docs), err)
	}
}

func TestChromemRetrieveClampsK(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"only": {1, 0, 0}}}
	store, err := NewChromem(t.TempDir(), "contracts", emb)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := store.Index(ctx, []models.Chunk{testChunk("only", 1)}); err != nil {
		t.Fatal(err)
	}
	docs, err := store.Retrieve(ctx, "only", 20)
	if err != nil {
		t.Fatalf("k larger than collection must be clamped: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("expected 1 document, got %d", len(docs))
	}
}
