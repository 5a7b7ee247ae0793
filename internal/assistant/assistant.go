// Package assistant is the conversational surface over the whole pipeline:
// upload and index documents, answer questions with citations, summarize.
// Non-document questions and operational failures are rendered as chat
// replies so one bad turn never takes the assistant down.
package assistant

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"contract-rag/internal/chunker"
	"contract-rag/internal/config"
	"contract-rag/internal/embedding"
	"contract-rag/internal/guard"
	"contract-rag/internal/helper"
	"contract-rag/internal/ingest"
	"contract-rag/internal/llmservice"
	"contract-rag/internal/parser"
	"contract-rag/internal/rag"
	"contract-rag/internal/vectorstore"
)

// IngestReport describes one upload-and-index batch.
type IngestReport struct {
	Files   []ingest.FileResult
	Chunks  int
	Indexed int
}

// Assistant owns the ingestion pipeline, the vector index and both
// generation pipelines for one collection.
type Assistant struct {
	cfg      *config.Config
	registry *parser.Registry
	ingestor *ingest.Ingestor
	store    vectorstore.Store
	qa       *rag.Pipeline
	summary  *rag.Pipeline
}

// New wires the assistant from configuration. It fails fast on a missing
// credential or an unreachable store; those are setup problems, not chat
// turns.
func New(ctx context.Context, cfg *config.Config) (*Assistant, error) {
	if err := helper.EnsureDirs(cfg.Paths.UploadsDir, cfg.Paths.VectorstoreDir); err != nil {
		return nil, err
	}

	embedder, err := embedding.NewEmbedder(&cfg.LLM)
	if err != nil {
		return nil, err
	}
	store, err := vectorstore.New(ctx, cfg, embedder)
	if err != nil {
		return nil, err
	}
	completer, err := llmservice.New(&cfg.LLM)
	if err != nil {
		return nil, err
	}

	c, err := chunker.New(cfg.RAG.ChunkMin, cfg.RAG.ChunkMax, cfg.RAG.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	registry := parser.NewRegistry()

	a := &Assistant{
		cfg:      cfg,
		registry: registry,
		ingestor: ingest.New(registry, c),
		store:    store,
		qa:       rag.NewQA(store, completer, cfg.RAG.TopK),
		summary:  rag.NewSummary(store, completer, cfg.RAG.TopK),
	}
	return a, nil
}

// Close releases the store's backing connection for backends that hold one
// (the postgres store); the embedded store has nothing to release.
func (a *Assistant) Close() error {
	if c, ok := a.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Reset drops every indexed chunk. Uploaded files stay on disk.
func (a *Assistant) Reset(ctx context.Context) error {
	if err := a.store.Reset(ctx); err != nil {
		return err
	}
	log.Info().Msg("index reset")
	return nil
}

// Ingest copies each source file into the uploads directory under a safe
// unique name, parses and chunks it, and indexes the chunks. A file that
// cannot be copied or parsed is reported and skipped; the batch continues.
func (a *Assistant) Ingest(ctx context.Context, paths []string) (*IngestReport, error) {
	report := &IngestReport{}

	var saved []string
	srcFor := make(map[string]string)
	for _, src := range paths {
		ext := strings.ToLower(filepath.Ext(src))
		if !a.registry.Supported(ext) {
			err := &parser.UnsupportedFormatError{Ext: ext}
			log.Warn().Str("file", src).Err(err).Msg("rejecting upload")
			report.Files = append(report.Files, ingest.FileResult{Path: src, Err: err})
			continue
		}
		dst := helper.MakeUniquePath(a.cfg.Paths.UploadsDir, filepath.Base(src))
		if err := helper.CopyFile(src, dst); err != nil {
			log.Warn().Str("file", src).Err(err).Msg("upload copy failed")
			report.Files = append(report.Files, ingest.FileResult{Path: src, Err: err})
			continue
		}
		saved = append(saved, dst)
		srcFor[dst] = src
	}

	chunks, results := a.ingestor.Ingest(saved)
	// the report names the paths the caller supplied, not the uploads-dir copies
	for i := range results {
		if src, ok := srcFor[results[i].Path]; ok {
			results[i].Path = src
		}
	}
	report.Files = append(report.Files, results...)
	report.Chunks = len(chunks)

	if len(chunks) == 0 {
		return report, nil
	}
	indexed, err := a.store.Index(ctx, chunks)
	if err != nil {
		return report, err
	}
	report.Indexed = indexed
	log.Info().Int("files", len(saved)).Int("chunks", indexed).Msg("ingestion complete")
	return report, nil
}

// Ask answers one question. Canned replies for greetings, capability
// questions and off-topic requests never touch retrieval; a question asked
// before any ingestion gets the no-index reply. Pipeline failures are
// rendered as a chat reply and logged, leaving the assistant usable for the
// next turn. The returned string is exactly the text streamed through fn.
func (a *Assistant) Ask(ctx context.Context, question string, fn llmservice.StreamFunc) (string, error) {
	if reply, done := guard.Classify(question); done {
		return a.deliver(reply.Text, fn)
	}

	count, err := a.store.Count(ctx)
	if err != nil {
		log.Error().Err(err).Msg("index count failed")
		return a.deliver("Answer error: "+err.Error(), fn)
	}
	if count == 0 {
		return a.deliver(guard.NoIndexReply, fn)
	}

	answer, err := a.qa.Run(ctx, question, fn)
	if err != nil {
		log.Error().Err(err).Str("question", question).Msg("question failed")
		return a.deliver("Answer error: "+err.Error(), fn)
	}
	return answer, nil
}

// Summarize streams a structured summary of everything indexed.
func (a *Assistant) Summarize(ctx context.Context, fn llmservice.StreamFunc) (string, error) {
	count, err := a.store.Count(ctx)
	if err != nil {
		log.Error().Err(err).Msg("index count failed")
		return a.deliver("Summary error: "+err.Error(), fn)
	}
	if count == 0 {
		return a.deliver(guard.NoIndexReply, fn)
	}

	text, err := a.summary.Run(ctx, "", fn)
	if err != nil {
		log.Error().Err(err).Msg("summary failed")
		return a.deliver("Summary error: "+err.Error(), fn)
	}
	return text, nil
}

// deliver streams a canned or error reply as a single delta.
func (a *Assistant) deliver(text string, fn llmservice.StreamFunc) (string, error) {
	if err := fn(llmservice.Delta{Text: text}); err != nil {
		return text, err
	}
	return text, nil
}
