// Package ingest turns uploaded files into metadata-tagged chunks ready for
// indexing: parse, chunk, attach provenance.
package ingest

import (
	"github.com/rs/zerolog/log"

	"contract-rag/internal/chunker"
	"contract-rag/internal/citation"
	"contract-rag/internal/models"
	"contract-rag/internal/parser"
)

// FileResult reports the outcome of one file in an ingestion batch. A failed
// file never aborts the rest of the batch; the caller renders the report.
type FileResult struct {
	Path   string
	Chunks int
	Err    error
}

// Ingestor runs the parse -> chunk -> metadata pipeline.
type Ingestor struct {
	registry *parser.Registry
	chunker  *chunker.Chunker
}

func New(registry *parser.Registry, c *chunker.Chunker) *Ingestor {
	if registry == nil {
		registry = parser.NewRegistry()
	}
	if c == nil {
		c = chunker.Default()
	}
	return &Ingestor{registry: registry, chunker: c}
}

// Ingest parses and chunks every path. The chunk id counter is global across
// the whole call so citations stay unique over a multi-file batch.
func (in *Ingestor) Ingest(paths []string) ([]models.Chunk, []FileResult) {
	var chunks []models.Chunk
	results := make([]FileResult, 0, len(paths))

	cid := 1
	for _, path := range paths {
		records, err := in.registry.Parse(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping file")
			results = append(results, FileResult{Path: path, Err: err})
			continue
		}
		count := 0
		for _, rec := range records {
			for _, text := range in.chunker.Split(rec.Text) {
				meta := citation.Build(rec.Metadata.Source, rec.Metadata.Page, cid)
				meta.Title = rec.Metadata.Title
				chunks = append(chunks, models.Chunk{Text: text, Metadata: meta})
				cid++
				count++
			}
		}
		results = append(results, FileResult{Path: path, Chunks: count})
	}
	return chunks, results
}
