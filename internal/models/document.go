package models

import "strconv"

// Metadata is the provenance attached to every chunk. Page is 1-based;
// zero means the source format has no page concept (TXT, DOCX).
type Metadata struct {
	Source  string
	Page    int
	ChunkID string
	Title   string
}

// ToMap flattens metadata for vector stores that only take string payloads.
func (m Metadata) ToMap() map[string]string {
	out := map[string]string{
		"source":   m.Source,
		"chunk_id": m.ChunkID,
	}
	if m.Page > 0 {
		out["page"] = strconv.Itoa(m.Page)
	}
	if m.Title != "" {
		out["title"] = m.Title
	}
	return out
}

// MetadataFromMap is the inverse of ToMap. Unparseable page values are
// treated as absent.
func MetadataFromMap(in map[string]string) Metadata {
	m := Metadata{
		Source:  in["source"],
		ChunkID: in["chunk_id"],
		Title:   in["title"],
	}
	if p, err := strconv.Atoi(in["page"]); err == nil && p > 0 {
		m.Page = p
	}
	return m
}

// Record is one logical unit of a parsed source file: one per PDF page,
// one per whole TXT or DOCX file. Records exist only between parsing and
// chunking.
type Record struct {
	Text     string
	Metadata Metadata
}

// Chunk is a bounded, citable segment of source text. Immutable once built.
type Chunk struct {
	Text     string
	Metadata Metadata
}

// Document is a chunk as returned by similarity search, in rank order.
type Document struct {
	Text     string
	Metadata Metadata
}
