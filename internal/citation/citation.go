// Package citation renders the bracketed provenance tags that every
// grounded answer must carry, e.g. "[lease.pdf p.3 chunk_12]".
package citation

import (
	"fmt"
	"path/filepath"
	"strings"

	"contract-rag/internal/models"
)

// Build attaches provenance to a chunk. page <= 0 means the source has no
// page concept. The chunk id is rendered as "chunk_<N>".
func Build(source string, page, id int) models.Metadata {
	m := models.Metadata{
		Source:  filepath.Base(source),
		ChunkID: fmt.Sprintf("chunk_%d", id),
	}
	if page > 0 {
		m.Page = page
	}
	return m
}

// Format renders one citation tag.
func Format(m models.Metadata) string {
	source := m.Source
	if source == "" {
		source = "unknown"
	}
	chunkID := m.ChunkID
	if chunkID == "" {
		chunkID = "chunk_?"
	}
	if m.Page > 0 {
		return fmt.Sprintf("[%s p.%d %s]", source, m.Page, chunkID)
	}
	return fmt.Sprintf("[%s %s]", source, chunkID)
}

// Join formats and space-joins citations, dropping exact duplicates while
// preserving first-occurrence order.
func Join(metas []models.Metadata) string {
	seen := make(map[string]struct{}, len(metas))
	uniq := make([]string, 0, len(metas))
	for _, m := range metas {
		tag := Format(m)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		uniq = append(uniq, tag)
	}
	return strings.Join(uniq, " ")
}
