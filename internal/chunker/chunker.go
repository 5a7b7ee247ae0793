package chunker

import (
	"fmt"
	"strings"
)

// Character bounds tuned for contract text. Overlap keeps clause context
// shared between neighbouring chunks.
const (
	DefaultMin     = 800
	DefaultMax     = 1200
	DefaultOverlap = 200
)

// Chunker splits raw extracted text into overlapping, sentence-aware
// segments of bounded size.
type Chunker struct {
	min     int
	max     int
	overlap int
}

// New validates the bounds. Requiring overlap < min (not just < max)
// guarantees every cut advances the scan position.
func New(min, max, overlap int) (*Chunker, error) {
	switch {
	case min <= 0:
		return nil, fmt.Errorf("chunk min must be positive, got %d", min)
	case max < min:
		return nil, fmt.Errorf("chunk max %d smaller than min %d", max, min)
	case overlap < 0:
		return nil, fmt.Errorf("overlap must not be negative, got %d", overlap)
	case overlap >= min:
		return nil, fmt.Errorf("overlap %d must be smaller than chunk min %d", overlap, min)
	}
	return &Chunker{min: min, max: max, overlap: overlap}, nil
}

// Default returns a chunker with the standard bounds.
func Default() *Chunker {
	c, err := New(DefaultMin, DefaultMax, DefaultOverlap)
	if err != nil {
		panic(err)
	}
	return c
}

// Split runs a greedy forward scan: take up to max characters, prefer
// cutting at the last sentence boundary as long as that keeps the chunk at
// least min characters, otherwise hard-cut at max. The next window starts
// overlap characters before the previous cut. All positions are rune
// positions, so a hard cut can never land inside a multi-byte character.
func (c *Chunker) Split(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < n {
		end := start + c.max
		if end > n {
			end = n
		}
		if end < n {
			if cut := lastSentenceEnd(runes[start:end]); cut >= c.min {
				end = start + cut
			}
		}
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= n {
			break
		}
		start = end - c.overlap
		if start < 0 {
			start = 0
		}
	}
	return chunks
}

// lastSentenceEnd returns the rune index just past the last sentence
// terminator that is followed by whitespace, or -1 when the window has none.
func lastSentenceEnd(window []rune) int {
	for i := len(window) - 2; i >= 0; i-- {
		if isTerminator(window[i]) && isSpace(window[i+1]) {
			return i + 1
		}
	}
	return -1
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
