package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitEmpty(t *testing.T) {
	if chunks := Default().Split("   \n  "); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	text := "This contract is short. It fits in one chunk."
	chunks := Default().Split(text)
	if len(chunks) != 1 || chunks[0] != text {
		t.Errorf("expected the whole text as one chunk, got %v", chunks)
	}
}

func TestSplitBounds(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("The party of the first part shall indemnify the party of the second part. ")
	}
	c, err := New(300, 500, 50)
	if err != nil {
		t.Fatal(err)
	}
	chunks := c.Split(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if len(ch) > 500 {
			t.Errorf("chunk %d length %d exceeds max", i, len(ch))
		}
		if i < len(chunks)-1 && len(ch) < 298 {
			// every non-final chunk either met min via a sentence cut or
			// was a hard cut at max; only boundary trimming may shave a
			// character or two below min
			t.Errorf("chunk %d length %d under min", i, len(ch))
		}
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	sentence := "Each clause ends with a period and continues with more words here. "
	text := strings.Repeat(sentence, 40)
	chunks := Default().Split(text)
	for i, ch := range chunks {
		if i == len(chunks)-1 {
			continue
		}
		if !strings.HasSuffix(ch, ".") {
			t.Errorf("chunk %d did not cut at a sentence boundary: %q", i, ch[len(ch)-20:])
		}
	}
}

func TestSplitHardCutsWithoutPunctuation(t *testing.T) {
	// 3000 chars, no sentence terminators: expect hard cuts at max with
	// overlap-sized rewind, i.e. exactly 3 chunks for 800/1200/200.
	text := strings.Repeat("x", 3000)
	chunks := Default().Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 hard-cut chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if len(ch) > DefaultMax {
			t.Errorf("chunk %d length %d exceeds max", i, len(ch))
		}
	}
}

func TestSplitNeverBreaksMultiByteRunes(t *testing.T) {
	// byte-indexed windowing would land hard cuts mid-rune here: every
	// euro sign is three bytes, and the leading "a" shifts the byte grid
	// off any rune boundary
	text := "a" + strings.Repeat("€", 2000)
	chunks := Default().Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	total := 0
	for i, ch := range chunks {
		if !utf8.ValidString(ch) {
			t.Errorf("chunk %d is not valid UTF-8: tail %q", i, ch[len(ch)-4:])
		}
		n := utf8.RuneCountInString(ch)
		if n > DefaultMax {
			t.Errorf("chunk %d has %d runes, max is %d", i, n, DefaultMax)
		}
		total += n
	}

	// rune coverage: lengths sum to the input plus one overlap per boundary
	expected := utf8.RuneCountInString(text) + (len(chunks)-1)*DefaultOverlap
	if total != expected {
		t.Errorf("rune coverage = %d, want %d", total, expected)
	}
}

func TestSplitOverlapShared(t *testing.T) {
	text := strings.Repeat("y", 2500)
	c, err := New(400, 1000, 100)
	if err != nil {
		t.Fatal(err)
	}
	chunks := c.Split(text)
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-100:]
		if !strings.HasPrefix(chunks[i], prevTail) {
			t.Errorf("chunk %d does not share %d chars with its predecessor", i, 100)
		}
	}
}

func TestSplitCoverage(t *testing.T) {
	// Removing the overlap prefix from every chunk after the first must
	// reconstruct the original text up to whitespace trimming.
	sentence := "Payment is due within thirty days of the invoice date under clause four. "
	text := strings.TrimSpace(strings.Repeat(sentence, 60))
	chunks := Default().Split(text)

	total := 0
	for _, ch := range chunks {
		total += len(ch)
	}
	// every window after the first rewinds by exactly the overlap, so the
	// chunk lengths sum to the text length plus one overlap per boundary,
	// modulo whitespace trimmed at the cut points
	expected := len(text) + (len(chunks)-1)*DefaultOverlap
	diff := expected - total
	if diff < 0 {
		diff = -diff
	}
	if diff > 2*len(chunks) {
		t.Errorf("character coverage off by %d (chunks %d, text %d)", diff, total, len(text))
	}
}

func TestNewRejectsBadBounds(t *testing.T) {
	cases := []struct {
		name              string
		min, max, overlap int
	}{
		{"zero min", 0, 100, 10},
		{"max under min", 200, 100, 10},
		{"negative overlap", 100, 200, -1},
		{"overlap at min", 100, 200, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.min, tc.max, tc.overlap); err == nil {
				t.Error("expected error")
			}
		})
	}
}
