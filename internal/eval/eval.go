// Package eval measures answer quality over a fixed set of contract
// questions: how often answers carry citations, how often the assistant
// admits it does not know, and how long a turn takes.
package eval

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"contract-rag/internal/llmservice"
)

// Questions is the fixed probe set. Every question is answerable from a
// typical commercial contract, so a grounded assistant should cite on most
// of them.
var Questions = []string{
	"What is the purpose of the contract?",
	"List key obligations of the parties.",
	"Are there termination conditions?",
	"What are the risks mentioned?",
	"Define any important terms.",
	"What is the effective date?",
	"Is there an arbitration clause?",
	"What is the governing law?",
	"Payment terms?",
	"Limitations of liability?",
}

// Asker is the question surface under evaluation.
type Asker interface {
	Ask(ctx context.Context, question string, fn llmservice.StreamFunc) (string, error)
}

// HasCitation reports whether the answer carries at least one chunk
// citation.
func HasCitation(text string) bool {
	return strings.Contains(text, "[") && strings.Contains(text, "]") &&
		strings.Contains(text, "chunk_")
}

// IsIDK reports whether the answer is a refusal rather than a grounded
// response.
func IsIDK(text string) bool {
	t := strings.ToLower(text)
	return strings.Contains(t, "i don't know") ||
		strings.Contains(t, "i do not know") ||
		strings.Contains(t, "only answer from the uploaded documents")
}

// Result is the outcome of one probe question.
type Result struct {
	Question    string
	Answer      string
	HasCitation bool
	IsIDK       bool
	Latency     time.Duration
}

// Report aggregates one full evaluation run.
type Report struct {
	Results     []Result
	CitationPct float64
	IDKPct      float64
	MeanLatency time.Duration
}

// Run asks every probe question in order and scores the answers. A failed
// turn aborts the run; partial numbers would not be comparable between runs.
func Run(ctx context.Context, asker Asker) (*Report, error) {
	report := &Report{Results: make([]Result, 0, len(Questions))}

	cited := 0
	idk := 0
	var total time.Duration
	for _, q := range Questions {
		start := time.Now()
		answer, err := asker.Ask(ctx, q, func(llmservice.Delta) error { return nil })
		if err != nil {
			return nil, fmt.Errorf("evaluating %q: %w", q, err)
		}
		latency := time.Since(start)
		total += latency

		r := Result{
			Question:    q,
			Answer:      answer,
			HasCitation: HasCitation(answer),
			IsIDK:       IsIDK(answer),
			Latency:     latency,
		}
		if r.HasCitation {
			cited++
		}
		if r.IsIDK {
			idk++
		}
		report.Results = append(report.Results, r)
		log.Debug().Str("question", q).Bool("cited", r.HasCitation).Bool("idk", r.IsIDK).Dur("latency", latency).Msg("probe answered")
	}

	n := float64(len(Questions))
	report.CitationPct = float64(cited) / n * 100.0
	report.IDKPct = float64(idk) / n * 100.0
	report.MeanLatency = total / time.Duration(len(Questions))
	return report, nil
}

// Markdown renders the report as a summary block plus a per-question table.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Evaluation Report\n\n")
	fmt.Fprintf(&b, "- Answered with citations: %.1f%%\n", r.CitationPct)
	fmt.Fprintf(&b, "- \"I don't know\" responses: %.1f%%\n", r.IDKPct)
	fmt.Fprintf(&b, "- Average latency: %.2fs\n\n", r.MeanLatency.Seconds())

	b.WriteString("| Question | Cited | IDK | Latency |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, res := range r.Results {
		fmt.Fprintf(&b, "| %s | %s | %s | %.2fs |\n",
			res.Question, mark(res.HasCitation), mark(res.IsIDK), res.Latency.Seconds())
	}
	return b.String()
}

// WriteHTML renders the markdown report as HTML.
func (r *Report) WriteHTML(w io.Writer) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	return md.Convert([]byte(r.Markdown()), w)
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
