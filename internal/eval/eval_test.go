package eval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"contract-rag/internal/llmservice"
)

type scriptedAsker struct {
	answers map[string]string
	err     error
	asked   []string
}

func (s *scriptedAsker) Ask(_ context.Context, question string, fn llmservice.StreamFunc) (string, error) {
	s.asked = append(s.asked, question)
	if s.err != nil {
		return "", s.err
	}
	answer, ok := s.answers[question]
	if !ok {
		answer = "I don't know."
	}
	if err := fn(llmservice.Delta{Text: answer}); err != nil {
		return "", err
	}
	return answer, nil
}

func TestHasCitation(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Payment is due in 30 days [msa.pdf p.4 chunk_7].", true},
		{"See [lease.docx chunk_2] for details.", true},
		{"Payment is due in 30 days.", false},
		{"brackets [alone] are not a citation", false},
		{"chunk_3 without brackets", false},
		{"", false},
	}
	for _, c := range cases {
		if got := HasCitation(c.text); got != c.want {
			t.Errorf("HasCitation(%q) = %v", c.text, got)
		}
	}
}

func TestIsIDK(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"I don't know.", true},
		{"I DO NOT KNOW the answer to that.", true},
		{"I can only answer from the uploaded documents.", true},
		{"The governing law is Delaware [msa.pdf p.9 chunk_12].", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsIDK(c.text); got != c.want {
			t.Errorf("IsIDK(%q) = %v", c.text, got)
		}
	}
}

func TestRunScoresEveryQuestion(t *testing.T) {
	asker := &scriptedAsker{answers: map[string]string{
		Questions[0]: "The contract governs the supply of goods [msa.pdf p.1 chunk_1].",
		Questions[1]: "The supplier delivers, the buyer pays [msa.pdf p.2 chunk_3].",
		Questions[7]: "Delaware law governs [msa.pdf p.9 chunk_12].",
	}}

	report, err := Run(context.Background(), asker)
	if err != nil {
		t.Fatal(err)
	}
	if len(asker.asked) != len(Questions) {
		t.Fatalf("asked %d questions", len(asker.asked))
	}
	if len(report.Results) != len(Questions) {
		t.Fatalf("results = %d", len(report.Results))
	}
	if report.CitationPct != 30.0 {
		t.Errorf("CitationPct = %.1f", report.CitationPct)
	}
	if report.IDKPct != 70.0 {
		t.Errorf("IDKPct = %.1f", report.IDKPct)
	}
	if report.MeanLatency < 0 {
		t.Errorf("MeanLatency = %v", report.MeanLatency)
	}
}

func TestRunAbortsOnTurnError(t *testing.T) {
	asker := &scriptedAsker{err: errors.New("endpoint down")}
	if _, err := Run(context.Background(), asker); err == nil {
		t.Fatal("want error")
	}
}

func TestReportMarkdownAndHTML(t *testing.T) {
	asker := &scriptedAsker{answers: map[string]string{
		Questions[0]: "Supply of goods [msa.pdf p.1 chunk_1].",
	}}
	report, err := Run(context.Background(), asker)
	if err != nil {
		t.Fatal(err)
	}

	md := report.Markdown()
	if !strings.Contains(md, "# Evaluation Report") {
		t.Error("markdown missing title")
	}
	if !strings.Contains(md, Questions[0]) {
		t.Error("markdown missing question row")
	}
	if !strings.Contains(md, "Answered with citations: 10.0%") {
		t.Errorf("markdown = %q", md)
	}

	var html strings.Builder
	if err := report.WriteHTML(&html); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html.String(), "<table>") {
		t.Error("html missing rendered table")
	}
	if !strings.Contains(html.String(), "<h1") {
		t.Error("html missing heading")
	}
}
