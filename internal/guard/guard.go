// Package guard decides whether a question should reach the retrieval
// pipeline at all, and whether retrieved context is strong enough to answer
// from. It never calls the language model.
package guard

import (
	"regexp"
	"strings"

	"contract-rag/internal/models"
)

// Kind classifies a question before retrieval.
type Kind int

const (
	// Document means the question proceeds to the pipeline.
	Document Kind = iota
	// Greeting, HowAreYou, Capabilities and Gratitude are answered with a
	// canned response and never reach retrieval.
	Greeting
	HowAreYou
	Capabilities
	Gratitude
	// OffTopic gets a short refusal.
	OffTopic
)

// Reply is a canned, terminal response for a non-document question.
type Reply struct {
	Kind Kind
	Text string
}

const (
	greetingReply = "Hello! I'm your contract assistant. I can help you analyze uploaded contract documents. You can:\n\n" +
		"- Upload PDF, DOCX or TXT documents\n" +
		"- Ask questions about contract content\n" +
		"- Generate summaries of your documents\n\n" +
		"How can I assist you today?"
	howAreYouReply = "I'm doing well, thank you! I'm ready to help you analyze your contract documents. Have you uploaded any documents yet?"
	capabilitiesReply = "I'm a contract assistant powered by retrieval-augmented generation. I can:\n\n" +
		"- Analyze contract documents you upload (PDF, DOCX or TXT)\n" +
		"- Answer questions about contract content with citations\n" +
		"- Generate structured summaries of the uploaded documents\n\n" +
		"To get started, upload your documents and ask me anything about them."
	gratitudeReply = "You're welcome! Is there anything else I can help you with regarding your contract documents?"
	offTopicReply  = "I'm focused on helping with contract document analysis. Please upload your documents and ask questions related to their content, or I can help generate summaries of your uploaded materials."

	// NoIndexReply is streamed when a question arrives before any ingestion.
	NoIndexReply = "I don't have any documents indexed yet. Please upload and index documents first, then I can answer questions about them."
)

// allow-list patterns, checked before the block patterns so that a greeting
// with off-topic noise attached still gets the friendly path
var (
	greetingRe  = regexp.MustCompile(`\b(hi|hello|hey|good morning|good afternoon|good evening)\b`)
	howAreYouRe = regexp.MustCompile(`\bhow are you\b`)
	metaRe      = regexp.MustCompile(`\b(what can you do|what are you|who are you|help)\b`)
	gratitudeRe = regexp.MustCompile(`\b(thanks|thank you)\b`)
)

var offTopicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(weather|news|sports|movies?|music|songs?)\b`),
	regexp.MustCompile(`\b(recipe|cooking|food)\b`),
	regexp.MustCompile(`\b(travel|vacation|hotel)\b`),
	regexp.MustCompile(`\bwrite.*story\b`),
	regexp.MustCompile(`\bplay.*game\b`),
	regexp.MustCompile(`\btell.*joke\b`),
}

// Classify matches the question against the allow-list, then the block
// patterns. The second return is false when the question should continue to
// the retrieval pipeline.
func Classify(question string) (Reply, bool) {
	q := strings.ToLower(strings.TrimSpace(question))

	switch {
	case greetingRe.MatchString(q):
		return Reply{Kind: Greeting, Text: greetingReply}, true
	case howAreYouRe.MatchString(q):
		return Reply{Kind: HowAreYou, Text: howAreYouReply}, true
	case metaRe.MatchString(q):
		return Reply{Kind: Capabilities, Text: capabilitiesReply}, true
	case gratitudeRe.MatchString(q):
		return Reply{Kind: Gratitude, Text: gratitudeReply}, true
	}

	for _, p := range offTopicPatterns {
		if p.MatchString(q) {
			return Reply{Kind: OffTopic, Text: offTopicReply}, true
		}
	}
	return Reply{Kind: Document}, false
}

// LowConfidence reports weak grounding: no retrieved documents, or under
// 800 characters of context in total.
func LowConfidence(docs []models.Document) bool {
	if len(docs) < 1 {
		return true
	}
	total := 0
	for _, d := range docs {
		total += len(d.Text)
	}
	return total < 800
}
