// Package rag composes retrieval, context reordering, citation formatting
// and a grounded prompt into streaming question-answering and summary
// pipelines.
package rag

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"contract-rag/internal/citation"
	"contract-rag/internal/guard"
	"contract-rag/internal/llmservice"
	"contract-rag/internal/models"
	"contract-rag/internal/reorder"
)

// Retriever is the read side of the vector index.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.Document, error)
}

// Pipeline runs one grounded generation: retrieve, reorder, compose,
// stream. Stateless apart from its collaborators; safe to reuse across
// requests until the backing index is rebuilt.
type Pipeline struct {
	retriever  Retriever
	llm        llmservice.Completer
	topK       int
	prompt     prompts.ChatPromptTemplate
	fixedQuery string
}

// NewQA builds the question-answering pipeline.
func NewQA(retriever Retriever, llm llmservice.Completer, topK int) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		llm:       llm,
		topK:      topK,
		prompt: prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
			prompts.NewSystemMessagePromptTemplate(qaSystemPrompt, nil),
			prompts.NewHumanMessagePromptTemplate(qaHumanPrompt, []string{"question", "context", "citations"}),
		}),
	}
}

// NewSummary builds the summary pipeline. It retrieves with a fixed broad
// query instead of a user question.
func NewSummary(retriever Retriever, llm llmservice.Completer, topK int) *Pipeline {
	return &Pipeline{
		retriever:  retriever,
		llm:        llm,
		topK:       topK,
		fixedQuery: summaryQuery,
		prompt: prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
			prompts.NewSystemMessagePromptTemplate(summarySystemPrompt, nil),
			prompts.NewHumanMessagePromptTemplate(summaryHumanPrompt, []string{"instruction", "context", "citations"}),
		}),
	}
}

// Run retrieves context for the question (or the fixed query on the summary
// path), composes the grounded prompt and streams the completion through fn.
// The returned string is the full accumulated answer.
func (p *Pipeline) Run(ctx context.Context, question string, fn llmservice.StreamFunc) (string, error) {
	query := question
	if p.fixedQuery != "" {
		query = p.fixedQuery
	}

	docs, err := p.retriever.Retrieve(ctx, query, p.topK)
	if err != nil {
		return "", err
	}
	docs = reorder.LongContext(docs)

	contextStr, citationStr := compose(docs)
	if guard.LowConfidence(docs) {
		log.Warn().Int("documents", len(docs)).Msg("weak grounding for query")
	}

	vars := p.promptVars(question, contextStr, citationStr)
	messages, err := p.prompt.FormatMessages(vars)
	if err != nil {
		return "", err
	}
	return p.llm.Stream(ctx, toMessageContent(messages), fn)
}

func (p *Pipeline) promptVars(question, contextStr, citationStr string) map[string]any {
	if p.fixedQuery == "" {
		return map[string]any{
			"question":  question,
			"context":   contextStr,
			"citations": citationStr,
		}
	}
	// summary grounding: with no usable context the model gets an empty
	// prompt plus a generic instruction, so it cannot fabricate citations
	if strings.TrimSpace(contextStr) == "" || strings.TrimSpace(citationStr) == "" {
		return map[string]any{
			"instruction": fallbackInstruction,
			"context":     "",
			"citations":   "",
		}
	}
	return map[string]any{
		"instruction": "",
		"context":     contextStr,
		"citations":   citationStr,
	}
}

// compose joins document texts into the prompt context and renders the
// deduplicated citation string.
func compose(docs []models.Document) (string, string) {
	texts := make([]string, 0, len(docs))
	metas := make([]models.Metadata, 0, len(docs))
	for _, d := range docs {
		texts = append(texts, d.Text)
		metas = append(metas, d.Metadata)
	}
	return strings.Join(texts, "\n\n"), citation.Join(metas)
}

func toMessageContent(messages []llms.ChatMessage) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		out = append(out, llms.MessageContent{
			Role:  m.GetType(),
			Parts: []llms.ContentPart{llms.TextContent{Text: m.GetContent()}},
		})
	}
	return out
}
