// Package llmservice adapts the hosted completion endpoint. Whatever shape
// the backend streams in, pipeline code only ever sees Delta values.
package llmservice

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"contract-rag/internal/config"
	"contract-rag/internal/models"
)

// Delta is one normalized increment of a streamed completion.
type Delta struct {
	Text string
}

// StreamFunc receives deltas as they arrive. Returning an error cancels the
// generation.
type StreamFunc func(Delta) error

// Completer streams a completion for the given messages and returns the
// full accumulated text.
type Completer interface {
	Stream(ctx context.Context, messages []llms.MessageContent, fn StreamFunc) (string, error)
}

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	llm *openai.LLM
}

var _ Completer = (*Client)(nil)

// New builds the completion client. A missing credential is a configuration
// error surfaced before any network call.
func New(llmConfig *config.LLMConfig) (*Client, error) {
	key := llmConfig.Key()
	if key == "" {
		return nil, &models.ConfigurationError{Env: llmConfig.APIKeyEnv}
	}
	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(key, "Bearer ")),
		openai.WithModel(llmConfig.InferenceModel),
	)
	if err != nil {
		return nil, err
	}
	return &Client{llm: llm}, nil
}

// Stream generates a completion, forwarding each token through fn. The
// connection is scoped to ctx: cancelling the context mid-stream releases it.
// Backends that answer in one piece instead of streaming still produce
// exactly one Delta with the full content.
func (c *Client) Stream(ctx context.Context, messages []llms.MessageContent, fn StreamFunc) (string, error) {
	var buf strings.Builder
	streamed := false

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			streamed = true
			buf.Write(chunk)
			return fn(Delta{Text: string(chunk)})
		}),
	)
	if err != nil {
		return buf.String(), &models.UnavailableError{Service: "completion service", Err: err}
	}

	if !streamed && resp != nil && len(resp.Choices) > 0 {
		content := resp.Choices[0].Content
		if content != "" {
			buf.WriteString(content)
			if err := fn(Delta{Text: content}); err != nil {
				return buf.String(), err
			}
		}
	}

	log.Debug().Int("chars", buf.Len()).Msg("completion finished")
	return buf.String(), nil
}
