package embedding

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"contract-rag/internal/config"
	"contract-rag/internal/models"
)

// NewEmbedder builds an embedder over an OpenAI-compatible endpoint. A
// missing credential is a configuration error, not a retryable fault.
func NewEmbedder(llmConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	key := llmConfig.Key()
	if key == "" {
		return nil, &models.ConfigurationError{Env: llmConfig.APIKeyEnv}
	}

	log.Debug().
		Str("base_url", llmConfig.BaseURL).
		Str("embedding_model", llmConfig.EmbeddingModel).
		Msg("initializing embedder")

	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(key, "Bearer ")),
		openai.WithModel(llmConfig.EmbeddingModel),
		openai.WithEmbeddingModel(llmConfig.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, err
	}
	return embedder, nil
}
