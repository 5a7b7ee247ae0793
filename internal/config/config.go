package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// LLMConfig points at an OpenAI-compatible endpoint. The credential is read
// from the environment variable named by APIKeyEnv, never from the file.
type LLMConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	EmbeddingModel string `yaml:"embedding_model"`
	InferenceModel string `yaml:"inference_model"`
}

// Key returns the configured credential, empty when unset.
func (c *LLMConfig) Key() string {
	return os.Getenv(c.APIKeyEnv)
}

// RAGConfig controls chunking and retrieval.
type RAGConfig struct {
	ChunkMin     int    `yaml:"chunk_min"`
	ChunkMax     int    `yaml:"chunk_max"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	Collection   string `yaml:"collection"`
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	// Type is "chromem" (embedded persistent collection) or "postgres".
	Type  string `yaml:"type"`
	DSN   string `yaml:"dsn"`
	Debug bool   `yaml:"debug"`
}

// PathsConfig holds the persisted state layout.
type PathsConfig struct {
	UploadsDir     string `yaml:"uploads_dir"`
	VectorstoreDir string `yaml:"vectorstore_dir"`
}

type Config struct {
	LLM   LLMConfig   `yaml:"llm"`
	RAG   RAGConfig   `yaml:"rag"`
	Store StoreConfig `yaml:"store"`
	Paths PathsConfig `yaml:"paths"`
}

// LoadConfig reads the YAML config, falling back to defaults when the file
// does not exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &Config{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENROUTER_API_KEY"
	}
	if cfg.LLM.EmbeddingModel == "" {
		cfg.LLM.EmbeddingModel = "nvidia/nv-embed-v1"
	}
	if cfg.LLM.InferenceModel == "" {
		cfg.LLM.InferenceModel = "meta-llama/llama-3.1-8b-instruct"
	}
	if cfg.RAG.ChunkMin == 0 {
		cfg.RAG.ChunkMin = 800
	}
	if cfg.RAG.ChunkMax == 0 {
		cfg.RAG.ChunkMax = 1200
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 200
	}
	if cfg.RAG.TopK == 0 {
		// large k favours recall for summaries and multi-clause questions
		cfg.RAG.TopK = 20
	}
	if cfg.RAG.Collection == "" {
		cfg.RAG.Collection = "contracts"
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "chromem"
	}
	if cfg.Paths.UploadsDir == "" {
		cfg.Paths.UploadsDir = "./uploads"
	}
	if cfg.Paths.VectorstoreDir == "" {
		cfg.Paths.VectorstoreDir = "./vectorstore"
	}
}
