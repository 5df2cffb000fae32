// Package file loads and persists application configuration as TOML,
// with environment overrides for credentials.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/campus-labs/examchat/internal/core/domain"
)

// Defaults applied when the config file is absent or partial.
const (
	DefaultConfigDirName = ".examchat"
	DefaultServerAddr    = ":8765"
	DefaultChunkSize     = 800
	DefaultChunkOverlap  = 200
	DefaultTopK          = 2
	DefaultTemperature   = 0.2
	DefaultOCRLanguage   = "eng"
)

// Config is the full application configuration.
type Config struct {
	Document  DocumentConfig `toml:"document"`
	Index     IndexConfig    `toml:"index"`
	Embedding ProviderConfig `toml:"embedding"`
	LLM       LLMConfig      `toml:"llm"`
	Server    ServerConfig   `toml:"server"`
}

// DocumentConfig locates the source document.
type DocumentConfig struct {
	// Path is the PDF file the index is built from.
	Path string `toml:"path"`

	// OCRLanguage is the Tesseract language pack for scanned pages.
	OCRLanguage string `toml:"ocr_language"`
}

// IndexConfig controls chunking and retrieval.
type IndexConfig struct {
	// DataDir holds the persisted vector index. Empty means
	// ~/.examchat/data.
	DataDir string `toml:"data_dir"`

	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
	TopK         int `toml:"top_k"`
}

// ProviderConfig selects an AI provider for embeddings.
type ProviderConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
}

// LLMConfig selects an AI provider for generation.
type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Temperature float64 `toml:"temperature"`
}

// ServerConfig controls the chat server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// defaults returns a Config populated with default values.
func defaults() Config {
	return Config{
		Document: DocumentConfig{
			OCRLanguage: DefaultOCRLanguage,
		},
		Index: IndexConfig{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
			TopK:         DefaultTopK,
		},
		Embedding: ProviderConfig{
			Provider: string(domain.AIProviderOllama),
		},
		LLM: LLMConfig{
			Provider:    string(domain.AIProviderOllama),
			Temperature: DefaultTemperature,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// Load reads configuration from configDir/config.toml, applying
// defaults and environment overrides. A missing file yields defaults.
// If configDir is empty, defaults to ~/.examchat.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, DefaultConfigDirName)
	}

	// .env is optional; credentials may come from the real environment.
	_ = godotenv.Load()

	cfg := defaults()

	path := filepath.Join(configDir, "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnv()
	return &cfg, nil
}

// Save writes the configuration to configDir/config.toml.
func (c *Config) Save(configDir string) error {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, DefaultConfigDirName)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// Restricted permissions, the file may hold API keys.
	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays credentials from the environment onto file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if c.LLM.Provider == string(domain.AIProviderOpenAI) {
			c.LLM.APIKey = v
		}
		if c.Embedding.Provider == string(domain.AIProviderOpenAI) {
			c.Embedding.APIKey = v
		}
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.LLM.Provider == string(domain.AIProviderAnthropic) {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("EXAMCHAT_DOCUMENT"); v != "" {
		c.Document.Path = v
	}
	if v := os.Getenv("EXAMCHAT_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// EmbeddingSettings converts the embedding section to domain settings.
func (c *Config) EmbeddingSettings() *domain.EmbeddingSettings {
	return &domain.EmbeddingSettings{
		Provider: domain.AIProvider(c.Embedding.Provider),
		Model:    c.Embedding.Model,
		BaseURL:  c.Embedding.BaseURL,
		APIKey:   c.Embedding.APIKey,
	}
}

// LLMSettings converts the llm section to domain settings.
func (c *Config) LLMSettings() *domain.LLMSettings {
	return &domain.LLMSettings{
		Provider:    domain.AIProvider(c.LLM.Provider),
		Model:       c.LLM.Model,
		BaseURL:     c.LLM.BaseURL,
		APIKey:      c.LLM.APIKey,
		Temperature: c.LLM.Temperature,
	}
}
