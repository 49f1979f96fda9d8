package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MistralConfig holds connection details for the completion and embedding
// provider. The API key itself always comes from the environment.
type MistralConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	ChatModel   string `yaml:"chat_model"`
	EmbedModel  string `yaml:"embed_model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects the embedder implementation and tunes the shared
// outbound call discipline (batching, rate ceiling, retries).
type EmbedderConfig struct {
	Type           string  `yaml:"type"` // "mistral" or "hash"
	Dimension      int     `yaml:"dimension"`
	BatchSize      int     `yaml:"batch_size"`
	RPS            float64 `yaml:"rps"`
	MaxRetries     int     `yaml:"max_retries"`
	RetryDelaySecs float64 `yaml:"retry_delay_secs"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"` // "qdrant" or "memory"
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// CategoriesConfig configures the category-profile collection.
type CategoriesConfig struct {
	Collection string  `yaml:"collection"`
	Threshold  float64 `yaml:"threshold"`
}

// DatasetConfig points at the static reference dataset.
type DatasetConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Mistral     MistralConfig     `yaml:"mistral"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Categories  CategoriesConfig  `yaml:"categories"`
	Dataset     DatasetConfig     `yaml:"dataset"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ideascope/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ideascope", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Mistral.BaseURL == "" {
		cfg.Mistral.BaseURL = "https://api.mistral.ai/v1"
	}
	if cfg.Mistral.APIKeyEnv == "" {
		cfg.Mistral.APIKeyEnv = "MISTRAL_API_KEY"
	}
	if cfg.Mistral.ChatModel == "" {
		cfg.Mistral.ChatModel = "mistral-large-latest"
	}
	if cfg.Mistral.EmbedModel == "" {
		cfg.Mistral.EmbedModel = "mistral-embed"
	}
	if cfg.Mistral.TimeoutSecs == 0 {
		cfg.Mistral.TimeoutSecs = 30
	}

	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "mistral"
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 1024
	}
	if cfg.Embedder.BatchSize == 0 {
		cfg.Embedder.BatchSize = 32
	}
	if cfg.Embedder.RPS == 0 {
		cfg.Embedder.RPS = 1.0
	}
	if cfg.Embedder.MaxRetries == 0 {
		cfg.Embedder.MaxRetries = 3
	}
	if cfg.Embedder.RetryDelaySecs == 0 {
		cfg.Embedder.RetryDelaySecs = 2.0
	}

	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "qdrant"
	}
	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		if cfg.VectorStore.Qdrant.URL == "" {
			cfg.VectorStore.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.VectorStore.Qdrant.APIKeyEnv == "" {
			cfg.VectorStore.Qdrant.APIKeyEnv = "QDRANT_API_KEY"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}

	if cfg.Categories.Collection == "" {
		cfg.Categories.Collection = "category_profiles"
	}
	if cfg.Categories.Threshold == 0 {
		cfg.Categories.Threshold = 0.2
	}

	if cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "unicorns.csv"
	}
	if cfg.Dataset.Collection == "" {
		cfg.Dataset.Collection = "startup_pitches"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
