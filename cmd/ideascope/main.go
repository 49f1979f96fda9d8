package main

import (
	"flag"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ideascope/internal/analysis"
	"ideascope/internal/category"
	"ideascope/internal/config"
	"ideascope/internal/embedding"
	"ideascope/internal/embedding/hash"
	"ideascope/internal/embedding/mistral"
	"ideascope/internal/logger"
	"ideascope/internal/similarity"
	"ideascope/internal/tui"
	"ideascope/internal/vectorindex"
	"ideascope/internal/vectorstore"
	"ideascope/internal/vectorstore/memory"
	"ideascope/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ideascope/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		logger.New("info", "console").Fatal("failed to load config", zap.Error(err))
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = log.Sync() }()

	client, err := mistral.NewClient(mistral.Config{
		BaseURL:    cfg.Mistral.BaseURL,
		APIKeyEnv:  cfg.Mistral.APIKeyEnv,
		ChatModel:  cfg.Mistral.ChatModel,
		EmbedModel: cfg.Mistral.EmbedModel,
		Dimension:  cfg.Embedder.Dimension,
		Timeout:    time.Duration(cfg.Mistral.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatal("mistral client init failed", zap.Error(err))
	}

	// Assemble components; one batcher, store and synchronizer are shared
	// by the classifier and the retriever so the rate ceiling and the
	// per-collection sync flags hold process-wide.
	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "mistral", "":
		emb = client
	case "hash":
		emb = hash.NewEmbedder(cfg.Embedder.Dimension)
	default:
		log.Fatal("unknown embedder type", zap.String("type", cfg.Embedder.Type))
	}

	gate := embedding.NewRateGate(cfg.Embedder.RPS)
	policy := embedding.BackoffPolicy{
		MaxRetries: uint64(cfg.Embedder.MaxRetries),
		BaseDelay:  time.Duration(cfg.Embedder.RetryDelaySecs * float64(time.Second)),
	}
	batcher := embedding.NewBatcher(emb, gate, policy, cfg.Embedder.BatchSize, log)

	var store vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory":
		store = memory.NewStorage()
	case "qdrant", "":
		q := cfg.VectorStore.Qdrant
		if q == nil {
			log.Fatal("qdrant config missing")
		}
		store = qdrant.NewStorage(qdrant.Config{
			URL:     q.URL,
			APIKey:  os.Getenv(q.APIKeyEnv),
			Timeout: time.Duration(q.TimeoutSecs) * time.Second,
		})
	default:
		log.Fatal("unknown vector store type", zap.String("type", cfg.VectorStore.Type))
	}

	syncer := vectorindex.NewSynchronizer(store, batcher, cfg.Embedder.Dimension, log)
	classifier := category.NewClassifier(syncer, batcher, store, category.Config{
		Collection: cfg.Categories.Collection,
		Threshold:  cfg.Categories.Threshold,
	}, log)
	dataset := similarity.NewDataset(cfg.Dataset.Path, log)
	retriever := similarity.NewRetriever(dataset, syncer, batcher, store, cfg.Dataset.Collection, log)
	svc := analysis.NewService(client, classifier, retriever, log)

	if _, err := tea.NewProgram(tui.New(svc)).Run(); err != nil {
		log.Fatal("tui exited", zap.Error(err))
	}
}
