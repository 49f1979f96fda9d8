// Command ideascope-sync pushes the category profiles and the reference
// dataset into the vector store, bypassing the in-process sync flags.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ideascope/internal/category"
	"ideascope/internal/config"
	"ideascope/internal/embedding"
	"ideascope/internal/embedding/hash"
	"ideascope/internal/embedding/mistral"
	"ideascope/internal/logger"
	"ideascope/internal/similarity"
	"ideascope/internal/vectorindex"
	"ideascope/internal/vectorstore"
	"ideascope/internal/vectorstore/memory"
	"ideascope/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var force bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file")
	flag.BoolVar(&force, "force", true, "Re-embed and upsert even if the collections look populated")
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

	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "mistral", "":
		client, err := mistral.NewClient(mistral.Config{
			BaseURL:    cfg.Mistral.BaseURL,
			APIKeyEnv:  cfg.Mistral.APIKeyEnv,
			EmbedModel: cfg.Mistral.EmbedModel,
			Dimension:  cfg.Embedder.Dimension,
			Timeout:    time.Duration(cfg.Mistral.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatal("mistral client init failed", zap.Error(err))
		}
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
	ctx := context.Background()

	written, err := syncer.Sync(ctx, cfg.Categories.Collection, category.ProfileRecords(), force)
	if err != nil {
		log.Fatal("category profile sync failed", zap.Error(err))
	}
	log.Info("category profiles pushed",
		zap.String("collection", cfg.Categories.Collection), zap.Int("written", written))

	dataset := similarity.NewDataset(cfg.Dataset.Path, log)
	written, err = syncer.Sync(ctx, cfg.Dataset.Collection, dataset.Records(), force)
	if err != nil {
		log.Fatal("reference dataset sync failed", zap.Error(err))
	}
	log.Info("reference dataset pushed",
		zap.String("collection", cfg.Dataset.Collection), zap.Int("written", written))
}
