package similarity

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ideascope/internal/domain"
	"ideascope/internal/embedding"
	"ideascope/internal/vectorindex"
	"ideascope/internal/vectorstore"
)

// Retriever finds reference companies semantically close to an idea.
// FindSimilar never fails: availability is favored over completeness, so
// any store or embedding error degrades to an empty result.
type Retriever struct {
	dataset    *Dataset
	sync       *vectorindex.Synchronizer
	embedder   *embedding.Batcher
	store      vectorstore.Storage
	collection string
	log        *zap.Logger
}

func NewRetriever(dataset *Dataset, sync *vectorindex.Synchronizer, embedder *embedding.Batcher, store vectorstore.Storage, collection string, log *zap.Logger) *Retriever {
	if collection == "" {
		collection = "startup_pitches"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Retriever{
		dataset:    dataset,
		sync:       sync,
		embedder:   embedder,
		store:      store,
		collection: collection,
		log:        log,
	}
}

// Sync force-pushes the reference dataset into the store, returning the
// number of points written.
func (r *Retriever) Sync(ctx context.Context, force bool) (int, error) {
	return r.sync.Sync(ctx, r.collection, r.dataset.Records(), force)
}

// FindSimilar returns up to limit reference companies nearest to the idea,
// with similarities remapped into [0,1]. An empty or unavailable dataset,
// or any error along the way, yields an empty result.
func (r *Retriever) FindSimilar(ctx context.Context, idea string, limit int) []domain.SimilarItem {
	records := r.dataset.Records()
	if len(records) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}

	if _, err := r.sync.Sync(ctx, r.collection, records, false); err != nil {
		r.log.Debug("dataset sync failed, skipping similarity retrieval", zap.Error(err))
		return nil
	}
	vector, err := r.embedder.EmbedOne(ctx, idea)
	if err != nil {
		r.log.Debug("idea embedding failed, skipping similarity retrieval", zap.Error(err))
		return nil
	}
	hits, err := r.store.Search(ctx, r.collection, vector, limit)
	if err != nil {
		r.log.Debug("similarity search failed", zap.Error(err))
		return nil
	}

	items := make([]domain.SimilarItem, 0, len(hits))
	for _, hit := range hits {
		items = append(items, domain.SimilarItem{
			Idea:       formatLabel(hit.Payload),
			Similarity: vectorindex.Similarity(hit.Score),
		})
	}
	return items
}

// formatLabel renders a human-readable label from the payload fields that
// are present, e.g. "Stripe (fintech • United States • unicorn • $95.0B)".
func formatLabel(payload map[string]any) string {
	name, _ := payload["company"].(string)
	if name == "" {
		name = "Unknown startup"
	}

	var details []string
	for _, key := range []string{"industry", "country", "status"} {
		if v, ok := payload[key].(string); ok && v != "" {
			details = append(details, v)
		}
	}
	if v, ok := payload["valuation_billion"].(float64); ok && v > 0 {
		details = append(details, fmt.Sprintf("$%.1fB", v))
	}

	if len(details) == 0 {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, strings.Join(details, " • "))
}
