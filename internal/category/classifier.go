package category

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"ideascope/internal/embedding"
	"ideascope/internal/vectorindex"
	"ideascope/internal/vectorstore"
)

// Classifier assigns a market category to an idea using a two-tier
// strategy: nearest category profile in vector space when the store is
// reachable, weighted keyword matching otherwise. Classify never fails;
// the worst case is the general category.
type Classifier struct {
	sync       *vectorindex.Synchronizer
	embedder   *embedding.Batcher
	store      vectorstore.Storage
	collection string
	threshold  float64
	log        *zap.Logger
}

// Config for the classifier's vector route.
type Config struct {
	Collection string
	// Threshold is the similarity below which a vector hit is logged as a
	// weak guess. The hit is still returned: the threshold governs
	// logging, not whether the keyword fallback runs. The fallback runs
	// only when the vector route yields nothing at all.
	Threshold float64
}

func NewClassifier(sync *vectorindex.Synchronizer, embedder *embedding.Batcher, store vectorstore.Storage, cfg Config, log *zap.Logger) *Classifier {
	if cfg.Collection == "" {
		cfg.Collection = "category_profiles"
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = 0.2
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{
		sync:       sync,
		embedder:   embedder,
		store:      store,
		collection: cfg.Collection,
		threshold:  cfg.Threshold,
		log:        log,
	}
}

// Classify returns the category of the idea, falling back from the vector
// route to keyword matching and finally to the general category. Any
// failure on the vector route (store unreachable, embedding error) is
// swallowed and treated as "no vector result".
func (c *Classifier) Classify(ctx context.Context, idea string) string {
	if strings.TrimSpace(idea) == "" {
		return DefaultCategory
	}
	if cat := c.vectorCategory(ctx, idea); cat != "" {
		return cat
	}
	return KeywordCategory(idea)
}

func (c *Classifier) vectorCategory(ctx context.Context, idea string) string {
	if _, err := c.sync.Sync(ctx, c.collection, ProfileRecords(), false); err != nil {
		c.log.Debug("category profile sync failed, using keyword fallback", zap.Error(err))
		return ""
	}
	vector, err := c.embedder.EmbedOne(ctx, idea)
	if err != nil {
		c.log.Debug("idea embedding failed, using keyword fallback", zap.Error(err))
		return ""
	}
	hits, err := c.store.Search(ctx, c.collection, vector, 3)
	if err != nil {
		c.log.Debug("category profile search failed, using keyword fallback", zap.Error(err))
		return ""
	}

	best := ""
	bestSimilarity := 0.0
	for _, hit := range hits {
		cat, _ := hit.Payload["category"].(string)
		if cat == "" {
			continue
		}
		if sim := vectorindex.Similarity(hit.Score); sim > bestSimilarity {
			best = cat
			bestSimilarity = sim
		}
	}
	if best != "" && bestSimilarity < c.threshold {
		c.log.Debug("vector category below threshold, keeping as best guess",
			zap.String("category", best), zap.Float64("similarity", bestSimilarity))
	}
	return best
}

// KeywordCategory classifies an idea purely on the keyword tables: the
// category with the highest whole-word weighted match sum wins, ties going
// to the earliest category in priority order. A non-positive best score
// yields the general category.
func KeywordCategory(idea string) string {
	text := strings.ToLower(idea)
	scores := make(map[string]float64, len(Keywords))
	for name, keywords := range Keywords {
		scores[name] = keywordScore(text, keywords)
	}

	bestScore := 0.0
	for _, s := range scores {
		if s > bestScore {
			bestScore = s
		}
	}
	if bestScore <= 0 {
		return DefaultCategory
	}
	for _, name := range Priority {
		if scores[name] == bestScore {
			return name
		}
	}
	return DefaultCategory
}

func keywordScore(text string, keywords []Keyword) float64 {
	score := 0.0
	for _, kw := range keywords {
		if wordPattern(kw.Word).MatchString(text) {
			score += kw.Weight
		}
	}
	return score
}

var (
	patternCache = map[string]*regexp.Regexp{}
)

func wordPattern(word string) *regexp.Regexp {
	if re, ok := patternCache[word]; ok {
		return re
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(word)) + `\b`)
	patternCache[word] = re
	return re
}

func init() {
	// compile the whole-word patterns up front so concurrent Classify
	// calls only ever read the cache
	for _, keywords := range Keywords {
		for _, kw := range keywords {
			wordPattern(kw.Word)
		}
	}
}
