package similarity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ideascope/internal/embedding"
	"ideascope/internal/embedding/hash"
	"ideascope/internal/vectorindex"
	"ideascope/internal/vectorstore"
	"ideascope/internal/vectorstore/memory"
)

func newTestRetriever(t *testing.T, store vectorstore.Storage, datasetPath string) *Retriever {
	batcher := embedding.NewBatcher(hash.NewEmbedder(32), embedding.NewRateGate(0),
		embedding.BackoffPolicy{MaxRetries: 1, BaseDelay: time.Millisecond}, 8, zaptest.NewLogger(t))
	syncer := vectorindex.NewSynchronizer(store, batcher, 32, zaptest.NewLogger(t))
	dataset := NewDataset(datasetPath, zaptest.NewLogger(t))
	return NewRetriever(dataset, syncer, batcher, store, "pitches_test", zaptest.NewLogger(t))
}

func TestFindSimilarHappyPath(t *testing.T) {
	r := newTestRetriever(t, memory.NewStorage(), writeDataset(t, sampleCSV))
	items := r.FindSimilar(context.Background(), "online payment processing for merchants", 2)
	require.NotEmpty(t, items)
	assert.LessOrEqual(t, len(items), 2)

	for _, item := range items {
		assert.NotEmpty(t, item.Idea)
		assert.GreaterOrEqual(t, item.Similarity, 0.0)
		assert.LessOrEqual(t, item.Similarity, 1.0)
	}
}

func TestFindSimilarDefaultLimit(t *testing.T) {
	r := newTestRetriever(t, memory.NewStorage(), writeDataset(t, sampleCSV))
	items := r.FindSimilar(context.Background(), "robotics", 0)
	assert.Len(t, items, 3, "limit defaults to 5, capped by dataset size")
}

func TestFindSimilarEmptyDataset(t *testing.T) {
	r := newTestRetriever(t, memory.NewStorage(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Empty(t, r.FindSimilar(context.Background(), "anything", 5))
}

func TestFindSimilarStoreFailureDegradesToEmpty(t *testing.T) {
	r := newTestRetriever(t, &erroringStore{}, writeDataset(t, sampleCSV))
	assert.Empty(t, r.FindSimilar(context.Background(), "anything", 5))
}

func TestRetrieverSyncWritesDataset(t *testing.T) {
	store := memory.NewStorage()
	r := newTestRetriever(t, store, writeDataset(t, sampleCSV))

	written, err := r.Sync(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	count, err := store.Count(context.Background(), "pitches_test")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name: "full payload",
			payload: map[string]any{
				"company": "Stripe", "industry": "Fintech", "country": "United States",
				"status": "unicorn", "valuation_billion": 95.0,
			},
			want: "Stripe (Fintech • United States • unicorn • $95.0B)",
		},
		{
			name:    "name only",
			payload: map[string]any{"company": "Acme"},
			want:    "Acme",
		},
		{
			name:    "missing name",
			payload: map[string]any{"industry": "Fintech"},
			want:    "Unknown startup (Fintech)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatLabel(tt.payload))
		})
	}
}

// erroringStore fails every operation.
type erroringStore struct{}

func (e *erroringStore) CollectionExists(context.Context, string) (bool, error) {
	return false, errors.New("store down")
}
func (e *erroringStore) CreateCollection(context.Context, string, int) error {
	return errors.New("store down")
}
func (e *erroringStore) Upsert(context.Context, string, []vectorstore.Point) error {
	return errors.New("store down")
}
func (e *erroringStore) Count(context.Context, string) (int, error) {
	return 0, errors.New("store down")
}
func (e *erroringStore) Search(context.Context, string, []float64, int) ([]vectorstore.Hit, error) {
	return nil, errors.New("store down")
}
