package embedding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeEmbedder scripts failures per call and records batch sizes.
type fakeEmbedder struct {
	mu        sync.Mutex
	dimension int
	failures  []error // consumed one per call; nil entry means success
	batches   [][]string
}

func (f *fakeEmbedder) Dimension() int { return f.dimension }

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]string(nil), texts...))
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		if err != nil {
			return nil, err
		}
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = make([]float64, f.dimension)
	}
	return out, nil
}

func throttle() error {
	return &Error{Status: 429, Message: "rate limited", Throttled: true}
}

func fastPolicy() BackoffPolicy {
	return BackoffPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}
}

func TestBatcherEmbedAllBatches(t *testing.T) {
	emb := &fakeEmbedder{dimension: 4}
	b := NewBatcher(emb, NewRateGate(0), fastPolicy(), 2, zaptest.NewLogger(t))

	vectors, err := b.EmbedAll(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, vectors, 3)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, emb.batches)
}

func TestBatcherRetriesThrottle(t *testing.T) {
	emb := &fakeEmbedder{dimension: 2, failures: []error{throttle(), nil}}
	b := NewBatcher(emb, NewRateGate(0), fastPolicy(), 4, zaptest.NewLogger(t))

	vectors, err := b.EmbedAll(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vectors, 2)
	assert.Len(t, emb.batches, 2, "one throttled attempt plus one retry")
}

func TestBatcherHalvesBatchAfterRetryCeiling(t *testing.T) {
	// First batch of 4 keeps throttling past the retry ceiling (1 + 2
	// retries); the batcher halves to 2 and resumes from offset 0.
	emb := &fakeEmbedder{dimension: 2, failures: []error{throttle(), throttle(), throttle()}}
	b := NewBatcher(emb, NewRateGate(0), fastPolicy(), 4, zaptest.NewLogger(t))

	vectors, err := b.EmbedAll(context.Background(), []string{"a", "b", "c", "d"})
	require.NoError(t, err)
	assert.Len(t, vectors, 4)

	require.Len(t, emb.batches, 5)
	assert.Equal(t, []string{"a", "b", "c", "d"}, emb.batches[0])
	assert.Equal(t, []string{"a", "b"}, emb.batches[3], "resumes from the same offset with a halved batch")
	assert.Equal(t, []string{"c", "d"}, emb.batches[4])
}

func TestBatcherGivesUpAtBatchSizeOne(t *testing.T) {
	failures := make([]error, 0, 12)
	for i := 0; i < 12; i++ {
		failures = append(failures, throttle())
	}
	emb := &fakeEmbedder{dimension: 2, failures: failures}
	b := NewBatcher(emb, NewRateGate(0), fastPolicy(), 2, zaptest.NewLogger(t))

	_, err := b.EmbedAll(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, IsThrottled(err))
}

func TestBatcherNonThrottleErrorPropagatesImmediately(t *testing.T) {
	boom := &Error{Status: 401, Message: "unauthorized"}
	emb := &fakeEmbedder{dimension: 2, failures: []error{boom}}
	b := NewBatcher(emb, NewRateGate(0), fastPolicy(), 4, zaptest.NewLogger(t))

	_, err := b.EmbedAll(context.Background(), []string{"a"})
	require.Error(t, err)
	var embErr *Error
	require.True(t, errors.As(err, &embErr))
	assert.Equal(t, 401, embErr.Status)
	assert.Len(t, emb.batches, 1, "no retry for non-throttle errors")
}

func TestBatcherEmptyInput(t *testing.T) {
	emb := &fakeEmbedder{dimension: 2}
	b := NewBatcher(emb, NewRateGate(0), fastPolicy(), 4, zaptest.NewLogger(t))

	vectors, err := b.EmbedAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Empty(t, emb.batches)
}

func TestRateGateEnforcesInterval(t *testing.T) {
	gate := NewRateGate(100) // 10ms between calls
	start := time.Now()
	gate.Wait()
	gate.Wait()
	gate.Wait()
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRateGateDisabled(t *testing.T) {
	gate := NewRateGate(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		gate.Wait()
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestIsThrottled(t *testing.T) {
	assert.True(t, IsThrottled(&Error{Status: 429, Throttled: true}))
	assert.False(t, IsThrottled(&Error{Status: 400}))
	assert.False(t, IsThrottled(errors.New("plain")))
}
