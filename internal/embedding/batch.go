package embedding

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// BackoffPolicy controls how a throttled batch is retried: up to
// MaxRetries extra attempts with a linearly growing delay
// (BaseDelay, 2*BaseDelay, ...).
type BackoffPolicy struct {
	MaxRetries uint64
	BaseDelay  time.Duration
}

// DefaultBackoff mirrors the provider defaults: three retries, two seconds
// base delay.
var DefaultBackoff = BackoffPolicy{MaxRetries: 3, BaseDelay: 2 * time.Second}

func (p BackoffPolicy) backoff() retry.Backoff {
	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return p.BaseDelay * time.Duration(attempt), false
	})
}

// Batcher drives an Embedder over arbitrarily long text lists: it slices
// the input into batches, rate-limits every outbound call through a shared
// gate, retries throttled batches per the backoff policy, and halves the
// batch size when a batch keeps throttling past the retry ceiling,
// resuming from the same offset instead of failing outright.
type Batcher struct {
	embedder  Embedder
	gate      *RateGate
	policy    BackoffPolicy
	batchSize int
	log       *zap.Logger
}

// NewBatcher wires a Batcher around the given embedder. batchSize values
// below 1 are raised to 1; a nil logger is replaced with a no-op one.
func NewBatcher(embedder Embedder, gate *RateGate, policy BackoffPolicy, batchSize int, log *zap.Logger) *Batcher {
	if batchSize < 1 {
		batchSize = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	if gate == nil {
		gate = NewRateGate(0)
	}
	return &Batcher{embedder: embedder, gate: gate, policy: policy, batchSize: batchSize, log: log}
}

// Dimension reports the underlying embedder's vector dimension.
func (b *Batcher) Dimension() int { return b.embedder.Dimension() }

// EmbedAll embeds every text, preserving order.
func (b *Batcher) EmbedAll(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	size := b.batchSize
	vectors := make([][]float64, 0, len(texts))
	for index := 0; index < len(texts); {
		end := index + size
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[index:end]

		out, err := b.embedBatch(ctx, batch)
		if err != nil {
			if IsThrottled(err) && size > 1 {
				size = size / 2
				b.log.Warn("embedding batch throttled past retry ceiling, halving batch size",
					zap.Int("batch_size", size), zap.Int("offset", index))
				continue
			}
			return nil, err
		}
		vectors = append(vectors, out...)
		index += len(batch)
	}
	return vectors, nil
}

// EmbedOne embeds a single text.
func (b *Batcher) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	vectors, err := b.EmbedAll(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, &Error{Message: "no embedding returned"}
	}
	return vectors[0], nil
}

func (b *Batcher) embedBatch(ctx context.Context, batch []string) ([][]float64, error) {
	var out [][]float64
	err := retry.Do(ctx, retry.WithMaxRetries(b.policy.MaxRetries, b.policy.backoff()), func(ctx context.Context) error {
		b.gate.Wait()
		vectors, err := b.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			if IsThrottled(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		out = vectors
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
