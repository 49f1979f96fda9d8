package embedding

import (
	"context"
	"errors"
	"fmt"
)

// Embedder converts batches of free text into fixed-dimension vectors.
type Embedder interface {
	Dimension() int
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Error is a failed embedding call. Throttled marks throttling-class
// failures (rate limits, capacity) that are worth retrying; anything else
// propagates immediately.
type Error struct {
	Status    int
	Message   string
	Throttled bool
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("embedding: %s (status %d)", e.Message, e.Status)
	}
	return "embedding: " + e.Message
}

// IsThrottled reports whether err is a throttling-class embedding failure.
func IsThrottled(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Throttled
}
