package vectorstore

import "context"

// Point is one vector with its stable identifier and structured payload.
// Upserting a point with an existing ID overwrites it, which is what makes
// repeated syncs idempotent.
type Point struct {
	ID      string
	Vector  []float64
	Payload map[string]any
}

// Hit is one raw search result. Score is whatever the store reports for
// its configured metric; callers remap it before exposing it.
type Hit struct {
	Score   float64
	Payload map[string]any
}

// Storage persists named collections of vectors and supports
// nearest-neighbor search. Collections are created with cosine distance.
type Storage interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, name string, dimension int) error
	Upsert(ctx context.Context, name string, points []Point) error
	Count(ctx context.Context, name string) (int, error)
	Search(ctx context.Context, name string, vector []float64, topK int) ([]Hit, error)
}
