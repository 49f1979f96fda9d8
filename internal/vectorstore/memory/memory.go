package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ideascope/internal/vectorstore"
)

// Storage is an in-memory vector store using brute-force cosine search.
// It mirrors the external store's contract closely enough for offline runs
// and tests: named collections, id-keyed overwrite on upsert, exact counts.
type Storage struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	dimension int
	points    map[string]vectorstore.Point
}

func NewStorage() *Storage {
	return &Storage{collections: make(map[string]*collection)}
}

func (s *Storage) CollectionExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[name]
	return ok, nil
}

func (s *Storage) CreateCollection(_ context.Context, name string, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; ok {
		return nil
	}
	s.collections[name] = &collection{dimension: dimension, points: make(map[string]vectorstore.Point)}
	return nil
}

func (s *Storage) Upsert(_ context.Context, name string, points []vectorstore.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("collection %s does not exist", name)
	}
	for _, p := range points {
		if len(p.Vector) != col.dimension {
			return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(p.Vector), col.dimension)
		}
		col.points[p.ID] = p
	}
	return nil
}

func (s *Storage) Count(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.collections[name]
	if !ok {
		return 0, fmt.Errorf("collection %s does not exist", name)
	}
	return len(col.points), nil
}

func (s *Storage) Search(_ context.Context, name string, vector []float64, topK int) ([]vectorstore.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %s does not exist", name)
	}
	if topK <= 0 {
		topK = 5
	}
	hits := make([]vectorstore.Hit, 0, len(col.points))
	for _, p := range col.points {
		hits = append(hits, vectorstore.Hit{Score: cosine(p.Vector, vector), Payload: p.Payload})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (sqrt(na) * sqrt(nb))
}

func sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	z := x
	for i := 0; i < 8; i++ {
		z = 0.5 * (z + x/z)
	}
	return z
}
