package vectorindex

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"ideascope/internal/embedding"
	"ideascope/internal/vectorstore"
)

// Record is one embeddable entity: a stable identifier, the text to embed,
// and the payload stored alongside the vector. IDs must be deterministic so
// repeated syncs overwrite instead of duplicating.
type Record struct {
	ID      string
	Text    string
	Payload map[string]any
}

// Synchronizer idempotently populates named vector-store collections. The
// in-process synced flags are advisory: the store is the system of record,
// and a restarted process re-checks collection existence and point counts
// instead of trusting recorded progress.
type Synchronizer struct {
	store     vectorstore.Storage
	embedder  *embedding.Batcher
	dimension int
	log       *zap.Logger

	mu     sync.Mutex
	states map[string]*collectionState
}

// collectionState serializes syncs of one collection. Waiters blocked on
// the mutex observe synced=true once the holder finishes and short-circuit.
type collectionState struct {
	mu     sync.Mutex
	synced bool
}

func NewSynchronizer(store vectorstore.Storage, embedder *embedding.Batcher, dimension int, log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{
		store:     store,
		embedder:  embedder,
		dimension: dimension,
		log:       log,
		states:    make(map[string]*collectionState),
	}
}

// Sync ensures the named collection exists and holds the given records,
// returning how many points were written. Without force it is cheap to
// call repeatedly: an in-process flag short-circuits after the first
// successful sync, and before that a live point count of at least
// len(records) is taken as already-populated. The count heuristic accepts
// staleness in exchange for cheap idempotence; it is not exact dedup.
func (s *Synchronizer) Sync(ctx context.Context, name string, records []Record, force bool) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	st := s.state(name)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.synced && !force {
		return 0, nil
	}

	if err := s.ensureCollection(ctx, name); err != nil {
		return 0, err
	}

	needsRefresh := true
	if !force {
		if count, err := s.store.Count(ctx, name); err == nil && count >= len(records) {
			needsRefresh = false
		}
	}

	written := 0
	if needsRefresh {
		if err := s.upsert(ctx, name, records); err != nil {
			return 0, err
		}
		written = len(records)
	}

	st.synced = true
	s.log.Info("collection synced",
		zap.String("collection", name),
		zap.Int("records", len(records)),
		zap.Int("written", written))
	return written, nil
}

func (s *Synchronizer) state(name string) *collectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[name]
	if !ok {
		st = &collectionState{}
		s.states[name] = st
	}
	return st
}

func (s *Synchronizer) ensureCollection(ctx context.Context, name string) error {
	exists, err := s.store.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.store.CreateCollection(ctx, name, s.dimension)
}

func (s *Synchronizer) upsert(ctx context.Context, name string, records []Record) error {
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}
	vectors, err := s.embedder.EmbedAll(ctx, texts)
	if err != nil {
		return err
	}
	points := make([]vectorstore.Point, len(records))
	for i, r := range records {
		points[i] = vectorstore.Point{ID: r.ID, Vector: vectors[i], Payload: r.Payload}
	}
	return s.store.Upsert(ctx, name, points)
}
