package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/playperu/flagquiz/internal/flagquiz"
)

var ErrNotFound = errors.New("not found")

// Store persists in-progress games between requests so a game survives
// eviction from the registry and server restarts. Scores of finished games
// are not kept anywhere else.
type Store interface {
	Load(ctx context.Context, id string) (flagquiz.Snapshot, error)
	Save(ctx context.Context, id string, snap flagquiz.Snapshot) error
	Delete(ctx context.Context, id string) error
	// Prune removes games not saved since before and reports how many.
	Prune(ctx context.Context, before time.Time) (int, error)
}

type memoryEntry struct {
	snap      flagquiz.Snapshot
	updatedAt time.Time
}

// MemoryStore keeps snapshots in a map. Games are lost on restart.
type MemoryStore struct {
	mu    sync.Mutex
	games map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (flagquiz.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.games[id]
	if !ok {
		return flagquiz.Snapshot{}, ErrNotFound
	}
	return e.snap, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, snap flagquiz.Snapshot) error {
	s.mu.Lock()
	s.games[id] = memoryEntry{snap: snap, updatedAt: s.now()}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; !ok {
		return ErrNotFound
	}
	delete(s.games, id)
	return nil
}

func (s *MemoryStore) Prune(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.games {
		if e.updatedAt.Before(before) {
			delete(s.games, id)
			n++
		}
	}
	return n, nil
}
