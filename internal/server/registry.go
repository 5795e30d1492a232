package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/flagquiz/internal/flagquiz"
)

// EngineConfig controls how new games are dealt.
type EngineConfig struct {
	TotalRounds int
	// Seed makes games reproducible when non-zero: the nth game created is
	// dealt from PCG(Seed, n).
	Seed uint64
}

// game is one player's engine. The engine is single-threaded, so every
// access goes through mu.
type game struct {
	mu       sync.Mutex
	engine   *flagquiz.Engine
	lastUsed time.Time
	evicted  bool
}

// Registry owns the live games. It caches engines in memory, restores them
// from the store on a miss and saves a snapshot after every change.
type Registry struct {
	store  Store
	cfg    EngineConfig
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
	dealt  atomic.Uint64

	mu    sync.RWMutex
	games map[string]*game

	// deleting holds games whose store entry is being removed.
	deleting map[string]struct{}

	// evictions counts cache removals so a load that raced one is retried.
	evictions uint64
}

func NewRegistry(store Store, cfg EngineConfig, ttl time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		store:    store,
		cfg:      cfg,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		games:    make(map[string]*game),
		deleting: make(map[string]struct{}),
	}
}

func (r *Registry) newEngine() (*flagquiz.Engine, error) {
	opts := []flagquiz.Option{flagquiz.WithTotalRounds(r.cfg.TotalRounds)}
	if r.cfg.Seed != 0 {
		opts = append(opts, flagquiz.WithSource(rand.NewPCG(r.cfg.Seed, r.dealt.Add(1))))
	}
	return flagquiz.New(opts...)
}

// Create starts a new game and returns its view.
func (r *Registry) Create(ctx context.Context) (GameView, error) {
	e, err := r.newEngine()
	if err != nil {
		return GameView{}, fmt.Errorf("creating engine: %w", err)
	}
	id := uuid.NewString()
	if err := r.save(ctx, id, e); err != nil {
		return GameView{}, err
	}

	r.mu.Lock()
	r.games[id] = &game{engine: e, lastUsed: r.now()}
	r.mu.Unlock()

	return newGameView(id, e), nil
}

// View returns the current view of game id.
func (r *Registry) View(ctx context.Context, id string) (GameView, error) {
	return r.do(ctx, id, false, func(*flagquiz.Engine) error { return nil })
}

// Update runs fn on the engine of game id and persists the result. If fn
// fails nothing is saved.
func (r *Registry) Update(ctx context.Context, id string, fn func(e *flagquiz.Engine) error) (GameView, error) {
	return r.do(ctx, id, true, fn)
}

func (r *Registry) do(ctx context.Context, id string, write bool, fn func(e *flagquiz.Engine) error) (GameView, error) {
	for {
		g, err := r.get(ctx, id)
		if err != nil {
			return GameView{}, err
		}

		g.mu.Lock()
		if g.evicted {
			// Lost a race with Sweep or Delete; look the game up again.
			g.mu.Unlock()
			continue
		}
		view, err := r.apply(ctx, id, g, write, fn)
		g.mu.Unlock()
		return view, err
	}
}

func (r *Registry) apply(ctx context.Context, id string, g *game, write bool, fn func(e *flagquiz.Engine) error) (GameView, error) {
	g.lastUsed = r.now()
	if !write {
		return newGameView(id, g.engine), nil
	}

	// Work on a copy so a failed save leaves the cached engine untouched.
	snap, err := g.engine.Snapshot()
	if err != nil {
		return GameView{}, err
	}
	e, err := flagquiz.Restore(snap, nil)
	if err != nil {
		return GameView{}, err
	}
	if err := fn(e); err != nil {
		return GameView{}, err
	}
	if err := r.save(ctx, id, e); err != nil {
		return GameView{}, err
	}
	g.engine = e
	return newGameView(id, e), nil
}

// get returns the cached game id, loading it from the store on a miss. The
// store is read without holding r.mu; if a game left the cache meanwhile the
// load is retried so a stale or deleted snapshot is never cached.
func (r *Registry) get(ctx context.Context, id string) (*game, error) {
	for {
		r.mu.RLock()
		g, ok := r.games[id]
		_, deleting := r.deleting[id]
		evictions := r.evictions
		r.mu.RUnlock()
		if ok {
			return g, nil
		}
		if deleting {
			return nil, ErrNotFound
		}

		snap, err := r.store.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		e, err := flagquiz.Restore(snap, nil)
		if err != nil {
			return nil, fmt.Errorf("restoring game %s: %w", id, err)
		}

		r.mu.Lock()
		// Double-check after acquiring write lock.
		if g, ok := r.games[id]; ok {
			r.mu.Unlock()
			return g, nil
		}
		if r.evictions != evictions {
			r.mu.Unlock()
			continue
		}
		g = &game{engine: e, lastUsed: r.now()}
		r.games[id] = g
		r.mu.Unlock()
		return g, nil
	}
}

func (r *Registry) save(ctx context.Context, id string, e *flagquiz.Engine) error {
	snap, err := e.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshotting game %s: %w", id, err)
	}
	return r.store.Save(ctx, id, snap)
}

// Delete discards game id from the cache and the store. Lookups of id fail
// with ErrNotFound from the moment Delete is called.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, busy := r.deleting[id]; busy {
		r.mu.Unlock()
		return ErrNotFound
	}
	g, cached := r.games[id]
	delete(r.games, id)
	r.deleting[id] = struct{}{}
	r.evictions++
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.deleting, id)
		r.mu.Unlock()
	}()

	if cached {
		// Waits for an update in flight, which saves before the store
		// entry is removed below.
		g.mu.Lock()
		g.evicted = true
		g.mu.Unlock()
	}

	err := r.store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) && cached {
		return nil
	}
	return err
}

// Len is the number of games held in memory.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Sweep drops games idle for longer than the TTL from memory and prunes the
// store. Games busy in a request are skipped.
func (r *Registry) Sweep(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	evicted := 0
	for id, g := range r.games {
		if !g.mu.TryLock() {
			continue
		}
		if g.lastUsed.Before(cutoff) {
			g.evicted = true
			delete(r.games, id)
			r.evictions++
			evicted++
		}
		g.mu.Unlock()
	}
	r.mu.Unlock()

	pruned, err := r.store.Prune(ctx, cutoff)
	if err != nil {
		return evicted, err
	}
	if evicted > 0 || pruned > 0 {
		r.logger.Info("swept idle games", "evicted", evicted, "pruned", pruned)
	}
	return evicted, nil
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if _, err := r.Sweep(ctx); err != nil {
				r.logger.Error("sweeping games", "error", err)
			}
		}
	}
}
