package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/alexanderramin/clubdeck/internal/repository"
	"github.com/alexanderramin/clubdeck/internal/snapshot"
	"go.uber.org/zap"
)

// Board owns the live aggregate. Every service reads and mutates through it;
// a mutation runs on a clone that replaces the live state only on success,
// and the flush happens under the same write lock.
type Board struct {
	mu        sync.RWMutex
	state     *domain.State
	persister *Persister
	clock     func() time.Time
	log       *zap.SugaredLogger
}

// NewBoard wraps an already loaded state. persister may be nil.
func NewBoard(state *domain.State, persister *Persister, clock func() time.Time, log *zap.SugaredLogger) *Board {
	if state == nil {
		state = domain.NewState()
	}
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Board{state: state, persister: persister, clock: clock, log: log}
}

// OpenBoard loads the newest snapshot from store. An empty store is seeded
// with the default club and flushed. A snapshot that fails to decode is
// set aside when the store supports it and replaced by the default club in
// memory only; the next mutation writes. Any other read failure aborts so
// a flaky store never has its data overwritten.
func OpenBoard(ctx context.Context, store repository.SnapshotRepo, persister *Persister, clock func() time.Time, log *zap.SugaredLogger) (*Board, error) {
	b := NewBoard(nil, persister, clock, log)
	if store == nil {
		b.state = domain.DefaultState(b.now())
		return b, nil
	}
	blob, err := store.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		b.log.Infow("no saved board; seeding default club")
		b.state = domain.DefaultState(b.now())
		b.persister.Flush(ctx, b.state, "seed")
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading board: %w", err)
	}
	state, err := snapshot.Decode(blob)
	if err != nil {
		b.log.Warnw("saved board is corrupt; starting from default club", "error", err)
		b.quarantine(ctx, store, blob)
		b.state = domain.DefaultState(b.now())
		return b, nil
	}
	b.state = state
	return b, nil
}

func (b *Board) quarantine(ctx context.Context, store repository.SnapshotRepo, blob []byte) {
	q, ok := store.(repository.Quarantiner)
	if !ok {
		return
	}
	where, err := q.Quarantine(ctx, blob)
	if err != nil {
		b.log.Warnw("could not set corrupt board aside", "error", err)
		return
	}
	b.log.Infow("corrupt board set aside", "location", where)
}

func (b *Board) now() time.Time {
	return b.clock().UTC().Round(0)
}

func (b *Board) read(fn func(s *domain.State) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return fn(b.state)
}

// mutate applies fn to a copy of the state. On error nothing changes and
// nothing is written.
func (b *Board) mutate(ctx context.Context, reason string, fn func(s *domain.State) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := b.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	b.state = next
	b.persister.Flush(ctx, next, reason)
	return nil
}

// replace swaps in a whole new aggregate, used by import and reset.
func (b *Board) replace(ctx context.Context, reason string, s *domain.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s
	b.persister.Flush(ctx, s, reason)
}

// Snapshot returns a deep copy of the live state.
func (b *Board) Snapshot() *domain.State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state.Clone()
}

// Persister exposes the write path, mainly for status output.
func (b *Board) Persister() *Persister {
	return b.persister
}
