package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/alexanderramin/clubdeck/internal/repository"
	"github.com/alexanderramin/clubdeck/internal/snapshot"
	"go.uber.org/zap"
)

// Persister writes the whole aggregate after each mutation. Writes are
// advisory: a failure is logged as domain.ErrPersistenceWrite and the board
// carries on in memory.
type Persister struct {
	store    repository.SnapshotRepo
	log      *zap.SugaredLogger
	failures atomic.Int64
	lastErr  atomic.Pointer[error]
}

// NewPersister returns a Persister. A nil store disables persistence.
func NewPersister(store repository.SnapshotRepo, log *zap.SugaredLogger) *Persister {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Persister{store: store, log: log.Named("persist")}
}

// Flush never returns an error.
func (p *Persister) Flush(ctx context.Context, s *domain.State, reason string) {
	if p == nil || p.store == nil {
		return
	}
	if err := p.write(ctx, s, reason); err != nil {
		wrapped := fmt.Errorf("%w: %v", domain.ErrPersistenceWrite, err)
		p.failures.Add(1)
		p.lastErr.Store(&wrapped)
		p.log.Warnw("board flush failed; continuing in memory",
			"reason", reason,
			"error", wrapped,
		)
	}
}

func (p *Persister) write(ctx context.Context, s *domain.State, reason string) error {
	blob, err := snapshot.Encode(s)
	if err != nil {
		return err
	}
	return p.store.Save(ctx, blob, reason)
}

// Failures counts swallowed write failures since start-up.
func (p *Persister) Failures() int64 {
	return p.failures.Load()
}

// LastError returns the most recent swallowed failure, if any.
func (p *Persister) LastError() error {
	if e := p.lastErr.Load(); e != nil {
		return *e
	}
	return nil
}

// History lists stored snapshot versions, newest first.
func (p *Persister) History(ctx context.Context, limit int) ([]repository.SnapshotVersion, error) {
	if p == nil || p.store == nil {
		return nil, nil
	}
	return p.store.History(ctx, limit)
}
