package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when nothing has been stored yet.
var ErrNotFound = errors.New("not found")

// SnapshotVersion describes one stored copy of the board.
type SnapshotVersion struct {
	Version  int64
	Reason   string
	Size     int
	Checksum string
	SavedAt  time.Time
}

// SnapshotRepo stores serialized board snapshots. Load returns the newest
// one, or an error wrapping ErrNotFound when the store is empty.
type SnapshotRepo interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte, reason string) error
	// History lists stored versions, newest first. limit <= 0 means all.
	History(ctx context.Context, limit int) ([]SnapshotVersion, error)
}

// Quarantiner is implemented by stores that overwrite in place. Quarantine
// keeps an undecodable blob somewhere the next Save will not touch and
// reports where.
type Quarantiner interface {
	Quarantine(ctx context.Context, blob []byte) (string, error)
}
