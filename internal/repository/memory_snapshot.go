package repository

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemorySnapshotRepo keeps snapshots in process memory. It backs the
// "memory" store driver and service tests.
type MemorySnapshotRepo struct {
	mu       sync.Mutex
	keep     int
	next     int64
	versions []memoryVersion // oldest first
}

type memoryVersion struct {
	meta SnapshotVersion
	body []byte
}

func NewMemorySnapshotRepo(keep int) *MemorySnapshotRepo {
	if keep < 1 {
		keep = 1
	}
	return &MemorySnapshotRepo{keep: keep, next: 1}
}

func (r *MemorySnapshotRepo) Load(_ context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.versions) == 0 {
		return nil, fmt.Errorf("board snapshot: %w", ErrNotFound)
	}
	latest := r.versions[len(r.versions)-1].body
	return append([]byte(nil), latest...), nil
}

func (r *MemorySnapshotRepo) Save(_ context.Context, blob []byte, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions = append(r.versions, memoryVersion{
		meta: SnapshotVersion{
			Version:  r.next,
			Reason:   reason,
			Size:     len(blob),
			Checksum: checksum(blob),
			SavedAt:  time.Now().UTC(),
		},
		body: append([]byte(nil), blob...),
	})
	r.next++
	if extra := len(r.versions) - r.keep; extra > 0 {
		r.versions = append([]memoryVersion(nil), r.versions[extra:]...)
	}
	return nil
}

func (r *MemorySnapshotRepo) History(_ context.Context, limit int) ([]SnapshotVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := capLimit(limit, len(r.versions))
	out := make([]SnapshotVersion, 0, n)
	for i := len(r.versions) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.versions[i].meta)
	}
	return out, nil
}

// Saves reports how many snapshots have been written in total.
func (r *MemorySnapshotRepo) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.next - 1)
}
