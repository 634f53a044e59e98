package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	boardRowID = 1

	upsertSnapshotQuery = `
INSERT INTO board_snapshots (id, version, body, reason, updated_at)
VALUES ($1, 1, $2, $3, now())
ON CONFLICT (id) DO UPDATE SET
    version = board_snapshots.version + 1,
    body = EXCLUDED.body,
    reason = EXCLUDED.reason,
    updated_at = EXCLUDED.updated_at`
	selectSnapshotQuery     = `SELECT body FROM board_snapshots WHERE id = $1`
	selectSnapshotMetaQuery = `SELECT version, reason, body::text, updated_at FROM board_snapshots WHERE id = $1`
)

// PostgresSnapshotRepo keeps the board as one JSONB row, bumping a version
// counter on every save.
type PostgresSnapshotRepo struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresSnapshotRepo(pool *pgxpool.Pool, timeout time.Duration) *PostgresSnapshotRepo {
	return &PostgresSnapshotRepo{pool: pool, timeout: timeout}
}

func (r *PostgresSnapshotRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresSnapshotRepo) Load(ctx context.Context) ([]byte, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var body []byte
	if err := r.pool.QueryRow(ctx, selectSnapshotQuery, boardRowID).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("board snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("loading board snapshot: %w", err)
	}
	return body, nil
}

func (r *PostgresSnapshotRepo) Save(ctx context.Context, blob []byte, reason string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.pool.Exec(ctx, upsertSnapshotQuery, boardRowID, string(blob), reason); err != nil {
		return fmt.Errorf("saving board snapshot: %w", err)
	}
	return nil
}

// History returns the current row only; older versions are overwritten.
func (r *PostgresSnapshotRepo) History(ctx context.Context, _ int) ([]SnapshotVersion, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		v    SnapshotVersion
		body string
	)
	err := r.pool.QueryRow(ctx, selectSnapshotMetaQuery, boardRowID).Scan(&v.Version, &v.Reason, &body, &v.SavedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading board snapshot metadata: %w", err)
	}
	v.Size = len(body)
	v.Checksum = checksum([]byte(body))
	v.SavedAt = v.SavedAt.UTC()
	return []SnapshotVersion{v}, nil
}
