package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/clubdeck/internal/db"
)

// SQLiteSnapshotRepo keeps the last keep snapshots in board_snapshots.
type SQLiteSnapshotRepo struct {
	db   db.DBTX
	uow  db.UnitOfWork
	keep int
}

func NewSQLiteSnapshotRepo(database db.DBTX, uow db.UnitOfWork, keep int) *SQLiteSnapshotRepo {
	if keep < 1 {
		keep = 1
	}
	return &SQLiteSnapshotRepo{db: database, uow: uow, keep: keep}
}

func (r *SQLiteSnapshotRepo) Load(ctx context.Context) ([]byte, error) {
	var (
		body []byte
		sum  string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT body, checksum FROM board_snapshots ORDER BY version DESC LIMIT 1`,
	).Scan(&body, &sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("board snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("loading board snapshot: %w", err)
	}
	if got := checksum(body); got != sum {
		return nil, fmt.Errorf("board snapshot checksum mismatch: stored %s, computed %s", sum, got)
	}
	return body, nil
}

// Save appends a version and prunes older ones in the same transaction.
func (r *SQLiteSnapshotRepo) Save(ctx context.Context, blob []byte, reason string) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO board_snapshots (body, checksum, created_at, reason, byte_size) VALUES (?, ?, ?, ?, ?)`,
			blob, checksum(blob), nowUTC(), reason, len(blob),
		)
		if err != nil {
			return fmt.Errorf("inserting board snapshot: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`DELETE FROM board_snapshots WHERE version NOT IN (
				SELECT version FROM board_snapshots ORDER BY version DESC LIMIT ?
			)`, r.keep,
		)
		if err != nil {
			return fmt.Errorf("pruning board snapshots: %w", err)
		}
		return nil
	})
}

func (r *SQLiteSnapshotRepo) History(ctx context.Context, limit int) ([]SnapshotVersion, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT version, reason, byte_size, checksum, created_at
		FROM board_snapshots ORDER BY version DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing board snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotVersion
	for rows.Next() {
		var (
			v       SnapshotVersion
			savedAt string
		)
		if err := rows.Scan(&v.Version, &v.Reason, &v.Size, &v.Checksum, &savedAt); err != nil {
			return nil, fmt.Errorf("scanning board snapshot: %w", err)
		}
		v.SavedAt = parseTime(savedAt)
		out = append(out, v)
	}
	return out, rows.Err()
}
