package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS board_snapshots (
		id         SMALLINT PRIMARY KEY,
		version    BIGINT NOT NULL,
		body       JSONB NOT NULL,
		reason     TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// OpenPostgres connects a pool, pings it and applies the board schema.
func OpenPostgres(ctx context.Context, dsn string, maxConns int32, timeout time.Duration) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pool: %w", err)
	}
	for i, stmt := range postgresMigrations {
		if _, err := pool.Exec(connectCtx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres migration %d: %w", i, err)
		}
	}
	return pool, nil
}
