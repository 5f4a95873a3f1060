// Package storage persists run records and simulation history snapshots to
// PostgreSQL via pgx, applying schema migrations with golang-migrate.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client wraps a pgx connection pool and exposes the run/snapshot queries the
// rest of the engine needs.
type Client struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying connection pool, for health checks.
func (c *Client) Pool() *pgxpool.Pool { return c.pool }

// NewClient opens a pooled connection, runs pending migrations, and returns
// a ready-to-use Client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Client{pool: pool}, nil
}

// Close releases the connection pool.
func (c *Client) Close() {
	c.pool.Close()
}

// CreateRun inserts a new run record in the "running" state.
func (c *Client) CreateRun(ctx context.Context, id string, timeMs, dtMs int64, saveMode string) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO runs (id, time_ms, dt_ms, save_mode) VALUES ($1, $2, $3, $4)`,
		id, timeMs, dtMs, saveMode)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", id, err)
	}
	return nil
}

// CompleteRun marks a run as completed.
func (c *Client) CompleteRun(ctx context.Context, id string) error {
	_, err := c.pool.Exec(ctx,
		`UPDATE runs SET status = 'completed', completed_at = $2 WHERE id = $1`,
		id, time.Now())
	if err != nil {
		return fmt.Errorf("complete run %s: %w", id, err)
	}
	return nil
}

// SaveSnapshot persists one history entry for a run.
func (c *Client) SaveSnapshot(ctx context.Context, runID string, sequence int, simTimeMs int64, blob []byte) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO run_snapshots (run_id, sequence, sim_time_ms, blob) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, sequence) DO UPDATE SET blob = EXCLUDED.blob, sim_time_ms = EXCLUDED.sim_time_ms`,
		runID, sequence, simTimeMs, blob)
	if err != nil {
		return fmt.Errorf("save snapshot %s#%d: %w", runID, sequence, err)
	}
	return nil
}

// LoadSnapshots returns every snapshot recorded for a run, ordered by
// sequence.
func (c *Client) LoadSnapshots(ctx context.Context, runID string) ([][]byte, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT blob FROM run_snapshots WHERE run_id = $1 ORDER BY sequence ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("load snapshots for run %s: %w", runID, err)
	}
	defer rows.Close()

	var blobs [][]byte
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		blobs = append(blobs, blob)
	}
	return blobs, rows.Err()
}

// DeleteRunsOlderThan removes runs (and their cascading snapshots) whose
// completed_at is older than cutoff. It returns the number of runs deleted.
func (c *Client) DeleteRunsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := c.pool.Exec(ctx,
		`DELETE FROM runs WHERE status = 'completed' AND completed_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old runs: %w", err)
	}
	return tag.RowsAffected(), nil
}
