package ledger

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS notified_games (
	game_id     TEXT PRIMARY KEY,
	notified_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	insertSQL = `INSERT INTO notified_games (game_id) VALUES ($1) ON CONFLICT (game_id) DO NOTHING`
	existsSQL = `SELECT EXISTS (SELECT 1 FROM notified_games WHERE game_id = $1)`
	resetSQL  = `TRUNCATE notified_games`
)

// PostgresStore keeps ids in the notified_games table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	closed atomic.Bool
}

// OpenPostgres connects to databaseURL, verifies connectivity and creates the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolCfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Has(ctx context.Context, gameID string) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	var exists bool
	if err := s.pool.QueryRow(ctx, existsSQL, gameID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *PostgresStore) Add(ctx context.Context, gameID string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	_, err := s.pool.Exec(ctx, insertSQL, gameID)
	return err
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	_, err := s.pool.Exec(ctx, resetSQL)
	return err
}

func (s *PostgresStore) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.pool.Close()
	}
	return nil
}
