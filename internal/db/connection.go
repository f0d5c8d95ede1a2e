package db

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Options tune a viewer connection.
type Options struct {
	// StatementTimeout cancels queries that run longer. Zero disables it.
	StatementTimeout time.Duration
	// ReadWrite allows writes; viewer sessions are read-only by default.
	ReadWrite bool
}

// DB holds the database connection pool
type DB struct {
	pool *pgxpool.Pool
	url  string
	mu   sync.RWMutex
}

// sessionSettings returns the statements applied to every new connection.
func sessionSettings(opts Options) []string {
	var gucs []string
	if !opts.ReadWrite {
		gucs = append(gucs, "SET default_transaction_read_only = on")
	}
	if opts.StatementTimeout > 0 {
		gucs = append(gucs, "SET statement_timeout = "+strconv.FormatInt(opts.StatementTimeout.Milliseconds(), 10))
	}
	gucs = append(gucs, "SET application_name = 'gridview'")
	return gucs
}

// Connect establishes a small connection pool. A grid loads one result set
// at a time, so two connections are plenty.
func Connect(ctx context.Context, url string, opts Options) (*DB, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid connection URL: %w", err)
	}

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 5 * time.Minute

	gucs := sessionSettings(opts)
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for _, guc := range gucs {
			if _, err := conn.Exec(ctx, guc); err != nil {
				return fmt.Errorf("failed to apply %q on new connection: %w", guc, err)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, url: url}, nil
}

// Close closes the database connection
func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}
}

// Query executes a query and returns rows
func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.mu.RLock()
	pool := db.pool
	db.mu.RUnlock()
	if pool == nil {
		return nil, fmt.Errorf("query: pool closed")
	}
	return pool.Query(ctx, sql, args...)
}

// QueryRow executes a query and returns a single row
func (db *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

// URL returns the connection URL
func (db *DB) URL() string {
	return db.url
}

// IsConnected returns true if the database is connected
func (db *DB) IsConnected() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.pool != nil
}
