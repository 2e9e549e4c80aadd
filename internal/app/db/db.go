/*
Package db owns the PostgreSQL connection pool and the embedded goose
migrations for the direct-messaging schema (users, conversations, messages).
*/
package db

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"dmchat/internal/pkg/logx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Pool sizing. The hub's storage calls are short, so a modest pool with
// health checks covers both the HTTP handlers and the socket path.
const (
	maxConns        = 25
	minConns        = 5
	connMaxLifetime = 30 * time.Minute
	connMaxIdleTime = 5 * time.Minute
	healthCheck     = time.Minute

	startupTimeout = 15 * time.Second
)

// NewPool connects to PostgreSQL, verifies the connection, and applies any
// pending migrations before returning the pool.
func NewPool(dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}

	config.MaxConns = maxConns
	config.MinConns = minConns
	config.MaxConnLifetime = connMaxLifetime
	config.MaxConnIdleTime = connMaxIdleTime
	config.HealthCheckPeriod = healthCheck

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// runMigrations applies the embedded migrations through goose, which wants a
// database/sql handle rather than a pgx pool.
func runMigrations(pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logx.Info("Database migrations applied successfully.")
	return nil
}
