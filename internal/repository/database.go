package repository

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is the subset of pgxpool.Pool used by the session repository.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// NewDatabase opens the session database pool and checks that it answers.
func NewDatabase(host, port, username, password, dbName string) (*pgxpool.Pool, error) {
	var (
		ctxTimeout   = 5 * time.Second
		idleTime     = 5 * time.Minute
		hcPeriod     = 30 * time.Second
		minConns     = int32(1)
		maxConns     = int32(8)
		maxConnAlive = time.Hour
	)

	poolConfig, err := pgxpool.ParseConfig(connString(host, port, username, password, dbName))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MinConns = minConns
	poolConfig.MaxConns = maxConns
	poolConfig.MaxConnIdleTime = idleTime
	poolConfig.MaxConnLifetime = maxConnAlive
	poolConfig.HealthCheckPeriod = hcPeriod

	ctx, cancel := context.WithTimeout(context.Background(), ctxTimeout)
	defer cancel()

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create session database pool: %w", err)
	}

	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("failed to ping session database: %w", err)
	}

	return dbpool, nil
}

// connString escapes credentials so passwords may contain any character.
func connString(host, port, username, password, dbName string) string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(username, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + dbName,
		RawQuery: url.Values{"sslmode": {"disable"}, "application_name": {"athena"}}.Encode(),
	}

	return dsn.String()
}
