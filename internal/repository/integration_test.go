//go:build integration

package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestSessionRepository_Postgres(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("athena"),
		postgres.WithUsername("athena"),
		postgres.WithPassword("athena"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, testcontainers.TerminateContainer(container))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(stdlib.OpenDBFromPool(pool), filepath.Join("..", "..", "migrations")))

	repo := repository.NewSessionRepository(pool, metrics.NewMetrics(prometheus.NewRegistry()))

	require.NoError(t, repo.Ping(ctx))
	require.NoError(t, repo.SaveSession(ctx, "sid-1", "token-1"))
	require.NoError(t, repo.SaveSession(ctx, "sid-1", "token-2"))

	token, err := repo.GetToken(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)

	require.NoError(t, repo.DeleteSession(ctx, "sid-1"))
	require.NoError(t, repo.DeleteSession(ctx, "sid-1"))

	_, err = repo.GetToken(ctx, "sid-1")
	require.ErrorIs(t, err, repository.ErrSessionNotFound)
}
