//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

/* Test Helpers for PostgreSQL Integration Tests
 * Following the pattern from: https://eltonminetto.dev/post/2024-02-15-using-test-helpers/
 *
 * Run with: go test -tags=integration ./delivery/postgres/...
 * Requires Docker.
 */

const (
	defaultDatabase = "testdb"
	defaultUser     = "testuser"
	defaultPassword = "testpass"
)

// PostgresContainer holds the container and an open connection pool
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
}

// SetupPostgresContainer creates and starts a PostgreSQL testcontainer
// and opens a pool against it
func SetupPostgresContainer(t *testing.T, ctx context.Context) (*PostgresContainer, func()) {
	t.Helper()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(defaultDatabase),
		postgres.WithUsername(defaultUser),
		postgres.WithPassword(defaultPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err, "failed to open connection")
	require.NoError(t, db.PingContext(ctx), "failed to ping database")

	pc := &PostgresContainer{
		Container: pgContainer,
		DB:        db,
	}

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return pc, cleanup
}

// CreateTestRepository wraps the pool and bootstraps the schema
func CreateTestRepository(t *testing.T, ctx context.Context, db *sql.DB) *Repository {
	t.Helper()

	repo := NewRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx), "failed to create schema")

	return repo
}
