package testutil

import (
	"context"
	"testing"

	"bankroll/database"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const postgresImage = "postgres:16-alpine"

// TestDatabase is a migrated Postgres container with an open pool
type TestDatabase struct {
	Container *postgres.PostgresContainer
	DB        *database.DB
	URL       string
}

// SetupTestDatabase starts a migrated bankroll database for one test.
// Skipped with -short; the pool and container are released by t.Cleanup.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database container test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("bankroll_test"),
		postgres.WithUsername("bankroll"),
		postgres.WithPassword("bankroll"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"app":  "bankroll",
			"test": t.Name(),
		}),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrationsWithURL(url))

	db, err := database.NewConnection(ctx, url)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return &TestDatabase{Container: container, DB: db, URL: url}
}

// Reset empties every bankroll table so subtests can start from scratch
func (td *TestDatabase) Reset(t *testing.T) {
	t.Helper()
	_, err := td.DB.Exec(context.Background(), "TRUNCATE transactions, sessions, players RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}
