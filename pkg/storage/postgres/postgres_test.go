package postgres_test

import (
	root "botlist"
	"botlist/pkg/storage/postgres"
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testUser     = "botlist"
	testPassword = "botlist"
	testDB       = "botlist_test"
)

type postgresContainer struct {
	Container testcontainers.Container
	Host      string
	Port      int
}

func startPostgresContainer(ctx context.Context) (*postgresContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_DB":       testDB,
		},
		// the init scripts restart the server once before it is usable
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get container host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, fmt.Errorf("could not get mapped port: %w", err)
	}

	return &postgresContainer{
		Container: container,
		Host:      host,
		Port:      mappedPort.Int(),
	}, nil
}

// runMigrations applies the embedded listing migrations, the same set the
// migrate command runs.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(root.Migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("could not set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupTestDB(t *testing.T) (*postgres.PgSQL, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := startPostgresContainer(ctx)
	require.NoError(t, err)

	pgSQL, err := postgres.New(ctx, postgres.Options{
		Username:           testUser,
		Password:           testPassword,
		Host:               pgContainer.Host,
		Port:               pgContainer.Port,
		Database:           testDB,
		SslMode:            "disable",
		ConnMaxLifetime:    time.Minute,
		ConnMaxIdleTime:    time.Minute,
		MaxOpenConnections: 5,
		MaxIdleConnections: 1,
	})
	require.NoError(t, err)

	require.NoError(t, runMigrations(pgSQL.DB.(*sql.DB)))

	return pgSQL, func() {
		_ = pgSQL.Close()
		_ = pgContainer.Container.Terminate(ctx)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := postgres.New(context.Background(), postgres.Options{
		Host:    "localhost",
		Port:    5432,
		SslMode: "sometimes",
	})
	require.ErrorContains(t, err, "could not parse pgxpool config")
}

func TestPgSQL_Close_ClosesPool(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, pg.Pool.Ping(context.Background()))
	require.NoError(t, pg.Close())
	require.Error(t, pg.Pool.Ping(context.Background()))
}
