package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/productcat/internal/models/m_product"
	"github.com/light-bringer/productcat/migrations"
)

// SetupPostgresTest starts a disposable PostgreSQL container, applies the
// schema and returns a pool. The container is purged on cleanup. The test
// is skipped when Docker is unreachable.
func SetupPostgresTest(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dpool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := dpool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	dpool.MaxWait = 2 * time.Minute

	resource, err := dpool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=productcat",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=productcat",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "failed to start postgres container")
	_ = resource.Expire(300)
	t.Cleanup(func() {
		_ = dpool.Purge(resource)
	})

	dsn := fmt.Sprintf("postgres://productcat:secret@%s/productcat?sslmode=disable", resource.GetHostPort("5432/tcp"))

	ctx := context.Background()
	var pool *pgxpool.Pool
	err = dpool.Retry(func() error {
		p, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	require.NoError(t, err, "postgres did not become ready")
	t.Cleanup(pool.Close)

	files, err := migrations.Load(migrations.Postgres)
	require.NoError(t, err)
	for _, f := range files {
		for _, stmt := range f.Statements {
			_, err := pool.Exec(ctx, stmt)
			require.NoError(t, err, "failed to apply %s", f.Name)
		}
	}

	return pool
}

// TruncatePostgres empties the products table and resets its id sequence.
func TruncatePostgres(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE "+m_product.TableName+" RESTART IDENTITY")
	require.NoError(t, err, "failed to truncate products")
}
