// Package testutil sets up real stores for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/productcat/internal/models/m_product"
	"github.com/light-bringer/productcat/internal/pkg/committer"
)

// SetupSpannerTest creates a client against the emulator database named by
// SPANNER_TEST_DATABASE and empties the products table before and after the
// test. The database must already carry the schema (cmd/migrate spanner).
// The test is skipped when SPANNER_EMULATOR_HOST is not set.
func SetupSpannerTest(t *testing.T) *spanner.Client {
	t.Helper()

	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set")
	}

	client, err := spanner.NewClient(context.Background(), GetTestSpannerDB())
	require.NoError(t, err, "failed to create Spanner client")

	CleanSpanner(t, client)
	t.Cleanup(func() {
		CleanSpanner(t, client)
		client.Close()
	})
	return client
}

// GetTestSpannerDB returns the test Spanner database path.
func GetTestSpannerDB() string {
	if db := os.Getenv("SPANNER_TEST_DATABASE"); db != "" {
		return db
	}
	return "projects/test-project/instances/dev-instance/databases/product-catalog-test"
}

// CleanSpanner deletes every product row.
func CleanSpanner(t *testing.T, client *spanner.Client) {
	t.Helper()

	plan := committer.NewPlan()
	plan.Add(m_product.NewModel().DeleteAllMut())
	require.NoError(t, committer.NewSpannerCommitter(client).Apply(context.Background(), plan), "failed to clean database")
}

// SeedSpanner writes rows with explicit ids, bypassing the sequence.
func SeedSpanner(t *testing.T, client *spanner.Client, rows ...*m_product.Data) {
	t.Helper()

	model := m_product.NewModel()
	plan := committer.NewPlan()
	for _, row := range rows {
		plan.Add(model.InsertMut(row))
	}
	require.NoError(t, committer.NewSpannerCommitter(client).Apply(context.Background(), plan), "failed to seed products")
}

// AssertRowCount asserts the number of rows in a table.
func AssertRowCount(t *testing.T, client *spanner.Client, table string, expected int) {
	t.Helper()

	iter := client.Single().Query(context.Background(), spanner.Statement{
		SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	})
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to query row count")

	var count int64
	require.NoError(t, row.Columns(&count), "failed to parse count")
	require.Equal(t, int64(expected), count, "unexpected row count in table %s", table)
}
