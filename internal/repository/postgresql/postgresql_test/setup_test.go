package postgresql_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

const migrationFile = "../../../../migrations/0001_init.sql"

// newTestDB connects to TEST_DATABASE_URL, applies the schema and empties every table.
// Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	schema, err := os.ReadFile(filepath.Clean(migrationFile))
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err)

	truncateAll(t, db)
	return db
}

func truncateAll(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Exec(ctx, `TRUNCATE TABLE accounts, invite_codes, technologies, positions, departments CASCADE`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `DELETE FROM roles WHERE name NOT IN ('superadmin', 'admin', 'employee')`)
	require.NoError(t, err)
}

func ptr[T any](v T) *T {
	return &v
}
