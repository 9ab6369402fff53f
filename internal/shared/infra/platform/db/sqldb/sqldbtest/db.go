// Package sqldbtest ofrece una base SQLite en memoria con el esquema aplicado para los tests.
package sqldbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/sqldb"
)

func New(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqldb.Open(sqldb.SQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, sqldb.Migrate(context.Background(), db, sqldb.SQLite))
	t.Cleanup(func() { db.Close() })
	return db
}
