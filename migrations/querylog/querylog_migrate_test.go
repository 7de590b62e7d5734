package querylog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_browser/pkg/dbconnect/migration"
	"catalog_browser/pkg/dbconnect/sqlite"
)

func TestMigrationsAreRecordedOnce(t *testing.T) {
	conn := sqlite.NewSqliteConnector(":memory:")
	db, err := conn.Connect()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, migration.Apply(db, All()...))
	require.NoError(t, migration.Apply(db, All()...))

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 2, applied)

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM catalog_query_log").Scan(&rows))
	assert.Zero(t, rows)
}
