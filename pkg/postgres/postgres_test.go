package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_second.sql": {Data: []byte("SELECT 2;")},
		"m/001_first.sql":  {Data: []byte("SELECT 1;")},
		"m/README.md":      {Data: []byte("notes")},
	}

	migrations, err := loadMigrations(fsys, "m")
	require.NoError(t, err)

	require.Len(t, migrations, 2)
	assert.Equal(t, "001_first.sql", migrations[0].name)
	assert.Equal(t, "SELECT 1;", migrations[0].sql)
	assert.Len(t, migrations[0].checksum, 64)
	assert.Equal(t, "002_second.sql", migrations[1].name)
}

func TestLoadMigrations_Embedded(t *testing.T) {
	migrations, err := loadMigrations(migrationsFS, "migrations")
	require.NoError(t, err)

	require.NotEmpty(t, migrations)
	assert.Equal(t, "001_create_draws.sql", migrations[0].name)
	assert.Contains(t, migrations[0].sql, "CREATE TABLE IF NOT EXISTS draw_entry")
}

func TestPendingMigrations(t *testing.T) {
	migrations := []migration{
		{name: "001.sql", checksum: "aaa"},
		{name: "002.sql", checksum: "bbb"},
	}

	pending, err := pendingMigrations(migrations, map[string]string{"001.sql": "aaa"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "002.sql", pending[0].name)

	pending, err = pendingMigrations(migrations, nil)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = pendingMigrations(migrations, map[string]string{"001.sql": "changed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001.sql changed after it was applied")
}
