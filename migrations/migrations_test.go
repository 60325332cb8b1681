package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(files, "*.sql")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"000001_init.up.sql", "000001_init.down.sql"}, names)

	up, err := fs.ReadFile(files, "000001_init.up.sql")
	require.NoError(t, err)
	schema := string(up)
	for _, table := range []string{"users", "progress_logs", "workout_logs"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schema, "UNIQUE (telegram_id, completed_on)")

	down, err := fs.ReadFile(files, "000001_init.down.sql")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(down), "DROP TABLE IF EXISTS workout_logs"))
}
