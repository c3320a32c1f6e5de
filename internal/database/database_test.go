package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(Migrations(), "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "migrations/000001_init.up.sql")
	assert.Contains(t, names, "migrations/000001_init.down.sql")
}
