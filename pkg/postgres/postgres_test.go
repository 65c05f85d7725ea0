package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations_SortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_second.sql": {Data: []byte("SELECT 2;")},
		"migrations/001_first.sql":  {Data: []byte("SELECT 1;")},
		"migrations/003_third.sql":  {Data: []byte("SELECT 3;")},
		"migrations/README.md":      {Data: []byte("notes")},
	}

	pending, err := pendingMigrations(fsys, map[string]bool{"002_second.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_first.sql", "003_third.sql"}, pending)
}

func TestPendingMigrations_Embedded(t *testing.T) {
	pending, err := pendingMigrations(migrationsFS, nil)
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	assert.Equal(t, "001_create_runs.sql", pending[0])

	none, err := pendingMigrations(migrationsFS, map[string]bool{
		"001_create_runs.sql":               true,
		"002_assignment_employee_index.sql": true,
	})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPendingMigrations_MissingDirectory(t *testing.T) {
	_, err := pendingMigrations(fstest.MapFS{}, nil)
	assert.Error(t, err)
}
