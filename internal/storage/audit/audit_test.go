package audit_test

import (
	"path/filepath"
	"testing"

	"github.com/mod-tools/loadorder/internal/storage/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	j, err := audit.Open(path)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Record("activate", "Mod.esp", true))
	require.NoError(t, j.Record("deactivate", "Mod.esp", true))

	entries, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "deactivate", entries[0].Operation)
	assert.Equal(t, "activate", entries[1].Operation)
}

func TestOpen_CreatesTableIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	j1, err := audit.Open(path)
	require.NoError(t, err)
	require.NoError(t, j1.Close())

	j2, err := audit.Open(path)
	require.NoError(t, err)
	defer j2.Close()

	require.NoError(t, j2.Record("set_load_order", "", true))
	entries, err := j2.Recent(5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
