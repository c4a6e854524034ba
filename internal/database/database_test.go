package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/model"
)

// TestInitWithPath covers initialization, migration, and teardown in one
// sequence because the package enforces init-once semantics.
func TestInitWithPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	require.NoError(t, InitWithPath(dbPath))

	// Second call is a no-op, not an error
	require.NoError(t, InitWithPath(filepath.Join(t.TempDir(), "other.db")))

	conn := Get()
	require.NotNil(t, conn)

	// Migrated tables accept writes
	res := &model.Resume{ID: "test0000000000000001", OwnerID: "owner-1", Title: "Test"}
	require.NoError(t, conn.Create(res).Error)

	var loaded model.Resume
	require.NoError(t, conn.First(&loaded, "id = ?", res.ID).Error)
	assert.Equal(t, "Test", loaded.Title)

	assert.NoError(t, Close())
}
