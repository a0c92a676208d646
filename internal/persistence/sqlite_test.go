package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "nested", "career.db")
	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	// Test case 1: missing keys
	_, ok, err := store.Get("industry_survival_v1:alice")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Test case 2: set and overwrite
	require.NoError(t, store.Set("industry_survival_v1:alice", `{"week":1}`))
	require.NoError(t, store.Set("industry_survival_v1:alice", `{"week":2}`))
	v, ok, err := store.Get("industry_survival_v1:alice")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"week":2}`, v)

	// Test case 3: key listing by prefix
	require.NoError(t, store.Set("industry_survival_v1:bob", `{"week":5}`))
	require.NoError(t, store.Set("industry_meta_v1:alice", `{}`))
	keys, err := store.Keys("industry_survival_v1:")
	assert.NoError(t, err)
	assert.Equal(t, []string{"industry_survival_v1:alice", "industry_survival_v1:bob"}, keys)

	// Test case 4: delete, twice
	require.NoError(t, store.Delete("industry_survival_v1:alice"))
	assert.NoError(t, store.Delete("industry_survival_v1:alice"))
	_, ok, _ = store.Get("industry_survival_v1:alice")
	assert.False(t, ok)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "career.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	v, ok, err := store.Get("k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
