package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "data", "records.json")
	store, err := OpenFileStore(path)
	require.NoError(t, err)

	// Test case 1: nothing is written until the first Set
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Test case 2: values survive a reopen
	require.NoError(t, store.Set("industry_meta_v1:alice", `{"totalCareerPoints":12}`))
	require.NoError(t, store.Set("industry_survival_v1:alice", `{"week":3}`))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get("industry_meta_v1:alice")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"totalCareerPoints":12}`, v)

	keys, err := reopened.Keys("industry_survival_v1:")
	assert.NoError(t, err)
	assert.Equal(t, []string{"industry_survival_v1:alice"}, keys)

	// Test case 3: deletes are written through
	require.NoError(t, store.Delete("industry_survival_v1:alice"))
	assert.NoError(t, store.Delete("missing"))
	reopened, err = OpenFileStore(path)
	require.NoError(t, err)
	_, ok, _ = reopened.Get("industry_survival_v1:alice")
	assert.False(t, ok)
}

func TestFileStoreRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	_, err := OpenFileStore(path)
	assert.Error(t, err)

	// An empty file is treated as an empty store
	require.NoError(t, os.WriteFile(path, nil, 0644))
	store, err := OpenFileStore(path)
	require.NoError(t, err)
	_, ok, _ := store.Get("anything")
	assert.False(t, ok)
}
