package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndToken(t *testing.T) {
	store := openTestStore(t)

	assert.Empty(t, store.Token(), "fresh store has no session")

	require.NoError(t, store.Save("tok-123"))
	assert.Equal(t, "tok-123", store.Token())

	require.NoError(t, store.Save("tok-456"))
	assert.Equal(t, "tok-456", store.Token(), "save replaces the previous token")
}

func TestStore_Clear(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save("tok-123"))
	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())

	// Clearing twice is harmless.
	require.NoError(t, store.Clear())
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save("tok-persist"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, "tok-persist", reopened.Token())
}
