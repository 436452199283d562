package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	s, err := Open(path, nil)
	require.NoError(t, err)

	var missing payload
	found, err := s.Get("absent", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put("key", payload{Name: "jane", Count: 3}))

	// Reopen to prove the write hit disk.
	reopened, err := Open(path, nil)
	require.NoError(t, err)

	var got payload
	found, err = reopened.Get("key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "jane", Count: 3}, got)
}

func TestFileStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := Open(path, nil)
	require.NoError(t, err)

	require.NoError(t, s.Put("key", payload{Name: "x"}))
	require.NoError(t, s.Delete("key"))
	require.NoError(t, s.Delete("key"), "double delete is a no-op")

	var got payload
	found, err := s.Get("key", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := Open(path, nil)
	require.NoError(t, err)

	var got payload
	found, err := s.Get("anything", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// The next write replaces the corrupt file with a valid one.
	require.NoError(t, s.Put("key", payload{Name: "ok"}))
	reopened, err := Open(path, nil)
	require.NoError(t, err)
	found, err = reopened.Get("key", &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Put("k", payload{Count: 7}))

	var got payload
	found, err := m.Get("k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 7, got.Count)

	require.NoError(t, m.Delete("k"))
	found, err = m.Get("k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
