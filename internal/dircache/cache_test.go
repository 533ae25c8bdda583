package dircache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheChangeDirectoryScenario(t *testing.T) {
	dir := sampleDir(t)
	store := NewMemoryStore(nil)
	c := New(store, nil)

	_, ok := c.Get(dir)
	require.False(t, ok)

	children, err := ListDir(context.Background(), dir, nil)
	require.NoError(t, err)
	require.NoError(t, c.Insert(dir, children))

	got, ok := c.Get(dir)
	require.True(t, ok)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.wav"),
		filepath.Join(dir, "b.mp3"),
		filepath.Join(dir, "sub"),
	}, got)
	assert.NotContains(t, got, filepath.Join(dir, "c.txt"))
	assert.Equal(t, 1, store.Saves())
}

func TestCacheInsertReplaces(t *testing.T) {
	c := New(NewMemoryStore(nil), nil)

	require.NoError(t, c.Insert("/music", []string{"/music/a.wav"}))
	require.NoError(t, c.Insert("/music/", []string{"/music/b.wav"}))

	got, ok := c.Get("/music")
	require.True(t, ok)
	assert.Equal(t, []string{"/music/b.wav"}, got)
	assert.Equal(t, 1, c.Len())
}

func TestCacheGetReturnsCopy(t *testing.T) {
	c := New(NewMemoryStore(nil), nil)
	require.NoError(t, c.Insert("/d", []string{"/d/a.wav"}))

	got, _ := c.Get("/d")
	got[0] = "mutated"

	again, _ := c.Get("/d")
	assert.Equal(t, "/d/a.wav", again[0])
}

func TestCacheWriteThroughFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tundra", "dircache.json")

	c := New(NewFileStore(path), nil)
	require.NoError(t, c.Insert("/samples", []string{"/samples/kick.wav", "/samples/snare.flac"}))

	reloaded := New(NewFileStore(path), nil)
	got, ok := reloaded.Get("/samples")
	require.True(t, ok)
	assert.Equal(t, []string{"/samples/kick.wav", "/samples/snare.flac"}, got)

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")
}

func TestCacheInvalidateThenReloadIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dircache.json")

	c := New(NewFileStore(path), nil)
	require.NoError(t, c.Insert("/a", []string{"/a/x.wav"}))
	require.NoError(t, c.Insert("/b", []string{"/b/y.wav"}))
	require.NoError(t, c.Invalidate())
	assert.Zero(t, c.Len())

	reloaded := New(NewFileStore(path), nil)
	assert.Zero(t, reloaded.Len())
	_, ok := reloaded.Get("/a")
	assert.False(t, ok)
}

func TestCacheCorruptStoreDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dircache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	c := New(NewFileStore(path), nil)
	assert.Zero(t, c.Len())

	// The next write replaces the corrupt file
	require.NoError(t, c.Insert("/x", []string{"/x/a.wav"}))
	entries, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"/x": {"/x/a.wav"}}, entries)
}

func TestFileStoreMissingAndEmpty(t *testing.T) {
	dir := t.TempDir()

	entries, err := NewFileStore(filepath.Join(dir, "absent.json")).Load()
	require.NoError(t, err)
	assert.Empty(t, entries)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	entries, err = NewFileStore(empty).Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStoreCorruptReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dircache.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o600))

	entries, err := NewFileStore(path).Load()
	assert.Error(t, err)
	assert.Empty(t, entries)
}
