package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/tundra/internal/dircache"
)

// mapLookup is a fixed cache
type mapLookup map[string][]string

func (m mapLookup) Get(dir string) ([]string, bool) {
	v, ok := m[dir]
	return v, ok
}

func fast() Option {
	return WithDebounce(time.Millisecond, time.Millisecond)
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func waitFor(t *testing.T, p *Pending) Result {
	t.Helper()
	select {
	case <-p.Done():
		return p.Wait()
	case <-time.After(5 * time.Second):
		t.Fatal("search did not resolve")
		return Result{}
	}
}

func TestShortQueryReturnsCachedListing(t *testing.T) {
	listing := []string{"/d/b.wav", "/d/a.wav", "/d/sub"}
	c := NewCoordinator(mapLookup{"/d": listing}, nil, fast())

	for _, q := range []string{"", "a", "zz", "é"} {
		p := c.Search(q, "/d")
		select {
		case <-p.Done():
		default:
			t.Fatalf("short query %q should resolve synchronously", q)
		}
		r := p.Wait()
		require.NoError(t, r.Err)
		assert.Equal(t, listing, r.Paths, "query %q", q)
		assert.False(t, r.Filtered)
	}
}

func TestShortQueryWalksUncachedDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.wav"))
	touch(t, filepath.Join(dir, "a.mp3"))
	touch(t, filepath.Join(dir, "notes.txt"))

	c := NewCoordinator(mapLookup{}, nil, fast())
	r := c.Search("a", dir).Wait()

	require.NoError(t, r.Err)
	assert.Equal(t, []string{filepath.Join(dir, "a.mp3"), filepath.Join(dir, "b.wav")}, r.Paths)
}

func TestShortQueryResetsAfterFilteredSearch(t *testing.T) {
	listing := []string{"/d/kick.wav", "/d/snare.wav"}
	c := NewCoordinator(mapLookup{"/d": listing}, nil, fast())

	filtered := waitFor(t, c.Search("kick", "/d"))
	require.Equal(t, []string{"/d/kick.wav"}, filtered.Paths)

	reset := c.Search("ki", "/d").Wait()
	assert.Equal(t, listing, reset.Paths)
	assert.False(t, reset.Filtered)
}

func TestShortQueryLengthCountsBytes(t *testing.T) {
	listing := []string{"/d/éa.wav", "/d/b.wav"}
	c := NewCoordinator(mapLookup{"/d": listing}, nil, fast())

	// Two runes but three bytes, so this is matched rather than reset
	r := waitFor(t, c.Search("éa", "/d"))

	require.NoError(t, r.Err)
	assert.True(t, r.Filtered)
	assert.Equal(t, []string{"/d/éa.wav"}, r.Paths)
}

func TestCachedSearchKeepsInsertionOrder(t *testing.T) {
	listing := []string{"/d/zeta_kick.wav", "/d/snare.wav", "/d/alpha_kick.wav", "/d/KICK.flac"}
	c := NewCoordinator(mapLookup{"/d": listing}, nil, fast())

	r := waitFor(t, c.Search("kick", "/d"))

	require.NoError(t, r.Err)
	assert.True(t, r.Filtered)
	assert.Equal(t, []string{"/d/zeta_kick.wav", "/d/alpha_kick.wav", "/d/KICK.flac"}, r.Paths)
}

func TestSearchEmptyResultIsNotAborted(t *testing.T) {
	c := NewCoordinator(mapLookup{"/d": {"/d/a.wav"}}, nil, fast())

	r := waitFor(t, c.Search("xyz", "/d"))

	require.NoError(t, r.Err)
	assert.False(t, r.Aborted())
	assert.NotNil(t, r.Paths)
	assert.Empty(t, r.Paths)
}

func TestSupersededSearchIsAborted(t *testing.T) {
	c := NewCoordinator(mapLookup{"/d": {"/d/abcd.wav", "/d/abce.wav"}}, nil,
		WithDebounce(200*time.Millisecond, 200*time.Millisecond))

	first := c.Search("abcd", "/d")
	second := c.Search("abce", "/d")

	r1 := waitFor(t, first)
	assert.True(t, r1.Aborted())
	assert.Nil(t, r1.Paths)
	assert.False(t, c.IsCurrent(first.Gen()))

	r2 := waitFor(t, second)
	require.NoError(t, r2.Err)
	assert.True(t, c.IsCurrent(r2.Gen))
	assert.Equal(t, []string{"/d/abce.wav"}, r2.Paths)
}

func TestShortQuerySupersededByLongQuery(t *testing.T) {
	c := NewCoordinator(mapLookup{"/d": {"/d/abc.wav", "/d/xyz.wav"}}, nil, fast())

	ab := c.Search("ab", "/d")
	abc := c.Search("abc", "/d")

	// "ab" resolved synchronously but is no longer current
	assert.False(t, c.IsCurrent(ab.Wait().Gen))
	r := waitFor(t, abc)
	assert.True(t, c.IsCurrent(r.Gen))
	assert.Equal(t, []string{"/d/abc.wav"}, r.Paths)
}

func TestCancelAbortsInFlight(t *testing.T) {
	c := NewCoordinator(mapLookup{"/d": {"/d/kick.wav"}}, nil, WithDebounce(time.Second, time.Second))

	p := c.Search("kick", "/d")
	c.Cancel()

	r := waitFor(t, p)
	assert.True(t, r.Aborted())
	assert.False(t, c.IsCurrent(p.Gen()))
}

func TestUncachedSearchLeavesCacheEmpty(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "drums", "kick_01.wav"))
	touch(t, filepath.Join(dir, "drums", "snare_01.wav"))
	touch(t, filepath.Join(dir, "bass", "deep", "kick_sub.flac"))
	touch(t, filepath.Join(dir, "kick.txt"))

	cache := dircache.New(dircache.NewMemoryStore(nil), nil)
	c := NewCoordinator(cache, nil, fast())

	r := waitFor(t, c.Search("kick", dir))

	require.NoError(t, r.Err)
	assert.True(t, r.Filtered)
	assert.Equal(t, []string{
		filepath.Join(dir, "bass", "deep", "kick_sub.flac"),
		filepath.Join(dir, "drums", "kick_01.wav"),
	}, r.Paths)
	assert.Zero(t, cache.Len())
}

func TestFuzzyMatcherSubsequence(t *testing.T) {
	got := FuzzyMatcher{}.Match("kck", []string{"/s/kick.wav", "/s/snare.wav", "/s/KiCK2.wav"})
	assert.Equal(t, []string{"/s/kick.wav", "/s/KiCK2.wav"}, got)
}
