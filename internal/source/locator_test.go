package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocator(dirs []string, files map[string]bool) *Locator {
	l := New(dirs)
	l.stat = func(path string) bool { return files[path] }
	return l
}

func TestResolveFindsFirstMatchingSearchDir(t *testing.T) {
	l := newTestLocator([]string{"/lib", "/std"}, map[string]bool{
		"/std/collections/array.velt": true,
	})
	res, ok := l.Resolve("collections/array.velt")
	require.True(t, ok)
	assert.Equal(t, "/std/collections/array.velt", res.AbsolutePath)
	assert.Equal(t, "/std", res.Root)
}

func TestResolveEarlierDirWins(t *testing.T) {
	l := newTestLocator([]string{"/lib", "/std"}, map[string]bool{
		"/lib/foo.velt": true,
		"/std/foo.velt": true,
	})
	res, ok := l.Resolve("foo.velt")
	require.True(t, ok)
	assert.Equal(t, "/lib/foo.velt", res.AbsolutePath)
}

func TestResolveNotFound(t *testing.T) {
	l := newTestLocator([]string{"/lib"}, map[string]bool{})
	_, ok := l.Resolve("missing.velt")
	assert.False(t, ok)
}

func TestResolveCachesResult(t *testing.T) {
	calls := 0
	l := New([]string{"/lib"})
	l.stat = func(path string) bool {
		calls++
		return path == "/lib/foo.velt"
	}
	_, ok1 := l.Resolve("foo.velt")
	_, ok2 := l.Resolve("foo.velt")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, 1, calls)
}

func TestResolveCachesMiss(t *testing.T) {
	calls := 0
	l := New([]string{"/lib"})
	l.stat = func(path string) bool {
		calls++
		return false
	}
	_, ok1 := l.Resolve("missing.velt")
	_, ok2 := l.Resolve("missing.velt")
	assert.False(t, ok1)
	assert.False(t, ok2)
	assert.Equal(t, 1, calls)
}

func TestResolveRejectsParentEscape(t *testing.T) {
	l := newTestLocator([]string{"/proj/lib"}, map[string]bool{
		"/proj/secret.velt": true,
	})
	_, ok := l.Resolve("../secret.velt")
	assert.False(t, ok, "a logical path that escapes its root must be treated as not found")
}
