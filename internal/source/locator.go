// Package source resolves logical module paths to absolute file paths. It
// never reads file contents; that is the job of an external file-reader
// collaborator the module compiler is handed separately.
package source

import (
	"path/filepath"
	"strings"
	"sync"
)

// Resolution is the result of locating a logical path: the absolute file
// path and the search-directory root it was found under.
type Resolution struct {
	AbsolutePath string
	Root         string
}

// Locator maps a logical module path (slash-delimited components with a
// source file extension, e.g. "std/collections/array.velt") to an absolute
// path by searching an ordered list of root directories. Resolutions are
// cached by logical path.
type Locator struct {
	searchDirs []string
	stat       func(path string) bool

	mu    sync.Mutex
	cache map[string]Resolution
	miss  map[string]bool
}

// New builds a Locator over the given ordered search directories. Earlier
// directories take priority when a logical path exists under more than
// one.
func New(searchDirs []string) *Locator {
	return &Locator{
		searchDirs: append([]string(nil), searchDirs...),
		stat:       defaultStat,
		cache:      make(map[string]Resolution),
		miss:       make(map[string]bool),
	}
}

// Resolve maps a logical path to its absolute file path and owning root
// directory. The second return value is false if no search directory
// contains the file, or if the only candidate resolves outside its root
// (a "..``-escape, treated identically to not-found).
func (l *Locator) Resolve(logicalPath string) (Resolution, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok := l.cache[logicalPath]; ok {
		return r, true
	}
	if l.miss[logicalPath] {
		return Resolution{}, false
	}

	rel := filepath.FromSlash(logicalPath)
	for _, root := range l.searchDirs {
		candidate := filepath.Join(root, rel)
		if !withinRoot(root, candidate) {
			continue
		}
		if l.stat(candidate) {
			res := Resolution{AbsolutePath: candidate, Root: root}
			l.cache[logicalPath] = res
			return res, true
		}
	}
	l.miss[logicalPath] = true
	return Resolution{}, false
}

// withinRoot reports whether candidate, once both paths are made absolute
// and cleaned, still lies under root. This is what rejects a logical path
// whose ".." components would otherwise escape the search directory.
func withinRoot(root, candidate string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absCandidate, err := filepath.Abs(candidate)
	if err != nil {
		return false
	}
	absRoot = filepath.Clean(absRoot)
	absCandidate = filepath.Clean(absCandidate)
	if absCandidate == absRoot {
		return true
	}
	return strings.HasPrefix(absCandidate, absRoot+string(filepath.Separator))
}
