package source

import "os"

// defaultStat reports whether path names a regular file. It is the
// production backing for Locator.stat; tests substitute a fake via
// newTestLocator to avoid touching the real filesystem.
func defaultStat(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
