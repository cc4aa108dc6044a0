// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/abrar71/Wine-Builds/internal/sys"
)

// soSuffix is the shared-object file name suffix that enables the versioned
// soname glob fallback during resolution.
const soSuffix = ".so"

// SearchPath is an ordered list of directories libraries are looked up in.
// Earlier directories shadow later ones.
type SearchPath []string

// NewSearchPath creates a [SearchPath] from the given directories,
// deduplicated with first-occurrence order preserved.
func NewSearchPath(dirs ...string) SearchPath {
	searchPath := make(SearchPath, 0, len(dirs))
	seen := make(map[string]struct{}, len(dirs))

	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		if _, exists := seen[dir]; exists {
			continue
		}

		seen[dir] = struct{}{}
		searchPath = append(searchPath, dir)
	}

	return searchPath
}

// Resolve looks up the library with the given name in the search path
// directories in priority order. The first directory that has a match wins.
//
// In each directory an exact file name match is tried first. For names
// ending in ".so" it falls back to a prefix match so a name like "libfoo.so"
// finds an on-disk versioned soname like "libfoo.so.6.0.0". Of multiple
// prefix matches the lexicographically first is taken.
func (s SearchPath) Resolve(name string) (string, bool) {
	for _, dir := range s {
		path := filepath.Join(dir, name)
		if sys.IsRegularFile(path) {
			return path, true
		}

		if !strings.HasSuffix(name, soSuffix) {
			continue
		}

		if path, found := globPrefix(dir, name); found {
			return path, true
		}
	}

	return "", false
}

// globPrefix returns the lexicographically first regular file in dir whose
// name starts with prefix. [os.ReadDir] returns entries sorted by file name,
// so the first prefix hit is the lexicographically first one.
func globPrefix(dir, prefix string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if sys.IsRegularFile(path) {
			return path, true
		}
	}

	return "", false
}
