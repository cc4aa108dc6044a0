// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// DefaultRootFS is the default reference x86_64 root filesystem libraries
// are resolved from. Overridable with the WINEBUNDLE_X86_ROOT environment
// variable.
const DefaultRootFS = "/opt/rootfs-amd64"

// ErrRootFSNotFound is returned if the reference root filesystem directory
// does not exist.
var ErrRootFSNotFound = errors.New("x86_64 reference root filesystem not found")

// libDirs are the library directories probed beneath the reference root, in
// priority order.
var libDirs = []string{
	"lib/x86_64-linux-gnu",
	"usr/lib/x86_64-linux-gnu",
	"lib64",
	"usr/lib64",
	"usr/lib",
	"lib",
}

// loaderNames are the dynamic loader locations probed beneath the reference
// root, in priority order.
var loaderNames = []string{
	"lib64/ld-linux-x86-64.so.2",
	"lib/x86_64-linux-gnu/ld-linux-x86-64.so.2",
	"usr/lib64/ld-linux-x86-64.so.2",
}

// NewRootFSResolver creates a [Resolver] with search path and dynamic loader
// candidates anchored at the given reference root filesystem.
func NewRootFSResolver(root string) *Resolver {
	dirs := make([]string, len(libDirs))
	for idx, dir := range libDirs {
		dirs[idx] = filepath.Join(root, dir)
	}

	candidates := make([]string, len(loaderNames))
	for idx, name := range loaderNames {
		candidates[idx] = filepath.Join(root, name)
	}

	return &Resolver{
		SearchPath:       NewSearchPath(dirs...),
		LoaderCandidates: candidates,
	}
}

// EntryPoints returns the resolver entry points for the staged Wine runtime
// directory: the core executables followed by all regular files found under
// the runtime's library tree. Non-ELF files among them are filtered out by
// the resolver itself.
func EntryPoints(wineDir string) ([]string, error) {
	entryPoints := []string{
		filepath.Join(wineDir, "bin", "wine"),
		filepath.Join(wineDir, "bin", "wine64"),
		filepath.Join(wineDir, "bin", "wineserver"),
	}

	libRoot := filepath.Join(wineDir, "lib")

	err := filepath.WalkDir(libRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.Type().IsRegular() {
			entryPoints = append(entryPoints, path)
		}

		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("walk runtime libraries: %w", err)
	}

	return entryPoints, nil
}
