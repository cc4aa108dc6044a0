// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Collect copies the resolved library files into the flat directory destDir,
// using each file's base name as destination name and preserving its file
// mode.
//
// If two distinct source paths share a base name, the first one wins and a
// warning names both paths. The resolver's priority order makes the winner
// deterministic.
func Collect(paths []string, destDir string) error {
	err := os.MkdirAll(destDir, 0o755)
	if err != nil {
		return fmt.Errorf("create library directory: %w", err)
	}

	collected := make(map[string]string, len(paths))

	for _, path := range paths {
		name := filepath.Base(path)

		if winner, exists := collected[name]; exists {
			slog.Warn("Library base name collision, keeping first",
				slog.String("name", name),
				slog.String("kept", winner),
				slog.String("dropped", path))

			continue
		}

		collected[name] = path

		err := copyFile(path, filepath.Join(destDir, name))
		if err != nil {
			return fmt.Errorf("collect %s: %w", name, err)
		}
	}

	return nil
}

// copyFile copies a regular file, preserving its mode. Symlinked sources are
// followed, so a versioned soname symlink is materialized as a real file.
func copyFile(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	stat, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dest, err := os.OpenFile(
		destPath,
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		stat.Mode().Perm(),
	)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer dest.Close()

	_, err = io.Copy(dest, src)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}

	return nil
}
