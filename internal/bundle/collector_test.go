// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrar71/Wine-Builds/internal/bundle"
)

func TestCollect(t *testing.T) {
	tmpDir := t.TempDir()

	libDir := filepath.Join(tmpDir, "rootfs", "lib")
	libPath := writeLib(t, libDir, "libfoo.so.6")
	require.NoError(t, os.Chmod(libPath, 0o755))

	loaderDir := filepath.Join(tmpDir, "rootfs", "lib64")
	loaderPath := writeLib(t, loaderDir, "ld-linux-x86-64.so.2")

	destDir := filepath.Join(tmpDir, "libs")

	err := bundle.Collect([]string{libPath, loaderPath}, destDir)
	require.NoError(t, err)

	stat, err := os.Stat(filepath.Join(destDir, "libfoo.so.6"))
	require.NoError(t, err)
	assert.EqualValues(t, 0o755, stat.Mode().Perm())

	body, err := os.ReadFile(filepath.Join(destDir, "ld-linux-x86-64.so.2"))
	require.NoError(t, err)
	assert.Equal(t, "ld-linux-x86-64.so.2", string(body))

	entries, err := os.ReadDir(destDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCollectBaseNameCollision(t *testing.T) {
	tmpDir := t.TempDir()

	firstPath := writeLib(t, filepath.Join(tmpDir, "first"), "libdup.so.1")
	secondDir := filepath.Join(tmpDir, "second")
	require.NoError(t, os.MkdirAll(secondDir, 0o755))

	secondPath := filepath.Join(secondDir, "libdup.so.1")
	require.NoError(t, os.WriteFile(secondPath, []byte("loser"), 0o644))

	destDir := filepath.Join(tmpDir, "libs")

	err := bundle.Collect([]string{firstPath, secondPath}, destDir)
	require.NoError(t, err)

	// The first copy wins.
	body, err := os.ReadFile(filepath.Join(destDir, "libdup.so.1"))
	require.NoError(t, err)
	assert.Equal(t, "libdup.so.1", string(body))
}

func TestCollectFollowsSymlinks(t *testing.T) {
	tmpDir := t.TempDir()

	libDir := filepath.Join(tmpDir, "lib")
	realPath := writeLib(t, libDir, "libreal.so.1.0")

	linkPath := filepath.Join(libDir, "liblink.so.1")
	require.NoError(t, os.Symlink(realPath, linkPath))

	destDir := filepath.Join(tmpDir, "libs")

	err := bundle.Collect([]string{linkPath}, destDir)
	require.NoError(t, err)

	// The symlink is materialized as a regular file.
	stat, err := os.Lstat(filepath.Join(destDir, "liblink.so.1"))
	require.NoError(t, err)
	assert.True(t, stat.Mode().IsRegular())

	body, err := os.ReadFile(filepath.Join(destDir, "liblink.so.1"))
	require.NoError(t, err)
	assert.Equal(t, "libreal.so.1.0", string(body))
}
