// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package sys_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrar71/Wine-Builds/internal/sys"
)

func TestAbsolutePath(t *testing.T) {
	_, err := sys.AbsolutePath("")
	require.ErrorIs(t, err, sys.ErrEmptyPath)

	abs, err := sys.AbsolutePath("some/rel/path")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
}

func TestCheckRegularFile(t *testing.T) {
	tmpDir := t.TempDir()

	filePath := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))

	assert.NoError(t, sys.CheckRegularFile(filePath))
	assert.ErrorIs(t, sys.CheckRegularFile(tmpDir), sys.ErrNotRegularFile)
	assert.Error(t, sys.CheckRegularFile(filepath.Join(tmpDir, "missing")))
}

func TestCheckDir(t *testing.T) {
	tmpDir := t.TempDir()

	filePath := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))

	assert.NoError(t, sys.CheckDir(tmpDir))
	assert.ErrorIs(t, sys.CheckDir(filePath), sys.ErrNotDir)
	assert.Error(t, sys.CheckDir(filepath.Join(tmpDir, "missing")))
}

func TestIsRegularFile(t *testing.T) {
	tmpDir := t.TempDir()

	filePath := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))

	assert.True(t, sys.IsRegularFile(filePath))
	assert.False(t, sys.IsRegularFile(tmpDir))
	assert.False(t, sys.IsRegularFile(filepath.Join(tmpDir, "missing")))
}
