// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrar71/Wine-Builds/internal/bundle"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()

	rootCmd := New()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	return rootCmd.ExecuteContext(context.Background())
}

func TestRootCommandArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectedErr error
	}{
		{
			name: "no arguments",
			args: []string{},
		},
		{
			name: "too many arguments",
			args: []string{"a.tar.xz", "b.tar.xz"},
		},
		{
			name:        "bad archive name",
			args:        []string{"wine-10.2-i386.tar.xz"},
			expectedErr: bundle.ErrBadArchiveName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			require.Error(t, err)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}
}

func TestRootCommandMissingArchiveFile(t *testing.T) {
	err := execute(t, "wine-10.2-amd64-wow64.tar.xz")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRootCommandMissingRootFS(t *testing.T) {
	tmpDir := t.TempDir()

	archivePath := filepath.Join(tmpDir, "wine-10.2-amd64-wow64.tar.xz")
	require.NoError(t, os.WriteFile(archivePath, []byte("not a real archive"), 0o644))

	t.Setenv(rootFSEnvVar, filepath.Join(tmpDir, "no-such-rootfs"))

	err := execute(t, archivePath, "--skip-fex")
	require.ErrorIs(t, err, bundle.ErrRootFSNotFound)
}

func TestDefaultOutputDir(t *testing.T) {
	info, err := bundle.ParseArchiveName("wine-10.2-amd64-wow64.tar.xz")
	require.NoError(t, err)

	assert.Equal(t, "wine-10.2-arm64-bundle", defaultOutputDir(info))
}
