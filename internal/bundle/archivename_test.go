// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrar71/Wine-Builds/internal/bundle"
)

func TestParseArchiveName(t *testing.T) {
	tests := []struct {
		name            string
		path            string
		expectedVersion string
		expectedFormat  string
		expectedErr     error
	}{
		{
			name:            "tar.xz",
			path:            "/downloads/wine-10.2-amd64-wow64.tar.xz",
			expectedVersion: "10.2",
			expectedFormat:  "tar.xz",
		},
		{
			name:            "tar.gz",
			path:            "wine-9.0-rc3-amd64-wow64.tar.gz",
			expectedVersion: "9.0-rc3",
			expectedFormat:  "tar.gz",
		},
		{
			name:            "cpio.gz",
			path:            "wine-10.0-amd64-wow64.cpio.gz",
			expectedVersion: "10.0",
			expectedFormat:  "cpio.gz",
		},
		{
			name:        "wrong architecture",
			path:        "wine-10.2-arm64-wow64.tar.xz",
			expectedErr: bundle.ErrBadArchiveName,
		},
		{
			name:        "missing execution mode",
			path:        "wine-10.2-amd64.tar.xz",
			expectedErr: bundle.ErrBadArchiveName,
		},
		{
			name:        "unsupported container format",
			path:        "wine-10.2-amd64-wow64.zip",
			expectedErr: bundle.ErrBadArchiveName,
		},
		{
			name:        "not a wine archive",
			path:        "fex-2506-amd64-wow64.tar.xz",
			expectedErr: bundle.ErrBadArchiveName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := bundle.ParseArchiveName(tt.path)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.path, info.Path)
			assert.Equal(t, tt.expectedVersion, info.Version)
			assert.Equal(t, tt.expectedFormat, info.Format)
		})
	}
}
