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

func TestWriteLaunchers(t *testing.T) {
	bundleDir := t.TempDir()

	require.NoError(t, bundle.WriteLaunchers(bundleDir))

	binDir := filepath.Join(bundleDir, "bin")

	envScript := readScript(t, filepath.Join(binDir, "setup-env.sh"))
	assert.Contains(t, envScript, "WINEBUNDLE_ROOT=")
	assert.Contains(t, envScript, "fex/bin/FEXInterpreter")
	assert.Contains(t, envScript, `FEX_X86_LIBS="$WINEBUNDLE_ROOT/libs"`)
	assert.Contains(t, envScript, "export LD_LIBRARY_PATH")

	tests := []struct {
		wrapper string
		target  string
	}{
		{wrapper: "wine", target: "wine/bin/wine"},
		{wrapper: "wine64", target: "wine/bin/wine64"},
		{wrapper: "wineserver", target: "wine/bin/wineserver"},
	}

	for _, tt := range tests {
		t.Run(tt.wrapper, func(t *testing.T) {
			wrapper := readScript(t, filepath.Join(binDir, tt.wrapper))

			assert.Contains(t, wrapper, "setup-env.sh")
			assert.Contains(t, wrapper,
				`exec "$FEX_BIN" "$WINEBUNDLE_ROOT/`+tt.target+`" "$@"`)
		})
	}
}

// readScript reads the script and asserts it is executable.
func readScript(tb testing.TB, path string) string {
	tb.Helper()

	stat, err := os.Stat(path)
	require.NoError(tb, err)
	assert.NotZero(tb, stat.Mode().Perm()&0o111, "script must be executable")

	body, err := os.ReadFile(path)
	require.NoError(tb, err)

	return string(body)
}
