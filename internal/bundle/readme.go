// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle

import (
	"fmt"
	"os"
	"path/filepath"
)

const readmeText = `# Portable Wine bundle for ARM64 Linux

This directory is a self-contained x86_64 WoW64 Wine runtime for ARM64
Linux hosts. It needs no x86_64 compatibility packages on the host: the
bundled FEX interpreter translates the x86_64 machine code and the libs/
directory carries every shared library the runtime needs, including the
dynamic loader.

Layout:

    bin/    wrapper scripts (wine, wine64, wineserver) and setup-env.sh
    wine/   the Wine runtime
    fex/    the FEX binary translation engine
    libs/   flattened x86_64 shared libraries and ld-linux-x86-64.so.2

Usage:

    ./bin/wine some-program.exe

The wrappers locate the bundle relative to their own path, so the whole
directory can be moved or unpacked anywhere.
`

// WriteReadme writes the static usage README at the bundle root.
func WriteReadme(bundleDir string) error {
	err := os.WriteFile(
		filepath.Join(bundleDir, "README.md"),
		[]byte(readmeText),
		0o644,
	)
	if err != nil {
		return fmt.Errorf("write README: %w", err)
	}

	return nil
}
