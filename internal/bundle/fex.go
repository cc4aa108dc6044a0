// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abrar71/Wine-Builds/internal/proc"
	"github.com/abrar71/Wine-Builds/internal/sys"
)

const (
	fexRepoURL     = "https://github.com/FEX-Emu/FEX.git"
	fexInterpreter = "FEXInterpreter"
)

// Fixed cross-compilation flags for the ARM64 engine build. The engine runs
// on the ARM64 host, not under translation, so it is built with the native
// ARM64 cross toolchain.
var fexCMakeFlags = []string{
	"-G", "Ninja",
	"-DCMAKE_BUILD_TYPE=Release",
	"-DCMAKE_SYSTEM_NAME=Linux",
	"-DCMAKE_SYSTEM_PROCESSOR=aarch64",
	"-DCMAKE_C_COMPILER=aarch64-linux-gnu-gcc",
	"-DCMAKE_CXX_COMPILER=aarch64-linux-gnu-g++",
	"-DBUILD_TESTS=False",
	"-DENABLE_LTO=False",
	"-DENABLE_ASSERTIONS=False",
}

// ErrEngineBinaryMissing is returned if the engine build finished but did
// not produce the interpreter binary.
var ErrEngineBinaryMissing = errors.New("engine build produced no interpreter binary")

// BuildEngine fetches the FEX source into workDir and cross-compiles the
// binary translation engine, installing the interpreter binary into the
// bundle's fex/bin directory.
//
// git, cmake, ninja and the aarch64 cross toolchain must be present on the
// build host. Tool output is streamed to the log as it is produced.
func BuildEngine(ctx context.Context, workDir, bundleDir string) error {
	srcDir := filepath.Join(workDir, "FEX")
	buildDir := filepath.Join(srcDir, "build")

	err := proc.Run(ctx, workDir, nil,
		"git", "clone", "--depth", "1", fexRepoURL, srcDir)
	if err != nil {
		return fmt.Errorf("fetch engine source: %w", err)
	}

	configureArgs := append([]string{"-S", srcDir, "-B", buildDir}, fexCMakeFlags...)

	err = proc.Run(ctx, srcDir, nil, "cmake", configureArgs...)
	if err != nil {
		return fmt.Errorf("configure engine build: %w", err)
	}

	err = proc.Run(ctx, srcDir, nil, "cmake", "--build", buildDir)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	builtBinary := filepath.Join(buildDir, "Bin", fexInterpreter)
	if !sys.IsRegularFile(builtBinary) {
		return fmt.Errorf("%w: %s", ErrEngineBinaryMissing, builtBinary)
	}

	binDir := filepath.Join(bundleDir, FexDir, "bin")

	err = os.MkdirAll(binDir, 0o755)
	if err != nil {
		return fmt.Errorf("create engine bin directory: %w", err)
	}

	err = copyFile(builtBinary, filepath.Join(binDir, fexInterpreter))
	if err != nil {
		return fmt.Errorf("install engine binary: %w", err)
	}

	return nil
}
