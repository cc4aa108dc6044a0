// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/abrar71/Wine-Builds/internal/sys"
)

// Spec describes a single bundle build.
type Spec struct {
	// Archive is the validated Wine runtime archive to stage.
	Archive ArchiveInfo

	// RootFS is the x86_64 reference root filesystem libraries are resolved
	// from. Must exist.
	RootFS string

	// OutputDir is the directory the bundle tree is assembled in.
	OutputDir string

	// ArchivePath, if non-empty, is the path the finished bundle is
	// additionally serialized to (.tar.gz or .cpio.gz).
	ArchivePath string

	// SkipEngine skips fetching and building the translation engine. Used
	// when CI provides a prebuilt engine.
	SkipEngine bool

	// KeepWorkDir preserves the scratch working directory for inspection.
	KeepWorkDir bool
}

// Build runs the bundle pipeline for the given spec.
//
// The stages run strictly sequentially: stage the runtime archive, build the
// translation engine, resolve the shared-library closure, collect the
// libraries, generate the launchers. Setup and stage failures are fatal;
// individual unresolvable libraries only produce warnings.
func Build(ctx context.Context, spec Spec) error {
	err := sys.CheckDir(spec.RootFS)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRootFSNotFound, spec.RootFS)
	}

	// Scratch directory for the engine source checkout and build, owned
	// exclusively by this run.
	workDir := filepath.Join(os.TempDir(), "winebundle-"+uuid.NewString())

	err = os.MkdirAll(workDir, 0o755)
	if err != nil {
		return fmt.Errorf("create working directory: %w", err)
	}

	if spec.KeepWorkDir {
		defer slog.Info("Preserving working directory",
			slog.String("path", workDir))
	} else {
		defer os.RemoveAll(workDir)
	}

	err = os.MkdirAll(spec.OutputDir, 0o755)
	if err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	wineDir := filepath.Join(spec.OutputDir, WineDir)

	slog.Info("Staging Wine runtime",
		slog.String("archive", spec.Archive.Path),
		slog.String("version", spec.Archive.Version))

	err = Stage(spec.Archive, wineDir)
	if err != nil {
		return fmt.Errorf("stage runtime: %w", err)
	}

	logExpectedLoader(wineDir)

	if spec.SkipEngine {
		slog.Info("Skipping translation engine build")

		// Keep the layout the launchers expect, so a prebuilt engine can be
		// dropped in.
		err = os.MkdirAll(filepath.Join(spec.OutputDir, FexDir, "bin"), 0o755)
		if err != nil {
			return fmt.Errorf("create engine bin directory: %w", err)
		}
	} else {
		slog.Info("Building translation engine")

		err = BuildEngine(ctx, workDir, spec.OutputDir)
		if err != nil {
			return fmt.Errorf("translation engine: %w", err)
		}
	}

	entryPoints, err := EntryPoints(wineDir)
	if err != nil {
		return fmt.Errorf("discover entry points: %w", err)
	}

	slog.Info("Resolving shared library closure",
		slog.String("rootfs", spec.RootFS),
		slog.Int("entryPoints", len(entryPoints)))

	resolver := NewRootFSResolver(spec.RootFS)
	libs := resolver.Resolve(entryPoints)

	slog.Info("Collecting libraries", slog.Int("count", len(libs)))

	err = Collect(libs, filepath.Join(spec.OutputDir, LibsDir))
	if err != nil {
		return fmt.Errorf("collect libraries: %w", err)
	}

	err = WriteLaunchers(spec.OutputDir)
	if err != nil {
		return fmt.Errorf("generate launchers: %w", err)
	}

	err = WriteReadme(spec.OutputDir)
	if err != nil {
		return err
	}

	if spec.ArchivePath != "" {
		slog.Info("Writing bundle archive",
			slog.String("path", spec.ArchivePath))

		err = WriteArchive(spec.OutputDir, spec.ArchivePath)
		if err != nil {
			return err
		}
	}

	slog.Info("Bundle complete", slog.String("path", spec.OutputDir))

	return nil
}

// logExpectedLoader reports which dynamic loader the staged runtime requests
// at load time. Useful when resolution later fails to find one.
func logExpectedLoader(wineDir string) {
	for _, name := range []string{"wine", "wine64", "wineserver"} {
		interpreter, err := sys.ReadInterpreter(filepath.Join(wineDir, "bin", name))
		if err != nil {
			continue
		}

		slog.Debug("Runtime requests dynamic loader",
			slog.String("binary", name),
			slog.String("interpreter", interpreter))

		return
	}
}
