// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

// Package cmd provides the winebundle command line interface.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/abrar71/Wine-Builds/internal/bundle"
	"github.com/abrar71/Wine-Builds/internal/sys"
)

// rootFSEnvVar overrides the default x86_64 reference root filesystem path.
const rootFSEnvVar = "WINEBUNDLE_X86_ROOT"

type options struct {
	outputDir   string
	archivePath string
	skipFex     bool
	keepWorkDir bool
	debug       bool
}

// New creates the winebundle root command.
func New() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "winebundle <wine-archive>",
		Short: "Package a portable x86_64 Wine runtime for ARM64 Linux",
		Long: `winebundle combines a pre-built x86_64 WoW64 Wine runtime, a cross-built
FEX binary translation engine and the transitive closure of x86_64 shared
libraries resolved from a reference root filesystem into one relocatable
directory tree that runs on ARM64 Linux hosts without any x86_64
compatibility packages installed.

The archive name must match wine-<version>-amd64-wow64.<tar.gz|tar.xz|cpio.gz>.
The reference root filesystem defaults to ` + bundle.DefaultRootFS + ` and can
be overridden with the ` + rootFSEnvVar + ` environment variable.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			setupLogging(cobraCmd.ErrOrStderr(), opts.debug)

			return run(cobraCmd.Context(), args[0], opts)
		},
	}

	rootCmd.Flags().StringVarP(&opts.outputDir, "output", "o", "",
		"bundle output directory (default derived from the archive name)")
	rootCmd.Flags().StringVar(&opts.archivePath, "archive", "",
		"additionally write the bundle as a .tar.gz or .cpio.gz archive")
	rootCmd.Flags().BoolVar(&opts.skipFex, "skip-fex", false,
		"skip fetching and building the FEX translation engine")
	rootCmd.Flags().BoolVar(&opts.keepWorkDir, "keep-workdir", false,
		"keep the scratch working directory for inspection")
	rootCmd.Flags().BoolVar(&opts.debug, "debug", false,
		"enable debug logging")

	return rootCmd
}

func run(ctx context.Context, archivePath string, opts *options) error {
	absPath, err := sys.AbsolutePath(archivePath)
	if err != nil {
		return err
	}

	info, err := bundle.ParseArchiveName(absPath)
	if err != nil {
		return err
	}

	err = sys.CheckRegularFile(absPath)
	if err != nil {
		return fmt.Errorf("archive %s: %w", archivePath, err)
	}

	outputDir := opts.outputDir
	if outputDir == "" {
		outputDir = defaultOutputDir(info)
	}

	spec := bundle.Spec{
		Archive:     info,
		RootFS:      env.Str(rootFSEnvVar, bundle.DefaultRootFS),
		OutputDir:   outputDir,
		ArchivePath: opts.archivePath,
		SkipEngine:  opts.skipFex,
		KeepWorkDir: opts.keepWorkDir,
	}

	return bundle.Build(ctx, spec)
}

// defaultOutputDir derives the bundle directory name from the archive name,
// e.g. wine-10.2-amd64-wow64.tar.xz becomes wine-10.2-arm64-bundle.
func defaultOutputDir(info bundle.ArchiveInfo) string {
	version := strings.ReplaceAll(info.Version, "/", "_")

	return fmt.Sprintf("wine-%s-arm64-bundle", version)
}

// Execute runs the winebundle command and returns the process exit code.
func Execute(ctx context.Context) int {
	rootCmd := New()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		slog.Error(err.Error())
		return 1
	}

	return 0
}
