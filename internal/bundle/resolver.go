// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle

import (
	"log/slog"

	"github.com/abrar71/Wine-Builds/internal/sys"
)

// Resolver computes the transitive closure of shared libraries required by a
// set of ELF entry points.
//
// Starting from the entry points it walks the DT_NEEDED graph, resolving
// each library name against [Resolver.SearchPath] and descending into the
// dependencies of every library it finds. Names that cannot be resolved in
// any search directory are logged as warnings and skipped; a resolution run
// never fails on a missing library.
type Resolver struct {
	// SearchPath is the ordered list of directories library names are
	// resolved in. It is fixed for the lifetime of the resolver.
	SearchPath SearchPath

	// LoaderCandidates is an ordered list of absolute paths probed for the
	// dynamic loader. The first existing one is added to the result.
	LoaderCandidates []string

	// ReadNeeded extracts the DT_NEEDED names of the ELF file with the given
	// path. Defaults to [sys.ReadNeeded] if unset.
	ReadNeeded func(path string) ([]string, error)
}

// Resolve returns the deduplicated list of absolute library paths required
// by the given ELF files, plus the dynamic loader.
//
// Files that do not exist, are not regular files, or are not x86_64 ELF
// files are skipped. Each distinct library name is resolved once; circular
// DT_NEEDED references terminate since no name is processed twice.
func (r *Resolver) Resolve(entryPoints []string) []string {
	readNeeded := r.ReadNeeded
	if readNeeded == nil {
		readNeeded = sys.ReadNeeded
	}

	// Worklist of ELF files pending DT_NEEDED extraction, seeded with the
	// entry points. Resolved libraries are pushed to the back so their own
	// dependencies are explored as well.
	worklist := make([]string, len(entryPoints))
	copy(worklist, entryPoints)

	visited := make(map[string]struct{})

	var resolved []string

	for len(worklist) > 0 {
		file := worklist[0]
		worklist = worklist[1:]

		if !sys.IsRegularFile(file) {
			continue
		}

		needed, err := readNeeded(file)
		if err != nil {
			// Non-ELF, foreign-architecture and unreadable files do not
			// abort the run.
			slog.Debug("Skipping file",
				slog.String("file", file),
				slog.Any("reason", err))

			continue
		}

		for _, name := range needed {
			if _, seen := visited[name]; seen {
				continue
			}

			visited[name] = struct{}{}

			path, found := r.SearchPath.Resolve(name)
			if !found {
				slog.Warn("Library not found in any search directory",
					slog.String("library", name),
					slog.String("requiredBy", file))

				continue
			}

			resolved = append(resolved, path)
			worklist = append(worklist, path)
		}
	}

	resolved = append(resolved, r.resolveLoader()...)

	return dedup(resolved)
}

// resolveLoader probes the loader candidates and returns the first existing
// one. The loader is required even though binaries usually do not list it as
// DT_NEEDED.
func (r *Resolver) resolveLoader() []string {
	for _, candidate := range r.LoaderCandidates {
		if sys.IsRegularFile(candidate) {
			return []string{candidate}
		}
	}

	slog.Warn("No dynamic loader found, bundle will not be bootable",
		slog.Any("candidates", r.LoaderCandidates))

	return nil
}

// dedup removes duplicate paths, preserving first-occurrence order.
func dedup(paths []string) []string {
	deduped := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))

	for _, path := range paths {
		if _, exists := seen[path]; exists {
			continue
		}

		seen[path] = struct{}{}
		deduped = append(deduped, path)
	}

	return deduped
}
