// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

// Wine runtime archives must identify architecture and execution mode in
// their name, like "wine-10.2-amd64-wow64.tar.xz".
var archiveNameRegexp = regexp.MustCompile(
	`^wine-(.+)-amd64-wow64\.(tar\.gz|tar\.xz|cpio\.gz)$`,
)

var ErrBadArchiveName = errors.New(
	"archive name must match wine-<version>-amd64-wow64.<tar.gz|tar.xz|cpio.gz>",
)

// ArchiveInfo describes a Wine runtime archive accepted as pipeline input.
type ArchiveInfo struct {
	// Path is the path the archive was given as.
	Path string
	// Version is the Wine version encoded in the archive name.
	Version string
	// Format is the container format: "tar.gz", "tar.xz" or "cpio.gz".
	Format string
}

// ParseArchiveName validates the base name of the given archive path against
// the expected naming pattern. It returns [ErrBadArchiveName] if the name
// does not identify an amd64 WoW64 Wine build in a supported container
// format.
func ParseArchiveName(path string) (ArchiveInfo, error) {
	name := filepath.Base(path)

	matches := archiveNameRegexp.FindStringSubmatch(name)
	if matches == nil {
		return ArchiveInfo{}, fmt.Errorf("%w: %s", ErrBadArchiveName, name)
	}

	info := ArchiveInfo{
		Path:    path,
		Version: matches[1],
		Format:  matches[2],
	}

	return info, nil
}
