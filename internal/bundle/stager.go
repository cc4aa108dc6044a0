// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cavaliergopher/cpio"
	"github.com/ulikunitz/xz"
)

var (
	// ErrUnsupportedFormat is returned for archive container formats the
	// stager cannot extract.
	ErrUnsupportedFormat = errors.New("unsupported archive format")

	// ErrNoRuntimeDir is returned if the extracted archive does not contain
	// exactly one top-level directory.
	ErrNoRuntimeDir = errors.New(
		"archive does not contain a single top-level runtime directory",
	)

	// ErrUnsafePath is returned for archive entries that would escape the
	// extraction directory.
	ErrUnsafePath = errors.New("archive entry path escapes extraction directory")
)

// Stage extracts the Wine runtime archive into wineDir.
//
// The archive is expected to contain a single top-level directory holding
// the runtime tree. It is extracted into a scratch directory next to wineDir
// first and the top-level directory is then moved into place, so wineDir
// ends up with bin/ and lib/ directly beneath it.
func Stage(info ArchiveInfo, wineDir string) error {
	extractDir := wineDir + ".extract"

	err := os.MkdirAll(extractDir, 0o755)
	if err != nil {
		return fmt.Errorf("create extraction directory: %w", err)
	}
	defer os.RemoveAll(extractDir)

	err = extractArchive(info, extractDir)
	if err != nil {
		return fmt.Errorf("extract %s: %w", filepath.Base(info.Path), err)
	}

	runtimeDir, err := singleTopLevelDir(extractDir)
	if err != nil {
		return err
	}

	err = os.Rename(runtimeDir, wineDir)
	if err != nil {
		return fmt.Errorf("move runtime directory: %w", err)
	}

	return nil
}

func extractArchive(info ArchiveInfo, destDir string) error {
	archiveFile, err := os.Open(info.Path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	switch info.Format {
	case "tar.gz":
		gzReader, err := gzip.NewReader(archiveFile)
		if err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
		defer gzReader.Close()

		return extractTar(gzReader, destDir)
	case "tar.xz":
		xzReader, err := xz.NewReader(archiveFile)
		if err != nil {
			return fmt.Errorf("xz: %w", err)
		}

		return extractTar(xzReader, destDir)
	case "cpio.gz":
		gzReader, err := gzip.NewReader(archiveFile)
		if err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
		defer gzReader.Close()

		return extractCpio(gzReader, destDir)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, info.Format)
	}
}

func extractTar(reader io.Reader, destDir string) error {
	tarReader := tar.NewReader(reader)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}

		path, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			err = os.MkdirAll(path, 0o755)
		case tar.TypeReg:
			mode := header.FileInfo().Mode() & fs.ModePerm
			err = writeFileFrom(path, tarReader, mode)
		case tar.TypeSymlink:
			err = writeSymlink(path, header.Linkname)
		default:
			// Device nodes and the like have no place in a runtime archive.
			continue
		}

		if err != nil {
			return err
		}
	}
}

func extractCpio(reader io.Reader, destDir string) error {
	cpioReader := cpio.NewReader(reader)

	for {
		header, err := cpioReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read cpio entry: %w", err)
		}

		path, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}

		mode := header.FileInfo().Mode()

		switch {
		case mode.IsDir():
			err = os.MkdirAll(path, 0o755)
		case mode.IsRegular():
			err = writeFileFrom(path, cpioReader, mode.Perm())
		case mode&fs.ModeSymlink != 0:
			err = writeSymlink(path, header.Linkname)
		default:
			continue
		}

		if err != nil {
			return err
		}
	}
}

// safeJoin joins an archive entry name onto destDir, rejecting absolute
// names and names that escape destDir.
func safeJoin(destDir, name string) (string, error) {
	name = filepath.Clean(name)
	if filepath.IsAbs(name) || name == ".." ||
		strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}

	return filepath.Join(destDir, name), nil
}

func writeFileFrom(path string, reader io.Reader, mode fs.FileMode) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	_, err = io.Copy(file, reader)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func writeSymlink(path, target string) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	err = os.Symlink(target, path)
	if err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}

	return nil
}

// singleTopLevelDir returns the path of the only directory in dir. Anything
// other than exactly one directory entry is an [ErrNoRuntimeDir].
func singleTopLevelDir(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read extraction directory: %w", err)
	}

	if len(entries) != 1 || !entries[0].IsDir() {
		return "", ErrNoRuntimeDir
	}

	return filepath.Join(dir, entries[0].Name()), nil
}
