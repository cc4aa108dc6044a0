// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cavaliergopher/cpio"
)

// WriteArchive serializes the finished bundle tree into a single archive
// file at outPath. The container format is chosen from the extension:
// ".tar.gz" or ".cpio.gz". Entry names are prefixed with the bundle
// directory's base name so the archive unpacks into one directory.
func WriteArchive(bundleDir, outPath string) error {
	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer outFile.Close()

	gzWriter := gzip.NewWriter(outFile)
	defer gzWriter.Close()

	prefix := filepath.Base(bundleDir)

	switch {
	case strings.HasSuffix(outPath, ".tar.gz"):
		err = writeTarArchive(gzWriter, bundleDir, prefix)
	case strings.HasSuffix(outPath, ".cpio.gz"):
		err = writeCpioArchive(gzWriter, bundleDir, prefix)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(outPath))
	}

	if err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	err = gzWriter.Close()
	if err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}

	return nil
}

func writeTarArchive(writer io.Writer, bundleDir, prefix string) error {
	tarWriter := tar.NewWriter(writer)

	err := walkBundle(bundleDir, prefix, func(name string, info fs.FileInfo, linkTarget string, open openFunc) error {
		header, err := tar.FileInfoHeader(info, linkTarget)
		if err != nil {
			return fmt.Errorf("create header for %s: %w", name, err)
		}

		header.Name = name
		if info.IsDir() {
			header.Name += "/"
		}

		err = tarWriter.WriteHeader(header)
		if err != nil {
			return fmt.Errorf("write header for %s: %w", name, err)
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return copyBody(tarWriter, name, open)
	})
	if err != nil {
		return err
	}

	return tarWriter.Close()
}

func writeCpioArchive(writer io.Writer, bundleDir, prefix string) error {
	cpioWriter := cpio.NewWriter(writer)

	err := walkBundle(bundleDir, prefix, func(name string, info fs.FileInfo, linkTarget string, open openFunc) error {
		switch {
		case info.IsDir():
			header := &cpio.Header{
				Name: name,
				Mode: cpio.TypeDir | cpio.FileMode(info.Mode().Perm()),
			}

			err := cpioWriter.WriteHeader(header)
			if err != nil {
				return fmt.Errorf("write header for %s: %w", name, err)
			}
		case info.Mode()&fs.ModeSymlink != 0:
			header := &cpio.Header{
				Name: name,
				Mode: cpio.TypeSymlink | cpio.ModePerm,
				Size: int64(len(linkTarget)),
			}

			err := cpioWriter.WriteHeader(header)
			if err != nil {
				return fmt.Errorf("write header for %s: %w", name, err)
			}

			// The body of a cpio symlink entry is the target path.
			_, err = cpioWriter.Write([]byte(linkTarget))
			if err != nil {
				return fmt.Errorf("write symlink body for %s: %w", name, err)
			}
		default:
			header, err := cpio.FileInfoHeader(info, "")
			if err != nil {
				return fmt.Errorf("create header for %s: %w", name, err)
			}

			header.Name = name

			err = cpioWriter.WriteHeader(header)
			if err != nil {
				return fmt.Errorf("write header for %s: %w", name, err)
			}

			return copyBody(cpioWriter, name, open)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return cpioWriter.Close()
}

type openFunc func() (io.ReadCloser, error)

type entryFunc func(name string, info fs.FileInfo, linkTarget string, open openFunc) error

// walkBundle walks the bundle tree in lexical order and calls fn for each
// entry with its archive name, i.e. its path relative to the bundle root
// prefixed with the bundle name.
func walkBundle(bundleDir, prefix string, fn entryFunc) error {
	return filepath.WalkDir(bundleDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(bundleDir, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}

		if relPath == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("read info: %w", err)
		}

		var linkTarget string
		if info.Mode()&fs.ModeSymlink != 0 {
			linkTarget, err = os.Readlink(path)
			if err != nil {
				return fmt.Errorf("read link: %w", err)
			}
		}

		name := filepath.ToSlash(filepath.Join(prefix, relPath))
		open := func() (io.ReadCloser, error) { return os.Open(path) }

		return fn(name, info, linkTarget, open)
	})
}

func copyBody(writer io.Writer, name string, open openFunc) error {
	file, err := open()
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer file.Close()

	_, err = io.Copy(writer, file)
	if err != nil {
		return fmt.Errorf("write body for %s: %w", name, err)
	}

	return nil
}
