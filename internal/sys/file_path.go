// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package sys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrEmptyPath      = errors.New("path must not be empty")
	ErrNotRegularFile = errors.New("not a regular file")
	ErrNotDir         = errors.New("not a directory")
)

// AbsolutePath returns the absolute path as resolved by [filepath.Abs].
//
// It returns [ErrEmptyPath] if the given path is empty.
func AbsolutePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}

	return path, nil
}

// CheckRegularFile returns an error unless path exists and is a regular file.
func CheckRegularFile(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if !stat.Mode().IsRegular() {
		return ErrNotRegularFile
	}

	return nil
}

// CheckDir returns an error unless path exists and is a directory.
func CheckDir(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if !stat.IsDir() {
		return ErrNotDir
	}

	return nil
}

// IsRegularFile reports whether path exists and is a regular file. Stat
// errors are treated as absence.
func IsRegularFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}
