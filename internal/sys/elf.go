// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package sys

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sys/unix"
)

var (
	// ErrNotELFFile is returned if the file does not have an ELF magic number.
	ErrNotELFFile = errors.New("is not an ELF file")

	// ErrWrongELFArch is returned if the file is an ELF file but not a 64-bit
	// little-endian x86_64 one.
	ErrWrongELFArch = errors.New("is not a 64-bit x86_64 ELF file")

	// ErrNoInterpreter is returned if no interpreter is found in an ELF file.
	ErrNoInterpreter = errors.New("no interpreter in ELF file")
)

// ReadNeeded reads the DT_NEEDED entries from the dynamic section of the ELF
// file with the given path.
//
// The names are returned in the order they are stored in the dynamic section.
// A statically linked file and a dynamic file without DT_NEEDED entries both
// yield an empty list.
//
// It returns [ErrNotELFFile] if the file does not start with an ELF magic
// number and [ErrWrongELFArch] if it is an ELF file for anything other than
// 64-bit little-endian x86_64.
func ReadNeeded(path string) ([]string, error) {
	elfFile, err := elf.Open(path)
	if err != nil {
		if strings.Contains(err.Error(), "bad magic number") {
			return nil, ErrNotELFFile
		}

		return nil, fmt.Errorf("open ELF file: %w", err)
	}
	defer elfFile.Close()

	err = validateELF(elfFile.FileHeader)
	if err != nil {
		return nil, err
	}

	needed, err := elfFile.DynString(elf.DT_NEEDED)
	if err != nil {
		return nil, fmt.Errorf("read DT_NEEDED: %w", err)
	}

	return needed, nil
}

// ReadInterpreter reads the program interpreter path from the PT_INTERP
// segment of the ELF file with the given path. This is the dynamic loader
// the file requests at load time. [ErrNoInterpreter] is returned for
// statically linked files.
func ReadInterpreter(path string) (string, error) {
	elfFile, err := elf.Open(path)
	if err != nil {
		if strings.Contains(err.Error(), "bad magic number") {
			return "", ErrNotELFFile
		}

		return "", fmt.Errorf("open ELF file: %w", err)
	}
	defer elfFile.Close()

	for _, prog := range elfFile.Progs {
		if prog.Type != elf.PT_INTERP {
			continue
		}

		buf := make([]byte, prog.Filesz)

		_, err := prog.Open().Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read interpreter: %w", err)
		}

		// The segment content is a NUL terminated path.
		interpreter := unix.ByteSliceToString(buf)
		if interpreter != "" {
			return interpreter, nil
		}
	}

	return "", ErrNoInterpreter
}

// validateELF validates that the ELF attributes match the x86_64 runtime
// binaries the bundle ships.
func validateELF(hdr elf.FileHeader) error {
	switch {
	case hdr.Class != elf.ELFCLASS64:
		return fmt.Errorf("%w: %s", ErrWrongELFArch, hdr.Class)
	case hdr.Data != elf.ELFDATA2LSB:
		return fmt.Errorf("%w: %s", ErrWrongELFArch, hdr.Data)
	case hdr.Machine != elf.EM_X86_64:
		return fmt.Errorf("%w: %s", ErrWrongELFArch, hdr.Machine)
	}

	return nil
}
