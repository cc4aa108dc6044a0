// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package sys

import (
	"debug/elf"
	"encoding/binary"
	"os"
	"testing"
)

// WriteTestELF writes a minimal valid ELF file with the given class, byte
// order and machine to path. The file has no program headers, no sections
// and thus no dynamic section.
func WriteTestELF(
	tb testing.TB,
	path string,
	class elf.Class,
	data elf.Data,
	machine elf.Machine,
) {
	tb.Helper()

	buf := make([]byte, 64)
	copy(buf, elf.ELFMAG)
	buf[elf.EI_CLASS] = byte(class)
	buf[elf.EI_DATA] = byte(data)
	buf[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	byteOrder := binary.ByteOrder(binary.LittleEndian)
	if data == elf.ELFDATA2MSB {
		byteOrder = binary.BigEndian
	}

	byteOrder.PutUint16(buf[16:], uint16(elf.ET_EXEC))
	byteOrder.PutUint16(buf[18:], uint16(machine))
	byteOrder.PutUint32(buf[20:], uint32(elf.EV_CURRENT))

	err := os.WriteFile(path, buf, 0o755)
	if err != nil {
		tb.Fatalf("write test ELF file: %v", err)
	}
}

// WriteTestELFInterp writes a minimal x86_64 ELF file to path that has a
// single PT_INTERP segment requesting the given interpreter.
func WriteTestELFInterp(tb testing.TB, path, interpreter string) {
	tb.Helper()

	const (
		headerSize     = 64
		progHeaderSize = 56
		segmentOffset  = headerSize + progHeaderSize
	)

	segment := append([]byte(interpreter), 0)
	buf := make([]byte, segmentOffset+len(segment))

	copy(buf, elf.ELFMAG)
	buf[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	buf[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	buf[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	le := binary.LittleEndian
	le.PutUint16(buf[16:], uint16(elf.ET_EXEC))
	le.PutUint16(buf[18:], uint16(elf.EM_X86_64))
	le.PutUint32(buf[20:], uint32(elf.EV_CURRENT))
	le.PutUint64(buf[32:], headerSize)      // e_phoff
	le.PutUint16(buf[52:], headerSize)      // e_ehsize
	le.PutUint16(buf[54:], progHeaderSize)  // e_phentsize
	le.PutUint16(buf[56:], 1)               // e_phnum

	prog := buf[headerSize:]
	le.PutUint32(prog[0:], uint32(elf.PT_INTERP))
	le.PutUint32(prog[4:], uint32(elf.PF_R))
	le.PutUint64(prog[8:], segmentOffset)          // p_offset
	le.PutUint64(prog[32:], uint64(len(segment)))  // p_filesz
	le.PutUint64(prog[40:], uint64(len(segment)))  // p_memsz
	le.PutUint64(prog[48:], 1)                     // p_align

	copy(buf[segmentOffset:], segment)

	err := os.WriteFile(path, buf, 0o755)
	if err != nil {
		tb.Fatalf("write test ELF file: %v", err)
	}
}
