// Package memory provides the flat virtual address space and constant
// pool a PIP2 program is loaded into.
package memory

import (
	"encoding/binary"
	"errors"
	"log"

	"github.com/ezrec/pip2/translate"
)

var f = translate.From

var (
	ErrOutOfRange = errors.New(f("address out of range"))
)

// ErrAddress is an access outside of the mapped memory.
type ErrAddress struct {
	Addr uint32
	Size uint32
}

func (err *ErrAddress) Error() string {
	return f("access of %d bytes at 0x%08x out of range", err.Size, err.Addr)
}

func (err *ErrAddress) Unwrap() error {
	return ErrOutOfRange
}

// Memory is a little-endian byte array mapped at Base.
type Memory struct {
	Verbose bool // Set to log bulk copy and fill operations.

	Base uint32
	Data []byte
}

// NewMemory creates a zeroed memory of size bytes mapped at base.
func NewMemory(base uint32, size uint32) *Memory {
	return &Memory{
		Base: base,
		Data: make([]byte, size),
	}
}

// End is the first address past the mapped memory.
func (mem *Memory) End() uint32 {
	return mem.Base + uint32(len(mem.Data))
}

// slice returns the bytes backing [addr, addr+size).
func (mem *Memory) slice(addr uint32, size uint32) (data []byte, err error) {
	offset := uint64(addr) - uint64(mem.Base)
	if addr < mem.Base || offset+uint64(size) > uint64(len(mem.Data)) {
		err = &ErrAddress{Addr: addr, Size: size}
		return
	}

	data = mem.Data[offset : offset+uint64(size)]
	return
}

// ReadCode fetches an instruction word.
func (mem *Memory) ReadCode(addr uint32) (uint32, error) {
	return mem.Read32(addr)
}

// ReadDword fetches an info word.
func (mem *Memory) ReadDword(addr uint32) (uint32, error) {
	return mem.Read32(addr)
}

func (mem *Memory) Read8(addr uint32) (value uint8, err error) {
	data, err := mem.slice(addr, 1)
	if err != nil {
		return
	}
	value = data[0]
	return
}

func (mem *Memory) Read16(addr uint32) (value uint16, err error) {
	data, err := mem.slice(addr, 2)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint16(data)
	return
}

func (mem *Memory) Read32(addr uint32) (value uint32, err error) {
	data, err := mem.slice(addr, 4)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint32(data)
	return
}

func (mem *Memory) Write8(addr uint32, value uint8) (err error) {
	data, err := mem.slice(addr, 1)
	if err != nil {
		return
	}
	data[0] = value
	return
}

func (mem *Memory) Write16(addr uint32, value uint16) (err error) {
	data, err := mem.slice(addr, 2)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint16(data, value)
	return
}

func (mem *Memory) Write32(addr uint32, value uint32) (err error) {
	data, err := mem.slice(addr, 4)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint32(data, value)
	return
}

// Copy copies count bytes from src to dst. Overlapping ranges behave as
// if copied through a temporary buffer.
func (mem *Memory) Copy(dst, src uint32, count uint32) (err error) {
	if mem.Verbose {
		log.Printf("memory: copy 0x%08x <- 0x%08x (%d)", dst, src, count)
	}

	from, err := mem.slice(src, count)
	if err != nil {
		return
	}
	to, err := mem.slice(dst, count)
	if err != nil {
		return
	}
	copy(to, from)
	return
}

// Fill sets count bytes at dst to value.
func (mem *Memory) Fill(dst uint32, value uint8, count uint32) (err error) {
	if mem.Verbose {
		log.Printf("memory: fill 0x%08x = 0x%02x (%d)", dst, value, count)
	}

	to, err := mem.slice(dst, count)
	if err != nil {
		return
	}
	for n := range to {
		to[n] = value
	}
	return
}

// Load writes a sequence of words starting at addr.
func (mem *Memory) Load(addr uint32, words []uint32) (err error) {
	for n, word := range words {
		err = mem.Write32(addr+uint32(n*4), word)
		if err != nil {
			return
		}
	}
	return
}
