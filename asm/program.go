package asm

import (
	"iter"

	"github.com/ezrec/pip2/memory"
)

// LinkKind selects how a label is patched into an assembled line.
//
//go:generate go tool stringer -linecomment -type=LinkKind
type LinkKind int

const (
	LINK_NONE = LinkKind(0) // none
	// 16-bit displacement in the instruction.
	LINK_IMM16 = LinkKind(1) // imm16
	// 8-bit instruction-unit displacement.
	LINK_BYTE = LinkKind(2) // byte
	// 24-bit displacement in the instruction.
	LINK_WORD = LinkKind(3) // word
	// Displacement in the trailing info word.
	LINK_INFO = LinkKind(4) // info
	// Absolute address in the trailing info word.
	LINK_ABSOLUTE = LinkKind(5) // absolute
)

// Opcode is a line of assembled code with its source location and
// generated words.
type Opcode struct {
	LineNo    int
	Pc        uint32 // Offset from the program origin.
	Words     []string
	Codes     []uint32
	LinkLabel string
	Link      LinkKind
}

// Program is an assembled PIP2 image.
type Program struct {
	Origin  uint32
	Opcodes []Opcode
	Pool    memory.Pool
	Labels  map[string]uint32 // Offsets from the origin.
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the source line that generated the word at pc.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		addr := prog.Origin + op.Pc
		if pc >= addr && pc < addr+uint32(len(op.Codes)*4) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(pc-addr) / 4,
			}
			break
		}
	}

	return
}

// Entry returns the address of a label.
func (prog *Program) Entry(label string) (addr uint32, ok bool) {
	offset, ok := prog.Labels[label]
	if !ok {
		return
	}
	addr = prog.Origin + offset
	return
}

// Binary returns the image words in address order.
func (prog *Program) Binary() (bins []uint32) {
	for _, word := range prog.Codes() {
		bins = append(bins, word)
	}

	return
}

// Size is the image size in bytes.
func (prog *Program) Size() uint32 {
	if len(prog.Opcodes) == 0 {
		return 0
	}
	last := prog.Opcodes[len(prog.Opcodes)-1]
	return last.Pc + uint32(len(last.Codes)*4)
}

// Codes iterates over the absolute address and value of every word.
func (prog *Program) Codes() iter.Seq2[uint32, uint32] {
	return func(yield func(pc uint32, word uint32) bool) {
		for _, op := range prog.Opcodes {
			pc := prog.Origin + op.Pc
			for n, word := range op.Codes {
				if !yield(pc+uint32(n*4), word) {
					return
				}
			}
		}
	}
}
