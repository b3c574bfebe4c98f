// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package encoding

// Shape is the operand layout of an instruction word.
//
//go:generate go tool stringer -linecomment -type=Shape
type Shape int

const (
	SHAPE_UNIMPLEMENTED = Shape(0) // unimplemented
	SHAPE_TWO_SOURCES   = Shape(1) // two-sources
	SHAPE_DEST_ONLY     = Shape(2) // dest-only
	SHAPE_WORD          = Shape(3) // word
	SHAPE_RANGE_REG     = Shape(4) // range-reg
	SHAPE_UNDEFINED     = Shape(5) // undefined
)

// regField converts an 8-bit register field (a byte offset into the
// register file) to a register index.
func regField(word uint32, shift uint) int {
	return int((word>>shift)&0xff) >> 2
}

// makeRegField converts a register index to its field encoding.
func makeRegField(reg int, shift uint) uint32 {
	return (uint32(reg<<2) & 0xff) << shift
}

// TwoSources is the D, S, T register layout.
//
//	31      24 23      16 15       8 7        0
//	[   T    ] [   S    ] [   D    ] [ opcode ]
type TwoSources uint32

// MakeTwoSources encodes a two-sources instruction.
func MakeTwoSources(op Opcode, d, s, t int) TwoSources {
	return TwoSources(uint32(op) | makeRegField(d, 8) | makeRegField(s, 16) | makeRegField(t, 24))
}

// MakeTwoSourcesImm8 encodes a two-sources instruction whose T field
// holds a raw 8-bit immediate instead of a register.
func MakeTwoSourcesImm8(op Opcode, d, s int, t uint8) TwoSources {
	return TwoSources(uint32(op) | makeRegField(d, 8) | makeRegField(s, 16) | uint32(t)<<24)
}

// MakeTwoSourcesImm8x2 encodes a two-sources instruction whose S and T
// fields hold raw 8-bit immediates.
func MakeTwoSourcesImm8x2(op Opcode, d int, s, t uint8) TwoSources {
	return TwoSources(uint32(op) | makeRegField(d, 8) | uint32(s)<<16 | uint32(t)<<24)
}

// MakeTwoSourcesImm16 encodes a two-sources instruction whose S and T
// fields together hold a 16-bit immediate.
func MakeTwoSourcesImm16(op Opcode, d int, imm int16) TwoSources {
	return TwoSources(uint32(op) | makeRegField(d, 8) | uint32(uint16(imm))<<16)
}

func (e TwoSources) Opcode() Opcode { return Opcode(e & 0xff) }
func (e TwoSources) D() int         { return regField(uint32(e), 8) }
func (e TwoSources) S() int         { return regField(uint32(e), 16) }
func (e TwoSources) T() int         { return regField(uint32(e), 24) }

// UByteS is the raw S field.
func (e TwoSources) UByteS() uint8 { return uint8(e >> 16) }

// UByteT is the raw T field.
func (e TwoSources) UByteT() uint8 { return uint8(e >> 24) }

// ByteS is the raw S field, sign extended.
func (e TwoSources) ByteS() int32 { return int32(int8(e >> 16)) }

// ByteT is the raw T field, sign extended.
func (e TwoSources) ByteT() int32 { return int32(int8(e >> 24)) }

// Imm16 is the S and T fields as a sign extended 16-bit value.
func (e TwoSources) Imm16() int32 { return int32(int16(e >> 16)) }

// DestOnly is the D register plus 16-bit immediate layout.
//
//	31               16 15       8 7        0
//	[      Imm16      ] [   D    ] [ opcode ]
type DestOnly uint32

// MakeDestOnly encodes a dest-only instruction.
func MakeDestOnly(op Opcode, d int, imm int16) DestOnly {
	return DestOnly(uint32(op) | makeRegField(d, 8) | uint32(uint16(imm))<<16)
}

func (e DestOnly) Opcode() Opcode { return Opcode(e & 0xff) }
func (e DestOnly) D() int         { return regField(uint32(e), 8) }
func (e DestOnly) Imm16() int32   { return int32(int16(e >> 16)) }

// Word is the full-word immediate layout: a signed 24-bit value above
// the opcode.
type Word uint32

const (
	WORD_MIN = -(1 << 23)
	WORD_MAX = (1 << 23) - 1
)

// MakeWord encodes a word instruction. Values outside 24 bits are truncated.
func MakeWord(op Opcode, value int32) Word {
	return Word(uint32(op) | (uint32(value)&0xffffff)<<8)
}

func (e Word) Opcode() Opcode { return Opcode(e & 0xff) }

// Value is the sign extended 24-bit immediate.
func (e Word) Value() int32 { return int32(e) >> 8 }

// RangeReg is the register range layout.
//
//	31      24 23      16 15       8 7        0
//	[ Extra  ] [  End   ] [ Start  ] [ opcode ]
type RangeReg uint32

// MakeRangeReg encodes a range-reg instruction.
func MakeRangeReg(op Opcode, start, end int, extra uint8) RangeReg {
	return RangeReg(uint32(op) | makeRegField(start, 8) | makeRegField(end, 16) | uint32(extra)<<24)
}

func (e RangeReg) Opcode() Opcode { return Opcode(e & 0xff) }
func (e RangeReg) Start() int     { return regField(uint32(e), 8) }
func (e RangeReg) End() int       { return regField(uint32(e), 16) }
func (e RangeReg) Extra() uint8   { return uint8(e >> 24) }

// Undefined is the layout of instructions without operands.
type Undefined uint32

// MakeUndefined encodes an operand-less instruction.
func MakeUndefined(op Opcode) Undefined {
	return Undefined(op)
}

func (e Undefined) Opcode() Opcode { return Opcode(e & 0xff) }
