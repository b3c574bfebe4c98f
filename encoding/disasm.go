// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package encoding

import (
	"fmt"
)

// Disassemble renders the instruction word as assembly text. Operands
// that live in trailing info words are shown as '#'.
func Disassemble(word uint32) string {
	op := OpcodeOf(word)
	reg := func(n int) Register { return Register(n) }

	switch ShapeOf(op) {
	case SHAPE_TWO_SOURCES:
		e := TwoSources(word)
		switch {
		case op == OP_NOT || op == OP_NEG || op == OP_EXSB || op == OP_EXSH ||
			op == OP_MOV || op == OP_MOVB || op == OP_MOVH:
			return fmt.Sprintf("%v %v %v", op, reg(e.D()), reg(e.S()))
		case op == OP_ADDQ || op == OP_MULQ:
			return fmt.Sprintf("%v %v %v %d", op, reg(e.D()), reg(e.S()), e.ByteT())
		case op == OP_SLLI || op == OP_SRAI || op == OP_SRLI ||
			op == OP_ADDBI || op == OP_ANDBI || op == OP_ORBI:
			return fmt.Sprintf("%v %v %v %d", op, reg(e.D()), reg(e.S()), e.UByteT())
		case op >= OP_BEQI && op <= OP_BLTUI:
			return fmt.Sprintf("%v %v # %+d", op, reg(e.D()), e.Imm16())
		case op >= OP_BEQIB && op <= OP_BLTUIB:
			return fmt.Sprintf("%v %v %d %+d", op, reg(e.D()), e.ByteS(), e.ByteT()*4)
		case op >= OP_BEQ && op <= OP_BLTU:
			return fmt.Sprintf("%v %v %v #", op, reg(e.D()), reg(e.S()))
		case op == OP_ADDHI || op == OP_ANDHI || (op >= OP_ADDI && op <= OP_SUBI) ||
			(op >= OP_STBD && op <= OP_LDHUD):
			return fmt.Sprintf("%v %v %v #", op, reg(e.D()), reg(e.S()))
		default:
			return fmt.Sprintf("%v %v %v %v", op, reg(e.D()), reg(e.S()), reg(e.T()))
		}
	case SHAPE_DEST_ONLY:
		e := DestOnly(word)
		switch op {
		case OP_LDQ:
			return fmt.Sprintf("%v %v %d", op, reg(e.D()), e.Imm16())
		case OP_LDI:
			return fmt.Sprintf("%v %v #", op, reg(e.D()))
		default:
			return fmt.Sprintf("%v %v", op, reg(e.D()))
		}
	case SHAPE_WORD:
		return fmt.Sprintf("%v %+d", op, Word(word).Value())
	case SHAPE_RANGE_REG:
		e := RangeReg(word)
		return fmt.Sprintf("%v %v %v %d", op, reg(e.Start()), reg(e.End()), e.Extra())
	case SHAPE_UNDEFINED:
		return op.String()
	}

	return fmt.Sprintf(".word 0x%08x", word)
}
