package cpu

import (
	"fmt"

	"github.com/ezrec/pip2/encoding"
)

// opcodeEntry is one slot of the dispatch table. The zero value, with
// shape SHAPE_UNIMPLEMENTED, marks an unassigned opcode.
type opcodeEntry struct {
	shape encoding.Shape
	exec  func(word uint32) error
}

func withTwoSources(fn func(e encoding.TwoSources) error) opcodeEntry {
	return opcodeEntry{
		shape: encoding.SHAPE_TWO_SOURCES,
		exec:  func(word uint32) error { return fn(encoding.TwoSources(word)) },
	}
}

func withDestOnly(fn func(e encoding.DestOnly) error) opcodeEntry {
	return opcodeEntry{
		shape: encoding.SHAPE_DEST_ONLY,
		exec:  func(word uint32) error { return fn(encoding.DestOnly(word)) },
	}
}

func withWord(fn func(e encoding.Word) error) opcodeEntry {
	return opcodeEntry{
		shape: encoding.SHAPE_WORD,
		exec:  func(word uint32) error { return fn(encoding.Word(word)) },
	}
}

func withRangeReg(fn func(e encoding.RangeReg) error) opcodeEntry {
	return opcodeEntry{
		shape: encoding.SHAPE_RANGE_REG,
		exec:  func(word uint32) error { return fn(encoding.RangeReg(word)) },
	}
}

func withUndefined(fn func(e encoding.Undefined) error) opcodeEntry {
	return opcodeEntry{
		shape: encoding.SHAPE_UNDEFINED,
		exec:  func(word uint32) error { return fn(encoding.Undefined(word)) },
	}
}

// Shape returns the encoding shape bound to an opcode slot.
func (p *Processor) Shape(op encoding.Opcode) encoding.Shape {
	return p.table[op].shape
}

// buildTable binds every implemented opcode to its handler.
func (p *Processor) buildTable() {
	handlers := map[encoding.Opcode]opcodeEntry{
		encoding.OP_ADD:  withTwoSources(p.alu(aluAdd)),
		encoding.OP_AND:  withTwoSources(p.alu(aluAnd)),
		encoding.OP_MUL:  withTwoSources(p.alu(aluMul)),
		encoding.OP_DIV:  withTwoSources(p.aluErr(aluDiv)),
		encoding.OP_DIVU: withTwoSources(p.aluErr(aluDivu)),
		encoding.OP_OR:   withTwoSources(p.alu(aluOr)),
		encoding.OP_XOR:  withTwoSources(p.alu(aluXor)),
		encoding.OP_SUB:  withTwoSources(p.alu(aluSub)),
		encoding.OP_SLL:  withTwoSources(p.alu(aluSll)),
		encoding.OP_SRA:  withTwoSources(p.alu(aluSra)),
		encoding.OP_SRL:  withTwoSources(p.alu(aluSrl)),

		encoding.OP_NOT:  withTwoSources(p.unary(func(s uint32) uint32 { return ^s })),
		encoding.OP_NEG:  withTwoSources(p.unary(func(s uint32) uint32 { return -s })),
		encoding.OP_EXSB: withTwoSources(p.unary(func(s uint32) uint32 { return uint32(int32(int8(s))) })),
		encoding.OP_EXSH: withTwoSources(p.unary(func(s uint32) uint32 { return uint32(int32(int16(s))) })),
		encoding.OP_MOV:  withTwoSources(p.unary(func(s uint32) uint32 { return s })),
		encoding.OP_MOVB: withTwoSources(p.unary(func(s uint32) uint32 { return s & 0xff })),
		encoding.OP_MOVH: withTwoSources(p.unary(func(s uint32) uint32 { return s & 0xffff })),

		encoding.OP_ADDB: withTwoSources(p.aluMasked(aluAdd, 0xff)),
		encoding.OP_SUBB: withTwoSources(p.aluMasked(aluSub, 0xff)),
		encoding.OP_ANDB: withTwoSources(p.aluMasked(aluAnd, 0xff)),
		encoding.OP_ORB:  withTwoSources(p.aluMasked(aluOr, 0xff)),
		encoding.OP_ADDH: withTwoSources(p.aluMasked(aluAdd, 0xffff)),
		encoding.OP_SUBH: withTwoSources(p.aluMasked(aluSub, 0xffff)),
		encoding.OP_ANDH: withTwoSources(p.aluMasked(aluAnd, 0xffff)),
		encoding.OP_ORH:  withTwoSources(p.aluMasked(aluOr, 0xffff)),

		encoding.OP_SLLI: withTwoSources(p.aluImm8(aluSll, false, 0)),
		encoding.OP_SRAI: withTwoSources(p.aluImm8(aluSra, false, 0)),
		encoding.OP_SRLI: withTwoSources(p.aluImm8(aluSrl, false, 0)),
		encoding.OP_ADDQ: withTwoSources(p.aluImm8(aluAdd, true, 0)),
		encoding.OP_MULQ: withTwoSources(p.aluImm8(aluMul, true, 0)),

		encoding.OP_ADDBI: withTwoSources(p.aluImm8(aluAdd, false, 0xff)),
		encoding.OP_ANDBI: withTwoSources(p.aluImm8(aluAnd, false, 0xff)),
		encoding.OP_ORBI:  withTwoSources(p.aluImm8(aluOr, false, 0xff)),

		encoding.OP_SLLB: withTwoSources(p.shiftNarrow(aluSll, 8, false)),
		encoding.OP_SRLB: withTwoSources(p.shiftNarrow(aluSrl, 8, false)),
		encoding.OP_SRAB: withTwoSources(p.shiftNarrow(aluSra, 8, true)),
		encoding.OP_SLLH: withTwoSources(p.shiftNarrow(aluSll, 16, false)),
		encoding.OP_SRLH: withTwoSources(p.shiftNarrow(aluSrl, 16, false)),
		encoding.OP_SRAH: withTwoSources(p.shiftNarrow(aluSra, 16, true)),

		encoding.OP_ADDHI: withTwoSources(p.aluImm(aluAdd, 0xffff)),
		encoding.OP_ANDHI: withTwoSources(p.aluImm(aluAnd, 0xffff)),

		encoding.OP_ADDI:  withTwoSources(p.aluImm(aluAdd, 0)),
		encoding.OP_ANDI:  withTwoSources(p.aluImm(aluAnd, 0)),
		encoding.OP_MULI:  withTwoSources(p.aluImm(aluMul, 0)),
		encoding.OP_DIVI:  withTwoSources(p.aluImmErr(aluDiv)),
		encoding.OP_DIVUI: withTwoSources(p.aluImmErr(aluDivu)),
		encoding.OP_ORI:   withTwoSources(p.aluImm(aluOr, 0)),
		encoding.OP_XORI:  withTwoSources(p.aluImm(aluXor, 0)),
		encoding.OP_SUBI:  withTwoSources(p.aluImm(aluSub, 0)),

		encoding.OP_BEQI:  withTwoSources(p.branchImm(condEq)),
		encoding.OP_BNEI:  withTwoSources(p.branchImm(condNe)),
		encoding.OP_BGEI:  withTwoSources(p.branchImm(condGe)),
		encoding.OP_BGTI:  withTwoSources(p.branchImm(condGt)),
		encoding.OP_BGTUI: withTwoSources(p.branchImm(condGtu)),
		encoding.OP_BLEI:  withTwoSources(p.branchImm(condLe)),
		encoding.OP_BLEUI: withTwoSources(p.branchImm(condLeu)),
		encoding.OP_BLTI:  withTwoSources(p.branchImm(condLt)),
		encoding.OP_BLTUI: withTwoSources(p.branchImm(condLtu)),

		encoding.OP_BEQIB:  withTwoSources(p.branchImmByte(condEq, false)),
		encoding.OP_BNEIB:  withTwoSources(p.branchImmByte(condNe, false)),
		encoding.OP_BGEIB:  withTwoSources(p.branchImmByte(condGe, false)),
		encoding.OP_BGTIB:  withTwoSources(p.branchImmByte(condGt, false)),
		encoding.OP_BGTUIB: withTwoSources(p.branchImmByte(condGtu, true)),
		encoding.OP_BLEIB:  withTwoSources(p.branchImmByte(condLe, false)),
		encoding.OP_BLEUIB: withTwoSources(p.branchImmByte(condLeu, true)),
		encoding.OP_BLTIB:  withTwoSources(p.branchImmByte(condLt, false)),
		encoding.OP_BLTUIB: withTwoSources(p.branchImmByte(condLtu, true)),

		encoding.OP_BEQ:  withTwoSources(p.branchReg(condEq)),
		encoding.OP_BNE:  withTwoSources(p.branchReg(condNe)),
		encoding.OP_BGE:  withTwoSources(p.branchReg(condGe)),
		encoding.OP_BGEU: withTwoSources(p.branchReg(condGeu)),
		encoding.OP_BGT:  withTwoSources(p.branchReg(condGt)),
		encoding.OP_BGTU: withTwoSources(p.branchReg(condGtu)),
		encoding.OP_BLE:  withTwoSources(p.branchReg(condLe)),
		encoding.OP_BLEU: withTwoSources(p.branchReg(condLeu)),
		encoding.OP_BLT:  withTwoSources(p.branchReg(condLt)),
		encoding.OP_BLTU: withTwoSources(p.branchReg(condLtu)),

		encoding.OP_STBD:  withTwoSources(p.opSTBd),
		encoding.OP_STHD:  withTwoSources(p.opSTHd),
		encoding.OP_STWD:  withTwoSources(p.opSTWd),
		encoding.OP_LDBD:  withTwoSources(p.opLDBd),
		encoding.OP_LDHD:  withTwoSources(p.opLDHd),
		encoding.OP_LDWD:  withTwoSources(p.opLDWd),
		encoding.OP_LDBUD: withTwoSources(p.opLDBUd),
		encoding.OP_LDHUD: withTwoSources(p.opLDHUd),

		encoding.OP_LDQ:   withDestOnly(p.opLDQ),
		encoding.OP_LDI:   withDestOnly(p.opLDI),
		encoding.OP_JPR:   withDestOnly(p.opJPr),
		encoding.OP_CALLR: withDestOnly(p.opCALLr),
		encoding.OP_JPL:   withWord(p.opJPl),
		encoding.OP_CALLL: withWord(p.opCALLl),

		encoding.OP_STORE:   withRangeReg(p.opSTORE),
		encoding.OP_RESTORE: withRangeReg(p.opRESTORE),

		encoding.OP_RET:      withUndefined(p.opRET),
		encoding.OP_KILLTASK: withUndefined(p.opKILLTASK),
		encoding.OP_SLEEP:    withUndefined(p.opSLEEP),

		encoding.OP_SYSCPY: withTwoSources(p.opSYSCPY),
		encoding.OP_SYSSET: withTwoSources(p.opSYSSET),
	}

	for op, entry := range handlers {
		if entry.shape != encoding.ShapeOf(op) {
			panic(fmt.Sprintf("opcode %v bound to %v, expected %v", op, entry.shape, encoding.ShapeOf(op)))
		}
		p.table[op] = entry
	}
}
