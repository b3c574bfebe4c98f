// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package encoding

import (
	"fmt"
)

// Opcode is the 8-bit instruction selector, taken from the low byte of
// an instruction word.
type Opcode uint8

const (
	OP_ADD      = Opcode(0x02) // add
	OP_AND      = Opcode(0x03) // and
	OP_MUL      = Opcode(0x04) // mul
	OP_DIV      = Opcode(0x05) // div
	OP_DIVU     = Opcode(0x06) // divu
	OP_OR       = Opcode(0x07) // or
	OP_XOR      = Opcode(0x08) // xor
	OP_SUB      = Opcode(0x09) // sub
	OP_SLL      = Opcode(0x0a) // sll
	OP_SRA      = Opcode(0x0b) // sra
	OP_SRL      = Opcode(0x0c) // srl
	OP_NOT      = Opcode(0x0d) // not
	OP_NEG      = Opcode(0x0e) // neg
	OP_EXSB     = Opcode(0x0f) // exsb
	OP_EXSH     = Opcode(0x10) // exsh
	OP_MOV      = Opcode(0x11) // mov
	OP_ADDB     = Opcode(0x12) // addb
	OP_SUBB     = Opcode(0x13) // subb
	OP_ANDB     = Opcode(0x14) // andb
	OP_ORB      = Opcode(0x15) // orb
	OP_MOVB     = Opcode(0x16) // movb
	OP_ADDH     = Opcode(0x17) // addh
	OP_SUBH     = Opcode(0x18) // subh
	OP_ANDH     = Opcode(0x19) // andh
	OP_ORH      = Opcode(0x1a) // orh
	OP_MOVH     = Opcode(0x1b) // movh
	OP_SLLI     = Opcode(0x1c) // slli
	OP_SRAI     = Opcode(0x1d) // srai
	OP_SRLI     = Opcode(0x1e) // srli
	OP_ADDQ     = Opcode(0x1f) // addq
	OP_MULQ     = Opcode(0x20) // mulq
	OP_ADDBI    = Opcode(0x21) // addbi
	OP_ANDBI    = Opcode(0x22) // andbi
	OP_ORBI     = Opcode(0x23) // orbi
	OP_SLLB     = Opcode(0x24) // sllb
	OP_SRLB     = Opcode(0x25) // srlb
	OP_SRAB     = Opcode(0x26) // srab
	OP_ADDHI    = Opcode(0x27) // addhi
	OP_ANDHI    = Opcode(0x28) // andhi
	OP_SLLH     = Opcode(0x29) // sllh
	OP_SRLH     = Opcode(0x2a) // srlh
	OP_SRAH     = Opcode(0x2b) // srah
	OP_BEQI     = Opcode(0x2c) // beqi
	OP_BNEI     = Opcode(0x2d) // bnei
	OP_BGEI     = Opcode(0x2e) // bgei
	OP_BGTI     = Opcode(0x30) // bgti
	OP_BGTUI    = Opcode(0x31) // bgtui
	OP_BLEI     = Opcode(0x32) // blei
	OP_BLEUI    = Opcode(0x33) // bleui
	OP_BLTI     = Opcode(0x34) // blti
	OP_BLTUI    = Opcode(0x35) // bltui
	OP_BEQIB    = Opcode(0x36) // beqib
	OP_BNEIB    = Opcode(0x37) // bneib
	OP_BGEIB    = Opcode(0x38) // bgeib
	OP_BGTIB    = Opcode(0x3a) // bgtib
	OP_BGTUIB   = Opcode(0x3b) // bgtuib
	OP_BLEIB    = Opcode(0x3c) // bleib
	OP_BLEUIB   = Opcode(0x3d) // bleuib
	OP_BLTIB    = Opcode(0x3e) // bltib
	OP_BLTUIB   = Opcode(0x3f) // bltuib
	OP_LDQ      = Opcode(0x40) // ldq
	OP_JPR      = Opcode(0x41) // jpr
	OP_CALLR    = Opcode(0x42) // callr
	OP_STORE    = Opcode(0x43) // store
	OP_RESTORE  = Opcode(0x44) // restore
	OP_RET      = Opcode(0x45) // ret
	OP_KILLTASK = Opcode(0x46) // killtask
	OP_SLEEP    = Opcode(0x47) // sleep
	OP_SYSCPY   = Opcode(0x48) // syscpy
	OP_SYSSET   = Opcode(0x49) // sysset
	OP_ADDI     = Opcode(0x4a) // addi
	OP_ANDI     = Opcode(0x4b) // andi
	OP_MULI     = Opcode(0x4c) // muli
	OP_DIVI     = Opcode(0x4d) // divi
	OP_DIVUI    = Opcode(0x4e) // divui
	OP_ORI      = Opcode(0x4f) // ori
	OP_XORI     = Opcode(0x50) // xori
	OP_SUBI     = Opcode(0x51) // subi
	OP_STBD     = Opcode(0x52) // stbd
	OP_STHD     = Opcode(0x53) // sthd
	OP_STWD     = Opcode(0x54) // stwd
	OP_LDBD     = Opcode(0x55) // ldbd
	OP_LDHD     = Opcode(0x56) // ldhd
	OP_LDWD     = Opcode(0x57) // ldwd
	OP_LDBUD    = Opcode(0x58) // ldbud
	OP_LDHUD    = Opcode(0x59) // ldhud
	OP_LDI      = Opcode(0x5a) // ldi
	OP_JPL      = Opcode(0x5b) // jpl
	OP_CALLL    = Opcode(0x5c) // calll
	OP_BEQ      = Opcode(0x5d) // beq
	OP_BNE      = Opcode(0x5e) // bne
	OP_BGE      = Opcode(0x5f) // bge
	OP_BGEU     = Opcode(0x60) // bgeu
	OP_BGT      = Opcode(0x61) // bgt
	OP_BGTU     = Opcode(0x62) // bgtu
	OP_BLE      = Opcode(0x63) // ble
	OP_BLEU     = Opcode(0x64) // bleu
	OP_BLT      = Opcode(0x65) // blt
	OP_BLTU     = Opcode(0x66) // bltu
)

// opcodeInfo is the construction-time identity of an assigned opcode.
type opcodeInfo struct {
	name  string
	shape Shape
}

// opcodeTable maps every assigned opcode to its mnemonic and encoding shape.
// Opcodes absent from this map are unimplemented.
var opcodeTable = map[Opcode]opcodeInfo{
	OP_ADD:  {"add", SHAPE_TWO_SOURCES},
	OP_AND:  {"and", SHAPE_TWO_SOURCES},
	OP_MUL:  {"mul", SHAPE_TWO_SOURCES},
	OP_DIV:  {"div", SHAPE_TWO_SOURCES},
	OP_DIVU: {"divu", SHAPE_TWO_SOURCES},
	OP_OR:   {"or", SHAPE_TWO_SOURCES},
	OP_XOR:  {"xor", SHAPE_TWO_SOURCES},
	OP_SUB:  {"sub", SHAPE_TWO_SOURCES},
	OP_SLL:  {"sll", SHAPE_TWO_SOURCES},
	OP_SRA:  {"sra", SHAPE_TWO_SOURCES},
	OP_SRL:  {"srl", SHAPE_TWO_SOURCES},
	OP_NOT:  {"not", SHAPE_TWO_SOURCES},
	OP_NEG:  {"neg", SHAPE_TWO_SOURCES},
	OP_EXSB: {"exsb", SHAPE_TWO_SOURCES},
	OP_EXSH: {"exsh", SHAPE_TWO_SOURCES},
	OP_MOV:  {"mov", SHAPE_TWO_SOURCES},
	OP_ADDB: {"addb", SHAPE_TWO_SOURCES},
	OP_SUBB: {"subb", SHAPE_TWO_SOURCES},
	OP_ANDB: {"andb", SHAPE_TWO_SOURCES},
	OP_ORB:  {"orb", SHAPE_TWO_SOURCES},
	OP_MOVB: {"movb", SHAPE_TWO_SOURCES},
	OP_ADDH: {"addh", SHAPE_TWO_SOURCES},
	OP_SUBH: {"subh", SHAPE_TWO_SOURCES},
	OP_ANDH: {"andh", SHAPE_TWO_SOURCES},
	OP_ORH:  {"orh", SHAPE_TWO_SOURCES},
	OP_MOVH: {"movh", SHAPE_TWO_SOURCES},
	OP_SLLI: {"slli", SHAPE_TWO_SOURCES},
	OP_SRAI: {"srai", SHAPE_TWO_SOURCES},
	OP_SRLI: {"srli", SHAPE_TWO_SOURCES},
	OP_ADDQ: {"addq", SHAPE_TWO_SOURCES},
	OP_MULQ: {"mulq", SHAPE_TWO_SOURCES},

	OP_ADDBI: {"addbi", SHAPE_TWO_SOURCES},
	OP_ANDBI: {"andbi", SHAPE_TWO_SOURCES},
	OP_ORBI:  {"orbi", SHAPE_TWO_SOURCES},
	OP_SLLB:  {"sllb", SHAPE_TWO_SOURCES},
	OP_SRLB:  {"srlb", SHAPE_TWO_SOURCES},
	OP_SRAB:  {"srab", SHAPE_TWO_SOURCES},
	OP_ADDHI: {"addhi", SHAPE_TWO_SOURCES},
	OP_ANDHI: {"andhi", SHAPE_TWO_SOURCES},
	OP_SLLH:  {"sllh", SHAPE_TWO_SOURCES},
	OP_SRLH:  {"srlh", SHAPE_TWO_SOURCES},
	OP_SRAH:  {"srah", SHAPE_TWO_SOURCES},

	OP_BEQI:  {"beqi", SHAPE_TWO_SOURCES},
	OP_BNEI:  {"bnei", SHAPE_TWO_SOURCES},
	OP_BGEI:  {"bgei", SHAPE_TWO_SOURCES},
	OP_BGTI:  {"bgti", SHAPE_TWO_SOURCES},
	OP_BGTUI: {"bgtui", SHAPE_TWO_SOURCES},
	OP_BLEI:  {"blei", SHAPE_TWO_SOURCES},
	OP_BLEUI: {"bleui", SHAPE_TWO_SOURCES},
	OP_BLTI:  {"blti", SHAPE_TWO_SOURCES},
	OP_BLTUI: {"bltui", SHAPE_TWO_SOURCES},

	OP_BEQIB:  {"beqib", SHAPE_TWO_SOURCES},
	OP_BNEIB:  {"bneib", SHAPE_TWO_SOURCES},
	OP_BGEIB:  {"bgeib", SHAPE_TWO_SOURCES},
	OP_BGTIB:  {"bgtib", SHAPE_TWO_SOURCES},
	OP_BGTUIB: {"bgtuib", SHAPE_TWO_SOURCES},
	OP_BLEIB:  {"bleib", SHAPE_TWO_SOURCES},
	OP_BLEUIB: {"bleuib", SHAPE_TWO_SOURCES},
	OP_BLTIB:  {"bltib", SHAPE_TWO_SOURCES},
	OP_BLTUIB: {"bltuib", SHAPE_TWO_SOURCES},

	OP_LDQ:      {"ldq", SHAPE_DEST_ONLY},
	OP_JPR:      {"jpr", SHAPE_DEST_ONLY},
	OP_CALLR:    {"callr", SHAPE_DEST_ONLY},
	OP_STORE:    {"store", SHAPE_RANGE_REG},
	OP_RESTORE:  {"restore", SHAPE_RANGE_REG},
	OP_RET:      {"ret", SHAPE_UNDEFINED},
	OP_KILLTASK: {"killtask", SHAPE_UNDEFINED},
	OP_SLEEP:    {"sleep", SHAPE_UNDEFINED},
	OP_SYSCPY:   {"syscpy", SHAPE_TWO_SOURCES},
	OP_SYSSET:   {"sysset", SHAPE_TWO_SOURCES},

	OP_ADDI:  {"addi", SHAPE_TWO_SOURCES},
	OP_ANDI:  {"andi", SHAPE_TWO_SOURCES},
	OP_MULI:  {"muli", SHAPE_TWO_SOURCES},
	OP_DIVI:  {"divi", SHAPE_TWO_SOURCES},
	OP_DIVUI: {"divui", SHAPE_TWO_SOURCES},
	OP_ORI:   {"ori", SHAPE_TWO_SOURCES},
	OP_XORI:  {"xori", SHAPE_TWO_SOURCES},
	OP_SUBI:  {"subi", SHAPE_TWO_SOURCES},

	OP_STBD:  {"stbd", SHAPE_TWO_SOURCES},
	OP_STHD:  {"sthd", SHAPE_TWO_SOURCES},
	OP_STWD:  {"stwd", SHAPE_TWO_SOURCES},
	OP_LDBD:  {"ldbd", SHAPE_TWO_SOURCES},
	OP_LDHD:  {"ldhd", SHAPE_TWO_SOURCES},
	OP_LDWD:  {"ldwd", SHAPE_TWO_SOURCES},
	OP_LDBUD: {"ldbud", SHAPE_TWO_SOURCES},
	OP_LDHUD: {"ldhud", SHAPE_TWO_SOURCES},

	OP_LDI:   {"ldi", SHAPE_DEST_ONLY},
	OP_JPL:   {"jpl", SHAPE_WORD},
	OP_CALLL: {"calll", SHAPE_WORD},

	OP_BEQ:  {"beq", SHAPE_TWO_SOURCES},
	OP_BNE:  {"bne", SHAPE_TWO_SOURCES},
	OP_BGE:  {"bge", SHAPE_TWO_SOURCES},
	OP_BGEU: {"bgeu", SHAPE_TWO_SOURCES},
	OP_BGT:  {"bgt", SHAPE_TWO_SOURCES},
	OP_BGTU: {"bgtu", SHAPE_TWO_SOURCES},
	OP_BLE:  {"ble", SHAPE_TWO_SOURCES},
	OP_BLEU: {"bleu", SHAPE_TWO_SOURCES},
	OP_BLT:  {"blt", SHAPE_TWO_SOURCES},
	OP_BLTU: {"bltu", SHAPE_TWO_SOURCES},
}

var opcodeByName = func() map[string]Opcode {
	names := make(map[string]Opcode, len(opcodeTable))
	for op, info := range opcodeTable {
		names[info.name] = op
	}
	return names
}()

// Implemented returns true if the opcode has an assigned handler.
func (op Opcode) Implemented() bool {
	_, ok := opcodeTable[op]
	return ok
}

// String returns the opcode mnemonic, or a hex placeholder for
// unimplemented opcodes.
func (op Opcode) String() string {
	info, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf("op_%02x", uint8(op))
	}
	return info.name
}

// Lookup finds the opcode for a mnemonic.
func Lookup(name string) (op Opcode, ok bool) {
	op, ok = opcodeByName[name]
	return
}

// ShapeOf returns the encoding shape an opcode is decoded with.
// Unassigned opcodes return SHAPE_UNIMPLEMENTED.
func ShapeOf(op Opcode) Shape {
	info, ok := opcodeTable[op]
	if !ok {
		return SHAPE_UNIMPLEMENTED
	}
	return info.shape
}

// OpcodeOf extracts the opcode from an instruction word.
func OpcodeOf(word uint32) Opcode {
	return Opcode(word & 0xff)
}
