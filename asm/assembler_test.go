package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/pip2/memory"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("STACK_SIZE", "0x100")

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))
	assert.Equal(uint32(0), prog.Size())

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("4", asm.Equate["INSTRUCTION_SIZE"])
	assert.Equal("0x100", asm.Equate["STACK_SIZE"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func TestAssemblerAlu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"add g0 g1 g2",
		"mov s0 zero",
		"addq s0 s0 -1",
		"slli g0 g0 3",
		"addi s0 s1 5",
		"subi s0 s1 -5",
		"andi s0 s1 0x40000000",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Opcode{
		{1, 0, []string{"add", "g0", "g1", "g2"}, []uint32{0x4844_4002}, "", LINK_NONE},
		{2, 4, []string{"mov", "s0", "zero"}, []uint32{0x0000_1011}, "", LINK_NONE},
		{3, 8, []string{"addq", "s0", "s0", "-1"}, []uint32{0xff10_101f}, "", LINK_NONE},
		{4, 12, []string{"slli", "g0", "g0", "3"}, []uint32{0x0340_401c}, "", LINK_NONE},
		{5, 16, []string{"addi", "s0", "s1", "5"}, []uint32{0x0014_104a, 0x8000_0005}, "", LINK_NONE},
		{6, 24, []string{"subi", "s0", "s1", "-5"}, []uint32{0x0014_1051, 0xffff_fffb}, "", LINK_NONE},
		{7, 32, []string{"andi", "s0", "s1", "0x40000000"}, []uint32{0x0014_104b, 0x0000_0000}, "", LINK_NONE},
	}

	opEqual(t, expected, prog.Opcodes)

	assert.Equal([]memory.PoolItem{memory.Integer(0x4000_0000)}, prog.Pool.Items)
	assert.Equal(uint32(40), prog.Size())
}

func TestAssemblerMemory(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"stwd sp g0 8",
		"ldbud g1 sp 0",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	expected := []Opcode{
		{1, 0, []string{"stwd", "sp", "g0", "8"}, []uint32{0x0040_0454, 0x8000_0008}, "", LINK_NONE},
		{2, 8, []string{"ldbud", "g1", "sp", "0"}, []uint32{0x0004_4458, 0x8000_0000}, "", LINK_NONE},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerBranch(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"L0: beqi s0 5 L2",
		"bneib s0 -1 L0",
		"L2: beq s0 s1 L0",
		"jpl L0",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	expected := []Opcode{
		{1, 0, []string{"beqi", "s0", "5", "L2"}, []uint32{0x000c_102c, 0x8000_0005}, "L2", LINK_IMM16},
		{2, 8, []string{"bneib", "s0", "-1", "L0"}, []uint32{0xfeff_1037}, "L0", LINK_BYTE},
		{3, 12, []string{"beq", "s0", "s1", "L0"}, []uint32{0x0014_105d, 0xffff_fff4}, "L0", LINK_INFO},
		{4, 20, []string{"jpl", "L0"}, []uint32{0xffff_ec5b}, "L0", LINK_WORD},
	}

	opEqual(t, expected, prog.Opcodes)

	assert.Equal("imm16", LINK_IMM16.String())
	assert.Equal("absolute", LINK_ABSOLUTE.String())
	assert.Equal("LinkKind(9)", LinkKind(9).String())
}

func TestAssemblerControl(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{Origin: 0x1000}
	program := []string{
		"calll FUNC",
		"ldi g0 FUNC",
		"FUNC: store s0 s3 2",
		"restore s0 s3 2",
		"ret",
		"sleep",
		"killtask",
		"jpr ra",
		"callr g0",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	expected := []Opcode{
		{1, 0, []string{"calll", "FUNC"}, []uint32{0x0000_0c5c}, "FUNC", LINK_WORD},
		{2, 4, []string{"ldi", "g0", "FUNC"}, []uint32{0x0000_405a, 0x8000_100c}, "FUNC", LINK_ABSOLUTE},
		{3, 12, []string{"store", "s0", "s3", "2"}, []uint32{0x021c_1043}, "", LINK_NONE},
		{4, 16, []string{"restore", "s0", "s3", "2"}, []uint32{0x021c_1044}, "", LINK_NONE},
		{5, 20, []string{"ret"}, []uint32{0x45}, "", LINK_NONE},
		{6, 24, []string{"sleep"}, []uint32{0x47}, "", LINK_NONE},
		{7, 28, []string{"killtask"}, []uint32{0x46}, "", LINK_NONE},
		{8, 32, []string{"jpr", "ra"}, []uint32{0x0000_0841}, "", LINK_NONE},
		{9, 36, []string{"callr", "g0"}, []uint32{0x0000_4042}, "", LINK_NONE},
	}

	opEqual(t, expected, prog.Opcodes)

	entry, ok := prog.Entry("FUNC")
	assert.True(ok)
	assert.Equal(uint32(0x100c), entry)

	_, ok = prog.Entry("NOWHERE")
	assert.False(ok)

	dbg := prog.Debug(0x1008)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(0x2000)
	assert.Nil(dbg.Opcode)

	bins := prog.Binary()
	assert.Equal(10, len(bins))
	assert.Equal(uint32(0x0000_0c5c), bins[0])
	assert.Equal(uint32(0x0000_4042), bins[9])

	for pc, word := range prog.Codes() {
		if pc == 0x100c {
			assert.Equal(uint32(0x021c_1043), word)
		}
	}
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".equ CONST_10 0x10",
		"ldq g0 CONST_10",
		"ldq g1 $(CONST_10 + CONST_10)",
		".equ CONST_30 $(2 * CONST_10 + CONST_10)",
		"ldq g2 CONST_30",
		"ldq g3 $(LINENO * 8 + 0x10)",
		"ldq g4 'A'",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(errors.Unwrap(err))
	}

	assert.Equal(5, len(prog.Opcodes))
	assert.Equal(uint32(0x0010_4040), prog.Opcodes[0].Codes[0])
	assert.Equal(uint32(0x0020_4440), prog.Opcodes[1].Codes[0])
	assert.Equal(uint32(0x0030_4840), prog.Opcodes[2].Codes[0])
	assert.Equal(uint32(0x0040_4c40), prog.Opcodes[3].Codes[0])
	assert.Equal(uint32(0x0041_5040), prog.Opcodes[4].Codes[0])
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".macro INC reg",
		"addq reg reg 1",
		".endm",
		"INC g0",
		".macro LOOP reg",
		"@top: addq reg reg -1",
		"bneib reg 0 @top",
		".endm",
		"LOOP s0",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Opcode{
		{2, 0, []string{"addq", "g0", "g0", "1"}, []uint32{0x0140_401f}, "", LINK_NONE},
		{6, 4, []string{"addq", "s0", "s0", "-1"}, []uint32{0xff10_101f}, "", LINK_NONE},
		{7, 8, []string{"bneib", "s0", "0", "LOOP_9_top"}, []uint32{0xff00_1037}, "LOOP_9_top", LINK_BYTE},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerPool(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".pool BIG int 0x12345678",
		".pool HALF float 0.5",
		`.pool MSG str "hi there"`,
		"ldi g0 BIG",
		"addi g0 g0 BIG",
		".word 0x1234 MSG_LEN",
	}
	asm.Predefine("MSG_LEN", "8")

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Opcode{
		{4, 0, []string{"ldi", "g0", "%pool:0"}, []uint32{0x0000_405a, 0x0000_0000}, "", LINK_ABSOLUTE},
		{5, 8, []string{"addi", "g0", "g0", "%pool:0"}, []uint32{0x0040_404a, 0x0000_0000}, "", LINK_NONE},
		{6, 16, []string{".word", "0x1234", "8"}, []uint32{0x1234, 8}, "", LINK_NONE},
	}

	opEqual(t, expected, prog.Opcodes)

	assert.Equal([]memory.PoolItem{
		memory.Integer(0x1234_5678),
		memory.Float(0.5),
		memory.String("hi there"),
	}, prog.Pool.Items)
	assert.Equal("%pool:2", asm.Equate["MSG"])

	value, ok := prog.Pool.ImmediateInteger(0)
	assert.True(ok)
	assert.Equal(uint32(0x1234_5678), value)
}

func TestAssemblerErrBranchRange(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"beqib s0 0 FAR",
		".word" + strings.Repeat(" 0", 128),
		"FAR: ret",
	}

	_, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	var br ErrBranchRange
	assert.True(errors.As(err, &br))
	assert.Equal("FAR", br.Label)
	assert.Equal(int64(4+128*4), br.Displacement)

	var se *ErrSyntax
	assert.True(errors.As(err, &se))
	assert.Equal(1, se.LineNo)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
	}){
		{"DUP:\nDUP:\n", 2},
		{"add g0 g1", 1},
		{"add g0 g1 g2 g3", 1},
		{"add g0 g1 r9", 1},
		{"frob g0", 1},
		{"addq g0 g0 300", 1},
		{"slli g0 g0 256", 1},
		{"ldq g0 0x10000", 1},
		{"ldq g0", 1},
		{"jpl nowhere", 1},
		{"ret\njpl nowhere", 2},
		{"beqib s0 0 2", 1},
		{"beqi s0 0 0x10000", 1},
		{"bne s0 s1", 1},
		{"addi g0 g0 $(\"aaa\")", 1},
		{"addi g0 g0 $(more(\"aaa\"))", 1},
		{"addi g0 g0 nothing", 1},
		{"ldi g0 1nope", 1},
		{".equ", 1},
		{".equ A", 1},
		{".equ A 1\n.equ A 2\n", 2},
		{".macro A B C\n.endm\nA 1\n", 3},
		{".macro A B\n.macro C\n.endm\n.endm", 2},
		{".macro A B\n.endm\n.macro A\n.endm\n", 3},
		{".macro A B\n.endm\n.endm\n", 3},
		{".macro A\nret\n", 2},
		{".pool X", 1},
		{".pool X bogus 1", 1},
		{".pool X int 1\n.pool X int 2", 2},
		{".pool X str nope", 1},
		{".pool X float nope", 1},
		{"store s0 s1 2 3", 1},
		{"store s0 s1 256", 1},
		{"ret ra", 1},
		{".word", 1},
		{".word zz", 1},
		{"jpr", 1},
		{"callr r9", 1},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
		}
	}
}
