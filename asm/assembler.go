// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/pip2/encoding"
	"github.com/ezrec/pip2/memory"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// poolRef prefixes an equate naming a raw constant pool index.
const poolRef = "%pool:"

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":           "0",
	"INSTRUCTION_SIZE": "4",
}

var reLabel = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// Assembler is a single pass macro assembler for PIP2.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Origin  uint32   // Load address of the program.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of labels to origin offsets.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	pool memory.Pool
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if len(word) > 0 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	v64, err := strconv.ParseInt(word, 0, 34)
	if err != nil || v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)

	if invert {
		value = ^value
	}

	return
}

// signedOf returns a value that must fit in [min, max]. The unsigned
// spelling of the field is accepted as well, ie 0xff for a byte.
func (asm *Assembler) signedOf(word string, min, max int64) (value int64, err error) {
	u, err := asm.valueOf(word)
	if err != nil {
		return
	}
	value = int64(int32(u))
	if value >= min && value <= max {
		return
	}
	span := max - min + 1
	if int64(u) < span {
		value = int64(u) - span
		return
	}
	err = ErrImmediateRange
	return
}

// register parses a register name.
func (asm *Assembler) register(word string) (reg int, err error) {
	r, ok := encoding.LookupRegister(word)
	if !ok {
		err = ErrRegisterInvalid
		return
	}
	reg = int(r)
	return
}

// infoWord encodes a value as an inline info word, or as a reference
// to a new constant pool entry.
func (asm *Assembler) infoWord(value uint32) uint32 {
	if encoding.FitsImmediate(int32(value)) {
		return encoding.PackImmediate(int32(value))
	}

	return encoding.PackPoolIndex(asm.pool.Add(memory.Integer(value)))
}

// operandInfo encodes an operand word as an info word.
func (asm *Assembler) operandInfo(word string) (info uint32, err error) {
	if strings.HasPrefix(word, poolRef) {
		var index uint64
		index, err = strconv.ParseUint(word[len(poolRef):], 10, 31)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		info = encoding.PackPoolIndex(uint32(index))
		return
	}

	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	info = asm.infoWord(value)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(int32(value32)))
	}
	err = nil
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	// .pool NAME KIND VALUE
	if words[0] == ".pool" {
		err = asm.parsePool(words[1:])
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local labels are unique per expansion.
		local := fmt.Sprintf("%v_%v_", name, lineno)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, macro.LineNo+n)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// parsePool adds a constant pool literal and names its index.
func (asm *Assembler) parsePool(words []string) (err error) {
	if len(words) < 3 {
		err = ErrPoolSyntax
		return
	}

	name := words[0]
	_, ok := asm.Equate[name]
	if ok {
		err = ErrEquateDuplicate
		return
	}

	var item memory.PoolItem
	switch words[1] {
	case "int":
		if len(words) != 3 {
			err = ErrPoolSyntax
			return
		}
		var value uint32
		value, err = asm.valueOf(words[2])
		if err != nil {
			return
		}
		item = memory.Integer(value)
	case "float":
		if len(words) != 3 {
			err = ErrPoolSyntax
			return
		}
		var value float64
		value, err = strconv.ParseFloat(words[2], 32)
		if err != nil {
			err = ErrParseNumber(words[2])
			return
		}
		item = memory.Float(float32(value))
	case "str":
		var text string
		text, err = strconv.Unquote(strings.Join(words[2:], " "))
		if err != nil {
			err = ErrPoolSyntax
			return
		}
		item = memory.String(text)
	default:
		err = ErrPoolSyntax
		return
	}

	index := asm.pool.Add(item)
	asm.Equate[name] = fmt.Sprintf("%v%d", poolRef, index)

	return
}

// currentPc gets the offset of the next generated word.
func (asm *Assembler) currentPc() uint32 {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Pc + uint32(len(last.Codes)*4)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.pool = memory.Pool{}
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		all_words := strings.Split(line, " ")

		var words []string
		for _, single := range all_words {
			if len(single) > 0 {
				words = append(words, single)
			}
		}

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		target, ok := asm.Label[op.LinkLabel]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		err = asm.link(op, int64(target)-int64(op.Pc), target)
		if err != nil {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			return
		}
	}

	prog = &Program{
		Origin:  asm.Origin,
		Opcodes: slices.Clone(asm.Opcode),
		Pool:    memory.Pool{Items: slices.Clone(asm.pool.Items)},
		Labels:  maps.Clone(asm.Label),
	}

	return
}

// link patches a displacement, or absolute target, into an opcode.
func (asm *Assembler) link(op *Opcode, disp int64, target uint32) (err error) {
	bad := ErrBranchRange{Label: op.LinkLabel, Displacement: disp}

	if asm.Verbose {
		log.Printf("%v: link %v %v %+d", op.LineNo, op.Link, op.LinkLabel, disp)
	}

	switch op.Link {
	case LINK_IMM16:
		if disp < -0x8000 || disp > 0x7fff {
			return bad
		}
		op.Codes[0] = (op.Codes[0] & 0xffff) | uint32(uint16(disp))<<16
	case LINK_BYTE:
		if disp%4 != 0 || disp/4 < -0x80 || disp/4 > 0x7f {
			return bad
		}
		op.Codes[0] = (op.Codes[0] & 0x00ff_ffff) | uint32(uint8(int8(disp/4)))<<24
	case LINK_WORD:
		if disp < encoding.WORD_MIN || disp > encoding.WORD_MAX {
			return bad
		}
		op.Codes[0] = uint32(encoding.MakeWord(encoding.OpcodeOf(op.Codes[0]), int32(disp)))
	case LINK_INFO:
		op.Codes[1] = asm.infoWord(uint32(int32(disp)))
	case LINK_ABSOLUTE:
		op.Codes[1] = asm.infoWord(asm.Origin + target)
	}

	return
}

// target parses a branch or jump target. Numbers are displacements and
// are patched immediately; anything else is a label linked later.
func (asm *Assembler) target(op *Opcode, word string, kind LinkKind) (err error) {
	op.Link = kind

	value, err := asm.valueOf(word)
	if err == nil {
		if kind == LINK_ABSOLUTE {
			op.Codes[1] = asm.infoWord(value)
			return
		}
		return asm.link(op, int64(int32(value)), 0)
	}

	if strings.HasPrefix(word, poolRef) && kind == LINK_ABSOLUTE {
		op.Codes[1], err = asm.operandInfo(word)
		return
	}

	if !reLabel.MatchString(word) {
		return
	}

	err = nil
	op.LinkLabel = word
	return
}

// args checks the operand count.
func args(words []string, count int) (err error) {
	switch {
	case len(words) < count:
		err = ErrOpcodeMissing
	case len(words) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op := &Opcode{LineNo: lineno, Pc: asm.currentPc(), Words: words}

	defer func() {
		if err != nil || len(op.Codes) == 0 {
			return
		}
		asm.Opcode = append(asm.Opcode, *op)
	}()

	if words[0] == ".word" {
		if len(words) < 2 {
			err = ErrOpcodeMissing
			return
		}
		for _, word := range words[1:] {
			var value uint32
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			op.Codes = append(op.Codes, value)
		}
		return
	}

	code, ok := encoding.Lookup(words[0])
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	operands := words[1:]
	regs := func(count int) (list []int, err error) {
		for _, word := range operands[:count] {
			var reg int
			reg, err = asm.register(word)
			if err != nil {
				return
			}
			list = append(list, reg)
		}
		return
	}

	var r []int

	switch {
	case code == encoding.OP_NOT || code == encoding.OP_NEG || code == encoding.OP_EXSB ||
		code == encoding.OP_EXSH || code == encoding.OP_MOV || code == encoding.OP_MOVB ||
		code == encoding.OP_MOVH:
		// op d s
		if err = args(operands, 2); err != nil {
			return
		}
		if r, err = regs(2); err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeTwoSources(code, r[0], r[1], 0))}

	case code == encoding.OP_SLLI || code == encoding.OP_SRAI || code == encoding.OP_SRLI ||
		code == encoding.OP_ADDBI || code == encoding.OP_ANDBI || code == encoding.OP_ORBI ||
		code == encoding.OP_ADDQ || code == encoding.OP_MULQ:
		// op d s imm8
		if err = args(operands, 3); err != nil {
			return
		}
		if r, err = regs(2); err != nil {
			return
		}
		var imm int64
		if code == encoding.OP_ADDQ || code == encoding.OP_MULQ {
			imm, err = asm.signedOf(operands[2], -0x80, 0x7f)
		} else {
			var u uint32
			u, err = asm.valueOf(operands[2])
			if err == nil && u > 0xff {
				err = ErrImmediateRange
			}
			imm = int64(u)
		}
		if err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeTwoSourcesImm8(code, r[0], r[1], uint8(imm)))}

	case code == encoding.OP_ADDHI || code == encoding.OP_ANDHI ||
		(code >= encoding.OP_ADDI && code <= encoding.OP_SUBI) ||
		(code >= encoding.OP_STBD && code <= encoding.OP_LDHUD):
		// op d s imm
		if err = args(operands, 3); err != nil {
			return
		}
		if r, err = regs(2); err != nil {
			return
		}
		var info uint32
		if info, err = asm.operandInfo(operands[2]); err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeTwoSources(code, r[0], r[1], 0)), info}

	case code >= encoding.OP_BEQI && code <= encoding.OP_BLTUI:
		// op d imm target
		if err = args(operands, 3); err != nil {
			return
		}
		if r, err = regs(1); err != nil {
			return
		}
		var info uint32
		if info, err = asm.operandInfo(operands[1]); err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeTwoSources(code, r[0], 0, 0)), info}
		err = asm.target(op, operands[2], LINK_IMM16)

	case code >= encoding.OP_BEQIB && code <= encoding.OP_BLTUIB:
		// op d imm8 target
		if err = args(operands, 3); err != nil {
			return
		}
		if r, err = regs(1); err != nil {
			return
		}
		var imm int64
		if code == encoding.OP_BGTUIB || code == encoding.OP_BLEUIB || code == encoding.OP_BLTUIB {
			var u uint32
			u, err = asm.valueOf(operands[1])
			if err == nil && u > 0xff {
				err = ErrImmediateRange
			}
			imm = int64(u)
		} else {
			imm, err = asm.signedOf(operands[1], -0x80, 0x7f)
		}
		if err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeTwoSourcesImm8x2(code, r[0], uint8(imm), 0))}
		err = asm.target(op, operands[2], LINK_BYTE)

	case code >= encoding.OP_BEQ && code <= encoding.OP_BLTU:
		// op d s target
		if err = args(operands, 3); err != nil {
			return
		}
		if r, err = regs(2); err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeTwoSources(code, r[0], r[1], 0)), 0}
		err = asm.target(op, operands[2], LINK_INFO)

	case code == encoding.OP_LDQ:
		if err = args(operands, 2); err != nil {
			return
		}
		if r, err = regs(1); err != nil {
			return
		}
		var imm int64
		if imm, err = asm.signedOf(operands[1], -0x8000, 0x7fff); err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeDestOnly(code, r[0], int16(imm)))}

	case code == encoding.OP_LDI:
		if err = args(operands, 2); err != nil {
			return
		}
		if r, err = regs(1); err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeDestOnly(code, r[0], 0)), 0}
		err = asm.target(op, operands[1], LINK_ABSOLUTE)

	case code == encoding.OP_JPR || code == encoding.OP_CALLR:
		if err = args(operands, 1); err != nil {
			return
		}
		if r, err = regs(1); err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeDestOnly(code, r[0], 0))}

	case code == encoding.OP_JPL || code == encoding.OP_CALLL:
		if err = args(operands, 1); err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeWord(code, 0))}
		err = asm.target(op, operands[0], LINK_WORD)

	case code == encoding.OP_STORE || code == encoding.OP_RESTORE:
		// op start end [extra]
		if len(operands) == 2 {
			operands = append(slices.Clone(operands), "0")
		}
		if err = args(operands, 3); err != nil {
			return
		}
		if r, err = regs(2); err != nil {
			return
		}
		var extra uint32
		extra, err = asm.valueOf(operands[2])
		if err == nil && extra > 0xff {
			err = ErrImmediateRange
		}
		if err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeRangeReg(code, r[0], r[1], uint8(extra)))}

	case encoding.ShapeOf(code) == encoding.SHAPE_UNDEFINED:
		if err = args(operands, 0); err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeUndefined(code))}

	default:
		// op d s t
		if err = args(operands, 3); err != nil {
			return
		}
		if r, err = regs(3); err != nil {
			return
		}
		op.Codes = []uint32{uint32(encoding.MakeTwoSources(code, r[0], r[1], r[2]))}
	}

	return
}
