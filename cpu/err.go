package cpu

import (
	"errors"

	"github.com/ezrec/pip2/encoding"
	"github.com/ezrec/pip2/translate"
)

var f = translate.From

var (
	ErrReentrant           = errors.New(f("run while already running"))
	ErrOpcodeUnimplemented = errors.New(f("unimplemented opcode"))
	ErrPoolNotInteger      = errors.New(f("pool data is not an integer"))
	ErrDivideByZero        = errors.New(f("divide by zero"))
)

// ErrDecode is raised when an unassigned opcode is fetched.
type ErrDecode struct {
	Opcode encoding.Opcode
	Pc     uint32
}

func (err *ErrDecode) Error() string {
	return f("unimplemented opcode 0x%02x at pc=0x%08x", uint8(err.Opcode), err.Pc)
}

func (err *ErrDecode) Unwrap() error {
	return ErrOpcodeUnimplemented
}

// ErrPool is raised when an immediate refers to a pool entry that is not
// an integer.
type ErrPool struct {
	Index uint32
}

func (err *ErrPool) Error() string {
	return f("pool index %d is not an integer", err.Index)
}

func (err *ErrPool) Unwrap() error {
	return ErrPoolNotInteger
}

// ErrInstruction locates a failure raised while executing an instruction.
type ErrInstruction struct {
	Pc   uint32
	Word uint32
	Err  error
}

func (err *ErrInstruction) Error() string {
	return f("pc=0x%08x %v: %v", err.Pc, encoding.Disassemble(err.Word), err.Err)
}

func (err *ErrInstruction) Unwrap() error {
	return err.Err
}
