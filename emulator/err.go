package emulator

import (
	"errors"

	"github.com/ezrec/pip2/translate"
)

var f = translate.From

var (
	ErrStackSpace = errors.New(f("no memory left for task stack"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Task   int
	Pc     uint32
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("task %d pc=0x%08x line %d %v", err.Task, err.Pc, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
