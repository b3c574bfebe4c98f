// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"slices"
	"time"

	"github.com/ezrec/pip2/asm"
	"github.com/ezrec/pip2/cpu"
	"github.com/ezrec/pip2/internal"
	"github.com/ezrec/pip2/memory"
)

const (
	ORIGIN              = 0x1000  // Load address of programs.
	DEFAULT_MEMORY_SIZE = 0x10000 // Bytes of memory above ORIGIN.
	DEFAULT_STACK_SIZE  = 0x400   // Bytes of stack per task.
	DEFAULT_BUDGET      = 1000    // Instructions per task per tick.
)

var (
	_ cpu.Memory = (*memory.Memory)(nil)
	_ cpu.Pool   = (*memory.Pool)(nil)
)

var _emulator_defines = map[string]string{
	"ORIGIN": fmt.Sprintf("%#x", ORIGIN),
}

// Task is a virtual thread of execution with its own processor and
// stack window.
type Task struct {
	*cpu.Processor

	Id    int    // Spawn order.
	Entry uint32 // Initial program counter.
	Stack uint32 // Initial stack pointer.
	Done  bool   // Set once the task is killed or faults.
	Ran   int    // Total instructions executed.
}

// Emulator state. Memory, the loaded program, and its tasks.
type Emulator struct {
	Verbose   bool           // If set, enables verbose logging.
	Budget    int            // Instructions per task per tick.
	StackSize uint32         // Bytes of stack reserved per task.
	Memory    *memory.Memory // Shared memory of all tasks.
	Program   *asm.Program   // Reference to the loaded program listing.

	tasks []*Task
}

// NewEmulator creates a new emulator with size bytes of memory at ORIGIN.
func NewEmulator(size uint32) (emu *Emulator) {
	if size == 0 {
		size = DEFAULT_MEMORY_SIZE
	}

	emu = &Emulator{
		Budget:    DEFAULT_BUDGET,
		StackSize: DEFAULT_STACK_SIZE,
		Memory:    memory.NewMemory(ORIGIN, size),
		Program:   &asm.Program{Origin: ORIGIN},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	layout := map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("%#x", len(emu.Memory.Data)),
		"MEMORY_END":  fmt.Sprintf("%#x", emu.Memory.End()),
		"STACK_SIZE":  fmt.Sprintf("%#x", emu.StackSize),
	}

	return internal.Defines(_emulator_defines, layout)
}

// Assemble parses a program laid out for this emulator.
func (emu *Emulator) Assemble(input io.Reader) (prog *asm.Program, err error) {
	assembler := &asm.Assembler{
		Verbose: emu.Verbose,
		Origin:  emu.Memory.Base,
	}
	for key, value := range emu.Defines() {
		assembler.Predefine(key, value)
	}

	prog, err = assembler.Parse(input)
	return
}

// Load copies a program into memory and retires all tasks.
func (emu *Emulator) Load(prog *asm.Program) (err error) {
	clear(emu.Memory.Data)
	emu.tasks = nil

	err = emu.Memory.Load(prog.Origin, prog.Binary())
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// Spawn creates a task starting at entry. Task stacks are carved from
// the top of memory downwards.
func (emu *Emulator) Spawn(entry uint32) (task *Task, err error) {
	top := emu.Memory.End() - uint32(len(emu.tasks))*emu.StackSize
	bottom := top - emu.StackSize
	limit := emu.Program.Origin + emu.Program.Size()
	if top > emu.Memory.End() || bottom > top || bottom < limit {
		err = ErrStackSpace
		return
	}

	task = &Task{
		Processor: cpu.NewProcessor(cpu.Config{
			Memory: emu.Memory,
			Pool:   &emu.Program.Pool,
		}),
		Id:    len(emu.tasks),
		Entry: entry,
		Stack: top,
	}
	task.Reset(entry, top)

	emu.tasks = append(emu.tasks, task)

	if emu.Verbose {
		log.Printf("task %d: spawn pc=0x%08x sp=0x%08x", task.Id, entry, top)
	}

	return
}

// Tasks returns all spawned tasks, including retired ones.
func (emu *Emulator) Tasks() []*Task {
	return slices.Clone(emu.tasks)
}

// LineNo returns the source line number for an address.
func (emu *Emulator) LineNo(pc uint32) int {
	dbg := emu.Program.Debug(pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// faultPc is the address of the instruction that raised err.
func faultPc(err error, pc uint32) uint32 {
	var ed *cpu.ErrDecode
	if errors.As(err, &ed) {
		return ed.Pc
	}

	var ei *cpu.ErrInstruction
	if errors.As(err, &ei) {
		return ei.Pc
	}

	return pc
}

// Tick gives every live task one slice of at most Budget instructions.
// A sleeping task yields the rest of its slice, and a killed task is
// retired.
func (emu *Emulator) Tick() (done bool, err error) {
	budget := emu.Budget
	if budget <= 0 {
		budget = DEFAULT_BUDGET
	}

	emu.Memory.Verbose = emu.Verbose

	live := 0
	for _, task := range emu.tasks {
		if task.Done {
			continue
		}

		task.Processor.Verbose = emu.Verbose

		var event cpu.Event
		event, err = task.Run(budget)
		task.Ran += task.InstructionRan()

		if emu.Verbose {
			log.Printf("task %d: %v after %d at pc=0x%08x", task.Id, event, task.InstructionRan(), task.Pc())
		}

		if err != nil {
			task.Done = true
			pc := faultPc(err, task.Pc())
			err = &ErrRuntime{Task: task.Id, Pc: pc, LineNo: emu.LineNo(pc), Err: err}
			return
		}

		switch event {
		case cpu.EVENT_STOP:
			return
		case cpu.EVENT_KILL:
			task.Done = true
		default:
			live++
		}
	}

	done = live == 0

	return
}

// Run ticks until every task is retired, a task faults, or the context
// is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	tasks := slices.Clone(emu.tasks)

	// A stop that races the start of a slice is discarded by the
	// processor, so repeat it until Run returns.
	halted := make(chan struct{})
	defer close(halted)

	stop := context.AfterFunc(ctx, func() {
		for {
			for _, task := range tasks {
				task.Stop()
			}
			select {
			case <-halted:
				return
			case <-time.After(time.Millisecond):
			}
		}
	})
	defer stop()

	for {
		err = ctx.Err()
		if err != nil {
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}

// Instructions returns the total instructions executed by all tasks.
func (emu *Emulator) Instructions() (total int) {
	for _, task := range emu.tasks {
		total += task.Ran
	}

	return
}
