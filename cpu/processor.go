package cpu

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/ezrec/pip2/encoding"
)

const (
	INSTRUCTION_SIZE = 4 // Bytes per instruction word.

	// REG_FILE_SIZE covers every value of an 8-bit register field. Slots
	// past REG_PC are reserved.
	REG_FILE_SIZE = 64
)

// Event is the reason Run returned control to the host.
//
//go:generate go tool stringer -linecomment -type=Event
type Event int

const (
	EVENT_BUDGET = Event(0) // budget
	EVENT_STOP   = Event(1) // stop
	EVENT_SLEEP  = Event(2) // sleep
	EVENT_KILL   = Event(3) // kill
	EVENT_FAULT  = Event(4) // fault
)


// Config selects the host interfaces backing a Processor.
type Config struct {
	Memory Memory // Code and data memory.
	Pool   Pool   // Constant pool of the loaded program. May be nil.
}

// Processor is a PIP2 interpreter instance.
type Processor struct {
	Verbose bool // Set to log every executed instruction.

	Reg [REG_FILE_SIZE]uint32 // Register file, indexed by encoding.Register.

	config Config
	table  [256]opcodeEntry

	running        atomic.Bool
	shouldStop     atomic.Bool
	instructionRan int
	suspend        Event
}

// NewProcessor creates a processor and builds its opcode table.
func NewProcessor(config Config) (p *Processor) {
	p = &Processor{
		config: config,
	}
	p.buildTable()

	return
}

// Pc returns the program counter.
func (p *Processor) Pc() uint32 {
	return p.Reg[encoding.REG_PC]
}

// Reset clears the register file and sets the entry point and stack.
func (p *Processor) Reset(pc uint32, sp uint32) {
	clear(p.Reg[:])
	p.Reg[encoding.REG_PC] = pc
	p.Reg[encoding.REG_SP] = sp
	p.instructionRan = 0
}

// InstructionRan is the number of instructions completed by the last Run.
func (p *Processor) InstructionRan() int {
	return p.instructionRan
}

// Running returns true while Run is active.
func (p *Processor) Running() bool {
	return p.running.Load()
}

// Stop requests the active Run to return before its next instruction.
// Safe to call from any goroutine.
func (p *Processor) Stop() {
	p.shouldStop.Store(true)
}

// Run executes at most budget instructions.
func (p *Processor) Run(budget int) (event Event, err error) {
	if !p.running.CompareAndSwap(false, true) {
		event = EVENT_FAULT
		err = ErrReentrant
		return
	}
	defer p.running.Store(false)

	p.shouldStop.Store(false)
	p.instructionRan = 0
	p.suspend = EVENT_BUDGET

	mem := p.config.Memory

	for p.instructionRan < budget {
		if p.shouldStop.Load() {
			event = EVENT_STOP
			return
		}

		pc := p.Reg[encoding.REG_PC]

		var word uint32
		word, err = mem.ReadCode(pc)
		if err != nil {
			event = EVENT_FAULT
			err = &ErrInstruction{Pc: pc, Word: word, Err: err}
			return
		}

		entry := &p.table[word&0xff]
		if entry.shape == encoding.SHAPE_UNIMPLEMENTED {
			event = EVENT_FAULT
			err = &ErrDecode{Opcode: encoding.OpcodeOf(word), Pc: pc}
			return
		}

		if p.Verbose {
			log.Printf("%08x: %08x %v", pc, word, encoding.Disassemble(word))
		}

		p.Reg[encoding.REG_PC] = pc + INSTRUCTION_SIZE
		err = entry.exec(word)
		if err != nil {
			event = EVENT_FAULT
			err = &ErrInstruction{Pc: pc, Word: word, Err: err}
			return
		}

		p.instructionRan++

		if p.suspend != EVENT_BUDGET {
			event = p.suspend
			return
		}
	}

	event = EVENT_BUDGET
	return
}

// String returns the register file as text.
func (p *Processor) String() (text string) {
	for n := range encoding.REG_COUNT {
		reg := encoding.Register(n)
		val := p.Reg[reg]
		text += fmt.Sprintf("% 5s: %04X_%04X", reg.String(), val>>16, val&0xffff)
		if n%4 == 3 || reg == encoding.REG_PC {
			text += "\n"
		} else {
			text += " "
		}
	}

	return
}
