package cpu

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/pip2/asm"
	"github.com/ezrec/pip2/encoding"
	"github.com/ezrec/pip2/memory"
)

const (
	testOrigin = 0x1000
	testSize   = 0x1000
)

// assemble loads a program at testOrigin, with the stack at the top of
// memory.
func assemble(t *testing.T, program ...string) (p *Processor, mem *memory.Memory) {
	t.Helper()

	a := &asm.Assembler{Origin: testOrigin}
	prog, err := a.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	mem = memory.NewMemory(testOrigin, testSize)
	err = mem.Load(testOrigin, prog.Binary())
	if err != nil {
		t.Fatal(err)
	}

	p = NewProcessor(Config{Memory: mem, Pool: &prog.Pool})
	p.Reset(testOrigin, testOrigin+testSize)

	return
}

func TestProcessorTable(t *testing.T) {
	assert := assert.New(t)

	p := NewProcessor(Config{})
	for op := range 256 {
		code := encoding.Opcode(op)
		assert.Equal(encoding.ShapeOf(code), p.Shape(code), code.String())
	}
}

func TestProcessorReset(t *testing.T) {
	assert := assert.New(t)

	p := NewProcessor(Config{})
	p.Reg[encoding.REG_G0] = 123
	p.Reset(0x1000, 0x2000)

	assert.Equal(uint32(0x1000), p.Pc())
	assert.Equal(uint32(0x2000), p.Reg[encoding.REG_SP])
	assert.Equal(uint32(0), p.Reg[encoding.REG_G0])
	assert.Equal(0, p.InstructionRan())
	assert.False(p.Running())

	text := p.String()
	assert.Contains(text, "pc: 0000_1000")
	assert.Contains(text, "sp: 0000_2000")
	assert.Equal(9, strings.Count(text, "\n"))
}

func TestEventString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("budget", EVENT_BUDGET.String())
	assert.Equal("sleep", EVENT_SLEEP.String())
	assert.Equal("kill", EVENT_KILL.String())
	assert.Equal("fault", EVENT_FAULT.String())
	assert.Equal("Event(9)", Event(9).String())
}

func TestFetchImmediate(t *testing.T) {
	assert := assert.New(t)

	mem := memory.NewMemory(testOrigin, testSize)
	err := mem.Load(testOrigin, []uint32{0x8000_0001, 0xffff_ffff, 3, 4, 9})
	assert.NoError(err)

	pool := &memory.Pool{Items: []memory.PoolItem{
		memory.Integer(0),
		memory.Integer(1),
		memory.Integer(2),
		memory.Integer(42),
		memory.String("nope"),
	}}

	p := NewProcessor(Config{Memory: mem, Pool: pool})
	p.Reset(testOrigin, 0)

	value, err := p.fetchImmediate()
	assert.NoError(err)
	assert.Equal(uint32(1), value)

	value, err = p.fetchImmediate()
	assert.NoError(err)
	assert.Equal(uint32(0xffff_ffff), value)

	value, err = p.fetchImmediate()
	assert.NoError(err)
	assert.Equal(uint32(42), value)

	_, err = p.fetchImmediate()
	assert.True(errors.Is(err, ErrPoolNotInteger))
	var ep *ErrPool
	assert.True(errors.As(err, &ep))
	assert.Equal(uint32(4), ep.Index)

	_, err = p.fetchImmediate()
	assert.True(errors.Is(err, ErrPoolNotInteger))

	assert.Equal(uint32(testOrigin+20), p.Pc())

	// No pool at all.
	p = NewProcessor(Config{Memory: mem})
	p.Reset(testOrigin+8, 0)
	_, err = p.fetchImmediate()
	assert.True(errors.Is(err, ErrPoolNotInteger))
	assert.Equal(uint32(testOrigin+12), p.Pc())
}

func TestRunBudget(t *testing.T) {
	assert := assert.New(t)

	var program []string
	for range 10 {
		program = append(program, "addq g0 g0 1")
	}

	p, _ := assemble(t, program...)

	event, err := p.Run(10)
	assert.NoError(err)
	assert.Equal(EVENT_BUDGET, event)
	assert.Equal(10, p.InstructionRan())
	assert.Equal(uint32(testOrigin+40), p.Pc())
	assert.Equal(uint32(10), p.Reg[encoding.REG_G0])

	p.Reset(testOrigin, 0)
	event, err = p.Run(3)
	assert.NoError(err)
	assert.Equal(EVENT_BUDGET, event)
	assert.Equal(3, p.InstructionRan())
	assert.Equal(uint32(testOrigin+12), p.Pc())

	// A zero budget runs nothing.
	event, err = p.Run(0)
	assert.NoError(err)
	assert.Equal(EVENT_BUDGET, event)
	assert.Equal(0, p.InstructionRan())
	assert.Equal(uint32(testOrigin+12), p.Pc())
}

func TestRunDecode(t *testing.T) {
	assert := assert.New(t)

	table := []string{".word 0", ".word 0x2f", ".word 0x39", ".word 0x67", ".word 0xff"}

	for _, line := range table {
		p, _ := assemble(t, line)

		event, err := p.Run(5)
		assert.Equal(EVENT_FAULT, event, line)
		assert.True(errors.Is(err, ErrOpcodeUnimplemented), line)

		var ed *ErrDecode
		assert.True(errors.As(err, &ed), line)
		if ed != nil {
			assert.Equal(uint32(testOrigin), ed.Pc, line)
		}
		assert.Equal(0, p.InstructionRan(), line)
		assert.Equal(uint32(testOrigin), p.Pc(), line)
	}

	// Decode failure after some progress.
	p, _ := assemble(t, "addq g0 g0 1", "addq g0 g0 1", ".word 0x2f")
	event, err := p.Run(5)
	assert.Equal(EVENT_FAULT, event)
	assert.True(errors.Is(err, ErrOpcodeUnimplemented))
	assert.Equal(2, p.InstructionRan())
	assert.Equal(uint32(testOrigin+8), p.Pc())
}

func TestRunFetchFault(t *testing.T) {
	assert := assert.New(t)

	p, _ := assemble(t, "ldq g0 0", "jpr g0")

	event, err := p.Run(5)
	assert.Equal(EVENT_FAULT, event)
	assert.True(errors.Is(err, memory.ErrOutOfRange))
	assert.Equal(2, p.InstructionRan())
	assert.Equal(uint32(0), p.Pc())
}

func TestRunStop(t *testing.T) {
	assert := assert.New(t)

	p, _ := assemble(t, "LOOP: jpl LOOP")

	type result struct {
		event Event
		err   error
	}

	done := make(chan result)
	go func() {
		event, err := p.Run(math.MaxInt)
		done <- result{event, err}
	}()

	timeout := time.After(10 * time.Second)
	for {
		select {
		case res := <-done:
			assert.NoError(res.err)
			assert.Equal(EVENT_STOP, res.event)
			assert.Equal(uint32(testOrigin), p.Pc())
			assert.False(p.Running())
			return
		case <-timeout:
			t.Fatal("processor did not stop")
		case <-time.After(time.Millisecond):
			p.Stop()
		}
	}
}

// reentrantMemory calls back into the processor on the first fetch.
type reentrantMemory struct {
	*memory.Memory
	p     *Processor
	err   error
	event Event
}

func (mem *reentrantMemory) ReadCode(addr uint32) (uint32, error) {
	if mem.p != nil {
		p := mem.p
		mem.p = nil
		mem.event, mem.err = p.Run(1)
	}
	return mem.Memory.ReadCode(addr)
}

func TestRunReentrant(t *testing.T) {
	assert := assert.New(t)

	_, loaded := assemble(t, "ldq g0 5", "sleep")

	mem := &reentrantMemory{Memory: loaded}
	p := NewProcessor(Config{Memory: mem})
	p.Reset(testOrigin, testOrigin+testSize)
	mem.p = p

	event, err := p.Run(10)
	assert.NoError(err)
	assert.Equal(EVENT_SLEEP, event)
	assert.Equal(2, p.InstructionRan())
	assert.Equal(uint32(5), p.Reg[encoding.REG_G0])

	assert.True(errors.Is(mem.err, ErrReentrant))
	assert.Equal(EVENT_FAULT, mem.event)
	assert.False(p.Running())
}

func TestRunEvents(t *testing.T) {
	assert := assert.New(t)

	p, _ := assemble(t, "sleep", "addq g0 g0 1", "killtask", "addq g0 g0 1")

	event, err := p.Run(10)
	assert.NoError(err)
	assert.Equal(EVENT_SLEEP, event)
	assert.Equal(1, p.InstructionRan())
	assert.Equal(uint32(testOrigin+4), p.Pc())

	event, err = p.Run(10)
	assert.NoError(err)
	assert.Equal(EVENT_KILL, event)
	assert.Equal(2, p.InstructionRan())
	assert.Equal(uint32(testOrigin+12), p.Pc())
	assert.Equal(uint32(1), p.Reg[encoding.REG_G0])

	event, err = p.Run(1)
	assert.NoError(err)
	assert.Equal(EVENT_BUDGET, event)
	assert.Equal(uint32(2), p.Reg[encoding.REG_G0])
}

func TestFixed(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(float32(1.0), FixedToFloat(16384))
	assert.Equal(float32(-0.5), FixedToFloat(-8192))
	assert.Equal(int32(4096), FloatToFixed(0.25))
	assert.Equal(float32(0.5), Fixed9PointToFloat(512))
	assert.Equal(int16(-1024), FloatToFixed9Point(-1))

	p := NewProcessor(Config{})
	p.Reg[encoding.REG_G0] = uint32(FloatToFixed(1.5))
	p.Reg[encoding.REG_G1] = 0xffff_fe00

	assert.Equal(float32(1.5), p.Fixed(encoding.REG_G0))
	assert.Equal(float32(-0.5), p.Fixed9Point(encoding.REG_G1))
}
