package cpu

import (
	"github.com/ezrec/pip2/encoding"
)

type aluFunc func(a, b uint32) uint32

type aluErrFunc func(a, b uint32) (uint32, error)

func aluAdd(a, b uint32) uint32 { return a + b }
func aluSub(a, b uint32) uint32 { return a - b }
func aluMul(a, b uint32) uint32 { return a * b }
func aluAnd(a, b uint32) uint32 { return a & b }
func aluOr(a, b uint32) uint32  { return a | b }
func aluXor(a, b uint32) uint32 { return a ^ b }
func aluSll(a, b uint32) uint32 { return a << (b & 0x1f) }
func aluSrl(a, b uint32) uint32 { return a >> (b & 0x1f) }
func aluSra(a, b uint32) uint32 { return uint32(int32(a) >> (b & 0x1f)) }

func aluDiv(a, b uint32) (uint32, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	// MinInt32 / -1 wraps to MinInt32.
	return uint32(int32(a) / int32(b)), nil
}

func aluDivu(a, b uint32) (uint32, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	return a / b, nil
}

// alu is D = S op T.
func (p *Processor) alu(fn aluFunc) func(e encoding.TwoSources) error {
	return func(e encoding.TwoSources) error {
		p.Reg[e.D()] = fn(p.Reg[e.S()], p.Reg[e.T()])
		return nil
	}
}

func (p *Processor) aluErr(fn aluErrFunc) func(e encoding.TwoSources) error {
	return func(e encoding.TwoSources) (err error) {
		value, err := fn(p.Reg[e.S()], p.Reg[e.T()])
		if err != nil {
			return
		}
		p.Reg[e.D()] = value
		return
	}
}

// unary is D = op S.
func (p *Processor) unary(fn func(s uint32) uint32) func(e encoding.TwoSources) error {
	return func(e encoding.TwoSources) error {
		p.Reg[e.D()] = fn(p.Reg[e.S()])
		return nil
	}
}

// aluMasked operates on the low byte or half of S and T, zero extending
// the result.
func (p *Processor) aluMasked(fn aluFunc, mask uint32) func(e encoding.TwoSources) error {
	return func(e encoding.TwoSources) error {
		p.Reg[e.D()] = fn(p.Reg[e.S()]&mask, p.Reg[e.T()]&mask) & mask
		return nil
	}
}

// aluImm8 is D = S op T, where T is the raw 8-bit field. A non-zero mask
// narrows the operation as aluMasked does.
func (p *Processor) aluImm8(fn aluFunc, signed bool, mask uint32) func(e encoding.TwoSources) error {
	return func(e encoding.TwoSources) error {
		imm := uint32(e.UByteT())
		if signed {
			imm = uint32(e.ByteT())
		}
		s := p.Reg[e.S()]
		if mask == 0 {
			p.Reg[e.D()] = fn(s, imm)
		} else {
			p.Reg[e.D()] = fn(s&mask, imm&mask) & mask
		}
		return nil
	}
}

// shiftNarrow shifts the low 'bits' of S by register T. Arithmetic
// shifts sign extend the narrow value first.
func (p *Processor) shiftNarrow(fn aluFunc, bits uint, signed bool) func(e encoding.TwoSources) error {
	mask := uint32(1)<<bits - 1
	return func(e encoding.TwoSources) error {
		value := p.Reg[e.S()] & mask
		if signed {
			value = uint32(int32(value<<(32-bits)) >> (32 - bits))
		}
		p.Reg[e.D()] = fn(value, p.Reg[e.T()]) & mask
		return nil
	}
}

// aluImm is D = S op immediate, with the immediate fetched from the
// following info word.
func (p *Processor) aluImm(fn aluFunc, mask uint32) func(e encoding.TwoSources) error {
	return func(e encoding.TwoSources) (err error) {
		s := p.Reg[e.S()]
		imm, err := p.fetchImmediate()
		if err != nil {
			return
		}
		if mask == 0 {
			p.Reg[e.D()] = fn(s, imm)
		} else {
			p.Reg[e.D()] = fn(s&mask, imm&mask) & mask
		}
		return
	}
}

func (p *Processor) aluImmErr(fn aluErrFunc) func(e encoding.TwoSources) error {
	return func(e encoding.TwoSources) (err error) {
		s := p.Reg[e.S()]
		imm, err := p.fetchImmediate()
		if err != nil {
			return
		}
		value, err := fn(s, imm)
		if err != nil {
			return
		}
		p.Reg[e.D()] = value
		return
	}
}
