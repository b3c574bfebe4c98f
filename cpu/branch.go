package cpu

import (
	"github.com/ezrec/pip2/encoding"
)

// condFunc compares a register value against an operand.
type condFunc func(a, b uint32) bool

func condEq(a, b uint32) bool  { return a == b }
func condNe(a, b uint32) bool  { return a != b }
func condGe(a, b uint32) bool  { return int32(a) >= int32(b) }
func condGeu(a, b uint32) bool { return a >= b }
func condGt(a, b uint32) bool  { return int32(a) > int32(b) }
func condGtu(a, b uint32) bool { return a > b }
func condLe(a, b uint32) bool  { return int32(a) <= int32(b) }
func condLeu(a, b uint32) bool { return a <= b }
func condLt(a, b uint32) bool  { return int32(a) < int32(b) }
func condLtu(a, b uint32) bool { return a < b }

// here is the address of the executing instruction. Branch and jump
// displacements are relative to it.
func (p *Processor) here() uint32 {
	return p.Reg[encoding.REG_PC] - INSTRUCTION_SIZE
}

// branchImm compares D against the following immediate, and branches by
// the signed 16-bit displacement in the instruction.
func (p *Processor) branchImm(cond condFunc) func(e encoding.TwoSources) error {
	return func(e encoding.TwoSources) (err error) {
		base := p.here()
		imm, err := p.fetchImmediate()
		if err != nil {
			return
		}
		if cond(p.Reg[e.D()], imm) {
			p.Reg[encoding.REG_PC] = base + uint32(e.Imm16())
		}
		return
	}
}

// branchImmByte compares D against the 8-bit S field, and branches by the
// signed 8-bit T field in instruction units.
func (p *Processor) branchImmByte(cond condFunc, unsigned bool) func(e encoding.TwoSources) error {
	return func(e encoding.TwoSources) error {
		imm := uint32(e.ByteS())
		if unsigned {
			imm = uint32(e.UByteS())
		}
		if cond(p.Reg[e.D()], imm) {
			p.Reg[encoding.REG_PC] = p.here() + uint32(e.ByteT()*INSTRUCTION_SIZE)
		}
		return nil
	}
}

// branchReg compares D against S. The displacement follows as an info
// word, and is only resolved when the branch is taken.
func (p *Processor) branchReg(cond condFunc) func(e encoding.TwoSources) error {
	return func(e encoding.TwoSources) (err error) {
		base := p.here()
		if !cond(p.Reg[e.D()], p.Reg[e.S()]) {
			p.skipImmediate()
			return
		}
		disp, err := p.fetchImmediate()
		if err != nil {
			return
		}
		p.Reg[encoding.REG_PC] = base + disp
		return
	}
}
