package cpu

import (
	"github.com/ezrec/pip2/encoding"
)

func (p *Processor) opLDQ(e encoding.DestOnly) error {
	p.Reg[e.D()] = uint32(e.Imm16())
	return nil
}

func (p *Processor) opLDI(e encoding.DestOnly) (err error) {
	value, err := p.fetchImmediate()
	if err != nil {
		return
	}
	p.Reg[e.D()] = value
	return
}

func (p *Processor) opJPr(e encoding.DestOnly) error {
	p.Reg[encoding.REG_PC] = p.Reg[e.D()]
	return nil
}

func (p *Processor) opCALLr(e encoding.DestOnly) error {
	target := p.Reg[e.D()]
	p.Reg[encoding.REG_RA] = p.Reg[encoding.REG_PC]
	p.Reg[encoding.REG_PC] = target
	return nil
}

func (p *Processor) opJPl(e encoding.Word) error {
	p.Reg[encoding.REG_PC] = p.here() + uint32(e.Value())
	return nil
}

func (p *Processor) opCALLl(e encoding.Word) error {
	target := p.here() + uint32(e.Value())
	p.Reg[encoding.REG_RA] = p.Reg[encoding.REG_PC]
	p.Reg[encoding.REG_PC] = target
	return nil
}

func (p *Processor) opRET(e encoding.Undefined) error {
	p.Reg[encoding.REG_PC] = p.Reg[encoding.REG_RA]
	return nil
}

// opSTORE pushes registers Start..End, then reserves Extra words of frame.
func (p *Processor) opSTORE(e encoding.RangeReg) (err error) {
	mem := p.config.Memory
	sp := p.Reg[encoding.REG_SP]
	for reg := e.Start(); reg <= e.End(); reg++ {
		sp -= 4
		err = mem.Write32(sp, p.Reg[reg])
		if err != nil {
			return
		}
	}
	p.Reg[encoding.REG_SP] = sp - uint32(e.Extra())*4
	return
}

// opRESTORE releases the frame and pops registers End..Start.
func (p *Processor) opRESTORE(e encoding.RangeReg) (err error) {
	mem := p.config.Memory
	sp := p.Reg[encoding.REG_SP] + uint32(e.Extra())*4
	values := make([]uint32, 0, 8)
	for reg := e.End(); reg >= e.Start(); reg-- {
		var value uint32
		value, err = mem.Read32(sp)
		if err != nil {
			return
		}
		values = append(values, value)
		sp += 4
	}
	for n, value := range values {
		p.Reg[e.End()-n] = value
	}
	p.Reg[encoding.REG_SP] = sp
	return
}

func (p *Processor) opKILLTASK(e encoding.Undefined) error {
	p.suspend = EVENT_KILL
	return nil
}

func (p *Processor) opSLEEP(e encoding.Undefined) error {
	p.suspend = EVENT_SLEEP
	return nil
}

func (p *Processor) opSYSCPY(e encoding.TwoSources) error {
	return p.config.Memory.Copy(p.Reg[e.D()], p.Reg[e.S()], p.Reg[e.T()])
}

func (p *Processor) opSYSSET(e encoding.TwoSources) error {
	return p.config.Memory.Fill(p.Reg[e.D()], uint8(p.Reg[e.S()]), p.Reg[e.T()])
}
