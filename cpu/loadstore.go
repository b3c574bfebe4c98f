package cpu

import (
	"github.com/ezrec/pip2/encoding"
)

// address is S plus the displacement in the following info word.
func (p *Processor) address(e encoding.TwoSources) (addr uint32, err error) {
	base := p.Reg[e.S()]
	disp, err := p.fetchImmediate()
	if err != nil {
		return
	}
	addr = base + disp
	return
}

func (p *Processor) opSTBd(e encoding.TwoSources) (err error) {
	addr, err := p.address(e)
	if err != nil {
		return
	}
	return p.config.Memory.Write8(addr, uint8(p.Reg[e.D()]))
}

func (p *Processor) opSTHd(e encoding.TwoSources) (err error) {
	addr, err := p.address(e)
	if err != nil {
		return
	}
	return p.config.Memory.Write16(addr, uint16(p.Reg[e.D()]))
}

func (p *Processor) opSTWd(e encoding.TwoSources) (err error) {
	addr, err := p.address(e)
	if err != nil {
		return
	}
	return p.config.Memory.Write32(addr, p.Reg[e.D()])
}

func (p *Processor) opLDBd(e encoding.TwoSources) (err error) {
	addr, err := p.address(e)
	if err != nil {
		return
	}
	value, err := p.config.Memory.Read8(addr)
	if err != nil {
		return
	}
	p.Reg[e.D()] = uint32(int32(int8(value)))
	return
}

func (p *Processor) opLDBUd(e encoding.TwoSources) (err error) {
	addr, err := p.address(e)
	if err != nil {
		return
	}
	value, err := p.config.Memory.Read8(addr)
	if err != nil {
		return
	}
	p.Reg[e.D()] = uint32(value)
	return
}

func (p *Processor) opLDHd(e encoding.TwoSources) (err error) {
	addr, err := p.address(e)
	if err != nil {
		return
	}
	value, err := p.config.Memory.Read16(addr)
	if err != nil {
		return
	}
	p.Reg[e.D()] = uint32(int32(int16(value)))
	return
}

func (p *Processor) opLDHUd(e encoding.TwoSources) (err error) {
	addr, err := p.address(e)
	if err != nil {
		return
	}
	value, err := p.config.Memory.Read16(addr)
	if err != nil {
		return
	}
	p.Reg[e.D()] = uint32(value)
	return
}

func (p *Processor) opLDWd(e encoding.TwoSources) (err error) {
	addr, err := p.address(e)
	if err != nil {
		return
	}
	value, err := p.config.Memory.Read32(addr)
	if err != nil {
		return
	}
	p.Reg[e.D()] = value
	return
}
