package cpu

import (
	"github.com/ezrec/pip2/encoding"
)

// fetchImmediate resolves the info word at the program counter and
// advances past it. Inline info words carry a 31-bit packed value;
// otherwise the info word indexes the constant pool.
func (p *Processor) fetchImmediate() (value uint32, err error) {
	pc := p.Reg[encoding.REG_PC]
	info, err := p.config.Memory.ReadDword(pc)
	p.Reg[encoding.REG_PC] = pc + 4
	if err != nil {
		return
	}

	inline, ok := encoding.UnpackImmediate(info)
	if ok {
		value = uint32(inline)
		return
	}

	if p.config.Pool == nil {
		err = &ErrPool{Index: info}
		return
	}

	value, ok = p.config.Pool.ImmediateInteger(info)
	if !ok {
		err = &ErrPool{Index: info}
		return
	}

	return
}

// skipImmediate advances past an info word without resolving it.
func (p *Processor) skipImmediate() {
	p.Reg[encoding.REG_PC] += 4
}
