// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package encoding

import (
	"fmt"
)

// Register is an index into the register file.
type Register int

const (
	REG_ZERO = Register(0) // zero
	REG_SP   = Register(1) // sp
	REG_RA   = Register(2) // ra
	REG_FP   = Register(3) // fp

	// Saved registers.
	REG_S0 = Register(iota)
	REG_S1
	REG_S2
	REG_S3
	REG_S4
	REG_S5
	REG_S6
	REG_S7
)

const (
	// Parameter registers.
	REG_P0 = Register(iota + 12)
	REG_P1
	REG_P2
	REG_P3
)

const (
	// General registers.
	REG_G0 = Register(iota + 16)
	REG_G1
	REG_G2
	REG_G3
	REG_G4
	REG_G5
	REG_G6
	REG_G7
	REG_G8
	REG_G9
	REG_G10
	REG_G11
	REG_G12
	REG_G13
	REG_G14
	REG_G15
)

const (
	REG_PC = Register(32) // pc

	REG_GENERAL_COUNT = 32
	REG_COUNT         = 33
)

var registerName = func() (names [REG_COUNT]string) {
	names[REG_ZERO] = "zero"
	names[REG_SP] = "sp"
	names[REG_RA] = "ra"
	names[REG_FP] = "fp"
	for n := range 8 {
		names[int(REG_S0)+n] = fmt.Sprintf("s%d", n)
	}
	for n := range 4 {
		names[int(REG_P0)+n] = fmt.Sprintf("p%d", n)
	}
	for n := range 16 {
		names[int(REG_G0)+n] = fmt.Sprintf("g%d", n)
	}
	names[REG_PC] = "pc"
	return
}()

func (r Register) String() string {
	if r < 0 || int(r) >= len(registerName) {
		return fmt.Sprintf("r?%d", int(r))
	}
	return registerName[r]
}

// LookupRegister finds a register by name.
func LookupRegister(name string) (reg Register, ok bool) {
	for n, str := range registerName {
		if str == name {
			return Register(n), true
		}
	}
	return
}
