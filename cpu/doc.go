// Package cpu implements the PIP2 interpreter.
//
// A Processor owns a register file of 32 general-purpose registers plus
// the program counter, and a 256-slot opcode table built once at
// construction. Run fetches 32-bit instruction words from the host
// supplied Memory, advances the program counter by one instruction, and
// dispatches on the low byte of the word. Immediates too large for an
// instruction word follow it as info words, either packed inline or
// indexing the program's constant Pool.
//
// Run executes a bounded number of instructions on the caller's
// goroutine and returns an Event telling the host why it stopped. Only
// Stop and Running may be called from other goroutines while Run is
// active.
package cpu
