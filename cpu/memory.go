package cpu

// Memory is the host virtual address space as seen by the interpreter.
type Memory interface {
	// ReadCode fetches an instruction word.
	ReadCode(addr uint32) (word uint32, err error)
	// ReadDword fetches a raw data word, such as an immediate info word.
	ReadDword(addr uint32) (word uint32, err error)

	Read8(addr uint32) (value uint8, err error)
	Read16(addr uint32) (value uint16, err error)
	Read32(addr uint32) (value uint32, err error)
	Write8(addr uint32, value uint8) error
	Write16(addr uint32, value uint16) error
	Write32(addr uint32, value uint32) error

	// Copy copies count bytes from src to dst.
	Copy(dst, src uint32, count uint32) error
	// Fill sets count bytes at dst to value.
	Fill(dst uint32, value uint8, count uint32) error
}

// Pool is the constant pool of the loaded program.
type Pool interface {
	// ImmediateInteger returns the integer literal at index, or ok=false
	// if the entry is missing or not an integer.
	ImmediateInteger(index uint32) (value uint32, ok bool)
}
