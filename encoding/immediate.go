// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package encoding

const (
	// IMMEDIATE_INLINE marks an info word that carries its value inline.
	// When clear, the info word is a constant pool index.
	IMMEDIATE_INLINE = uint32(0x8000_0000)

	IMMEDIATE_MIN = -(1 << 30)
	IMMEDIATE_MAX = (1 << 30) - 1

	POOL_INDEX_MAX = 0x7fff_ffff
)

// FitsImmediate returns true if the value can be packed inline into an
// info word.
func FitsImmediate(value int32) bool {
	return value >= IMMEDIATE_MIN && value <= IMMEDIATE_MAX
}

// PackImmediate packs a value into an inline info word. Only the low 31
// bits are kept; bit 30 doubles as the sign on unpacking.
func PackImmediate(value int32) uint32 {
	return IMMEDIATE_INLINE | (uint32(value) & 0x7fff_ffff)
}

// UnpackImmediate reconstructs an inline value. The packed sign lives
// in bit 30 and is copied back into bit 31.
func UnpackImmediate(info uint32) (value int32, inline bool) {
	if (info & IMMEDIATE_INLINE) == 0 {
		return
	}

	value = int32((info & 0x7fff_ffff) | ((info << 1) & 0x8000_0000))
	inline = true
	return
}

// PackPoolIndex builds an info word referring to a constant pool entry.
func PackPoolIndex(index uint32) uint32 {
	return index & POOL_INDEX_MAX
}
