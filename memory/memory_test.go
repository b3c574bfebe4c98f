package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0x1000, 0x100)
	assert.Equal(uint32(0x1100), mem.End())

	assert.NoError(mem.Write32(0x1000, 0x0403_0201))

	b, err := mem.Read8(0x1000)
	assert.NoError(err)
	assert.Equal(uint8(0x01), b)

	h, err := mem.Read16(0x1002)
	assert.NoError(err)
	assert.Equal(uint16(0x0403), h)

	assert.NoError(mem.Write16(0x1004, 0xbeef))
	assert.NoError(mem.Write8(0x1006, 0xad))
	w, err := mem.Read32(0x1004)
	assert.NoError(err)
	assert.Equal(uint32(0x00ad_beef), w)

	w, err = mem.ReadCode(0x1000)
	assert.NoError(err)
	assert.Equal(uint32(0x0403_0201), w)

	w, err = mem.ReadDword(0x1000)
	assert.NoError(err)
	assert.Equal(uint32(0x0403_0201), w)

	// Unaligned words are permitted.
	w, err = mem.Read32(0x1001)
	assert.NoError(err)
	assert.Equal(uint32(0xef04_0302), w)

	// Last word in memory.
	assert.NoError(mem.Write32(0x10fc, 1))
}

func TestMemoryRange(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0x1000, 0x100)

	table := []struct {
		addr uint32
		size uint32
	}{
		{0x0fff, 1},
		{0x1100, 1},
		{0x10ff, 2},
		{0x10fd, 4},
		{0xffff_fffe, 4},
	}

	for _, entry := range table {
		var err error
		switch entry.size {
		case 1:
			_, err = mem.Read8(entry.addr)
		case 2:
			_, err = mem.Read16(entry.addr)
		case 4:
			_, err = mem.Read32(entry.addr)
		}
		assert.True(errors.Is(err, ErrOutOfRange), "%x", entry.addr)

		var ea *ErrAddress
		assert.True(errors.As(err, &ea))
		if ea != nil {
			assert.Equal(entry.addr, ea.Addr)
			assert.Equal(entry.size, ea.Size)
		}
	}

	assert.True(errors.Is(mem.Write8(0x1100, 0), ErrOutOfRange))
	assert.True(errors.Is(mem.Write16(0x10ff, 0), ErrOutOfRange))
	assert.True(errors.Is(mem.Write32(0x0ffe, 0), ErrOutOfRange))
	assert.True(errors.Is(mem.Load(0x10fc, []uint32{1, 2}), ErrOutOfRange))
}

func TestMemoryCopy(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0, 16)
	for n := range 8 {
		assert.NoError(mem.Write8(uint32(n), uint8(n+1)))
	}

	// Overlapping forward copy.
	assert.NoError(mem.Copy(2, 0, 6))
	assert.Equal([]byte{1, 2, 1, 2, 3, 4, 5, 6}, mem.Data[:8])

	// Overlapping backward copy.
	assert.NoError(mem.Copy(0, 2, 6))
	assert.Equal([]byte{1, 2, 3, 4, 5, 6, 5, 6}, mem.Data[:8])

	assert.NoError(mem.Copy(0, 0, 0))

	assert.True(errors.Is(mem.Copy(12, 0, 8), ErrOutOfRange))
	assert.True(errors.Is(mem.Copy(0, 12, 8), ErrOutOfRange))
}

func TestMemoryFill(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0, 8)
	assert.NoError(mem.Fill(2, 0x5a, 3))
	assert.Equal([]byte{0, 0, 0x5a, 0x5a, 0x5a, 0, 0, 0}, mem.Data)

	assert.True(errors.Is(mem.Fill(6, 0, 3), ErrOutOfRange))
	assert.Equal(uint8(0), mem.Data[6])
}

func TestMemoryLoad(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0x100, 8)
	assert.NoError(mem.Load(0x100, []uint32{0x1122_3344, 0x5566_7788}))
	assert.Equal([]byte{0x44, 0x33, 0x22, 0x11, 0x88, 0x77, 0x66, 0x55}, mem.Data)
}

func TestPool(t *testing.T) {
	assert := assert.New(t)

	pool := &Pool{}

	assert.Equal(uint32(0), pool.Add(Integer(0x4000_0000)))
	assert.Equal(uint32(1), pool.Add(String("hello")))
	assert.Equal(uint32(2), pool.Add(Float(1.5)))
	assert.Equal(uint32(0), pool.Add(Integer(0x4000_0000)))
	assert.Equal(uint32(3), pool.Add(Integer(0x4000_0001)))
	assert.Equal(4, len(pool.Items))

	value, ok := pool.ImmediateInteger(3)
	assert.True(ok)
	assert.Equal(uint32(0x4000_0001), value)

	_, ok = pool.ImmediateInteger(1)
	assert.False(ok)
	_, ok = pool.ImmediateInteger(2)
	assert.False(ok)
	_, ok = pool.ImmediateInteger(4)
	assert.False(ok)
	_, ok = pool.ImmediateInteger(0xffff_ffff)
	assert.False(ok)

	item, ok := pool.Item(1)
	assert.True(ok)
	assert.Equal(POOL_STRING, item.Kind)
	assert.Equal("hello", item.String)

	assert.Equal(`str "hello"`, item.GoString())
	assert.Equal("int 0x40000000", pool.Items[0].GoString())
	assert.Equal("float 1.5 (0x3fc00000)", pool.Items[2].GoString())
	assert.Equal("PoolKind(7)", PoolItem{Kind: 7}.GoString())
	assert.Equal("float", POOL_FLOAT.String())

	var none *Pool
	_, ok = none.Item(0)
	assert.False(ok)
}
