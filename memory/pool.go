package memory

import (
	"fmt"
	"math"
)

// PoolKind is the literal kind of a constant pool entry.
//
//go:generate go tool stringer -linecomment -type=PoolKind
type PoolKind int

const (
	POOL_INTEGER = PoolKind(0) // integer
	POOL_STRING  = PoolKind(1) // string
	POOL_FLOAT   = PoolKind(2) // float
)

// PoolItem is one constant pool entry.
type PoolItem struct {
	Kind    PoolKind
	Integer uint32
	String  string
	Float   float32
}

// Integer makes an integer pool item.
func Integer(value uint32) PoolItem {
	return PoolItem{Kind: POOL_INTEGER, Integer: value}
}

// String makes a string pool item.
func String(value string) PoolItem {
	return PoolItem{Kind: POOL_STRING, String: value}
}

// Float makes a float pool item.
func Float(value float32) PoolItem {
	return PoolItem{Kind: POOL_FLOAT, Float: value}
}

func (item PoolItem) GoString() string {
	switch item.Kind {
	case POOL_INTEGER:
		return fmt.Sprintf("int 0x%08x", item.Integer)
	case POOL_STRING:
		return fmt.Sprintf("str %q", item.String)
	case POOL_FLOAT:
		return fmt.Sprintf("float %v (0x%08x)", item.Float, math.Float32bits(item.Float))
	}
	return item.Kind.String()
}

// Pool is the per-program constant pool.
type Pool struct {
	Items []PoolItem
}

// Add appends an item, reusing an identical entry if present, and
// returns its index.
func (pool *Pool) Add(item PoolItem) (index uint32) {
	for n, have := range pool.Items {
		if have == item {
			return uint32(n)
		}
	}

	pool.Items = append(pool.Items, item)
	return uint32(len(pool.Items) - 1)
}

// Item returns the pool entry at index.
func (pool *Pool) Item(index uint32) (item PoolItem, ok bool) {
	if pool == nil || uint64(index) >= uint64(len(pool.Items)) {
		return
	}
	return pool.Items[index], true
}

// ImmediateInteger returns the integer literal at index.
func (pool *Pool) ImmediateInteger(index uint32) (value uint32, ok bool) {
	item, ok := pool.Item(index)
	if !ok || item.Kind != POOL_INTEGER {
		return 0, false
	}
	return item.Integer, true
}
