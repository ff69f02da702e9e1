// Package memory implements the sparse byte-addressable memory of the
// simulated machine.
//
// The full 32-bit address space is legal. Storage is backed by fixed-size
// slabs allocated zero-filled the first time any address inside their range
// is written; reads of never-written addresses report a slab miss, which
// callers treat as zero. Half-words and words are little-endian byte
// sequences, low-order byte at the lowest address.
package memory

import (
	"fmt"
	"iter"
	"maps"
)

const (
	SLAB_SIZE = 1024 // Slab size in bytes. Must be a power of two.
	SLAB_MASK = SLAB_SIZE - 1
)

// Memory is a sparse, demand-allocated byte store over the 32-bit
// address space. The zero value is ready to use.
type Memory struct {
	slabs map[uint32][]byte // Keyed by slab base address.
}

var _memory_defines = map[string]string{
	"SLAB_SIZE": fmt.Sprintf("%v", SLAB_SIZE),
}

// Defines returns the assembler-visible constants of the memory model.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{
		slabs: make(map[uint32][]byte),
	}
}

// slabFor returns the slab base address and the offset within the
// slab for an address. The slab range is [base, base+SLAB_SIZE).
func slabFor(index uint32) (base uint32, diff uint32) {
	diff = index & SLAB_MASK
	base = index - diff
	return
}

// GetByte reads a single byte. ok is false if the containing slab has
// never been written; callers treat that as a zero read.
func (mem *Memory) GetByte(index uint32) (value byte, ok bool) {
	base, diff := slabFor(index)
	slab, ok := mem.slabs[base]
	if !ok {
		return
	}

	value = slab[diff]
	return
}

// GetHalf reads a 16-bit little-endian value starting at index.
// ok is false if any constituent byte's slab is absent.
func (mem *Memory) GetHalf(index uint32) (value uint16, ok bool) {
	for i := uint32(0); i < 2; i++ {
		var b byte
		b, ok = mem.GetByte(index + i)
		if !ok {
			value = 0
			return
		}
		value |= uint16(b) << (8 * i)
	}

	return
}

// GetWord reads a 32-bit little-endian value starting at index.
// ok is false if any constituent byte's slab is absent.
func (mem *Memory) GetWord(index uint32) (value uint32, ok bool) {
	for i := uint32(0); i < 4; i++ {
		var b byte
		b, ok = mem.GetByte(index + i)
		if !ok {
			value = 0
			return
		}
		value |= uint32(b) << (8 * i)
	}

	return
}

// SetByte writes a single byte, allocating the owning slab zero-filled
// on first touch.
func (mem *Memory) SetByte(index uint32, value byte) {
	base, diff := slabFor(index)
	slab, ok := mem.slabs[base]
	if !ok {
		slab = make([]byte, SLAB_SIZE)
		if mem.slabs == nil {
			mem.slabs = make(map[uint32][]byte)
		}
		mem.slabs[base] = slab
	}

	slab[diff] = value
}

// SetHalf writes a 16-bit value as two little-endian bytes.
func (mem *Memory) SetHalf(index uint32, value uint16) {
	for i := uint32(0); i < 2; i++ {
		mem.SetByte(index+i, byte(value>>(8*i)))
	}
}

// SetWord writes a 32-bit value as four little-endian bytes.
func (mem *Memory) SetWord(index uint32, value uint32) {
	for i := uint32(0); i < 4; i++ {
		mem.SetByte(index+i, byte(value>>(8*i)))
	}
}

// LoadSegment writes a contiguous byte run starting at base, in the
// manner of a program loader. Addresses wrap modulo 2^32.
func (mem *Memory) LoadSegment(base uint32, data []byte) {
	for i, b := range data {
		mem.SetByte(base+uint32(i), b)
	}
}

// SlabCount returns the number of allocated slabs.
func (mem *Memory) SlabCount() int {
	return len(mem.slabs)
}

// Reset discards all slabs.
func (mem *Memory) Reset() {
	mem.slabs = make(map[uint32][]byte)
}
